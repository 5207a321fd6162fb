package ratelimit

import "time"

// Clock abstracts time.Now so refill math is testable with a fake.
type Clock interface {
	Now() time.Time
}

// RealClock reads the wall clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }
