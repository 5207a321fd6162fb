// Package stats derives aggregate views from the current delivery
// collection. Everything here is a pure function over slices; nothing is
// read from or written to storage.
package stats

import (
	"sort"
	"time"

	"medtrack/internal/domain"
)

// UnassignedCounts splits packages without a patient by payment status.
type UnassignedCounts struct {
	Paid   int
	Unpaid int
}

// AssignedCounts splits patient-bound deliveries by lifecycle status.
type AssignedCounts struct {
	Pending    int
	InProgress int
	Delivered  int
	Failed     int
}

// Counts is the full status breakdown for list and dashboard views.
type Counts struct {
	Unassigned UnassignedCounts
	Assigned   AssignedCounts
}

// StatusCounts computes the status breakdown of the given deliveries.
// Patient presence decides the unassigned/assigned split.
func StatusCounts(deliveries []domain.Delivery) Counts {
	var c Counts
	for i := range deliveries {
		d := &deliveries[i]
		if !d.Assigned() {
			if d.PaymentStatus == domain.PaymentPaid {
				c.Unassigned.Paid++
			} else {
				c.Unassigned.Unpaid++
			}
			continue
		}
		switch d.Status {
		case domain.StatusPending:
			c.Assigned.Pending++
		case domain.StatusInProgress:
			c.Assigned.InProgress++
		case domain.StatusDelivered:
			c.Assigned.Delivered++
		case domain.StatusFailed:
			c.Assigned.Failed++
		}
	}
	return c
}

// SuccessRate returns the percentage of deliveries with terminal status
// delivered. An empty subset yields 0, never NaN.
func SuccessRate(deliveries []domain.Delivery) float64 {
	if len(deliveries) == 0 {
		return 0
	}
	delivered := 0
	for i := range deliveries {
		if deliveries[i].Status == domain.StatusDelivered {
			delivered++
		}
	}
	return float64(delivered) / float64(len(deliveries)) * 100
}

// RiderSuccessRate restricts SuccessRate to one rider's deliveries.
func RiderSuccessRate(deliveries []domain.Delivery, riderID string) float64 {
	return SuccessRate(filterByRider(deliveries, riderID))
}

// RiderOccupancy summarizes one rider's delivery load. Pending counts every
// delivery that is not yet delivered.
func RiderOccupancy(deliveries []domain.Delivery, riderID string) domain.RiderOccupancy {
	var o domain.RiderOccupancy
	for i := range deliveries {
		d := &deliveries[i]
		if d.RiderID != riderID {
			continue
		}
		o.Total++
		if d.Status == domain.StatusDelivered {
			o.Completed++
		} else {
			o.Pending++
		}
	}
	return o
}

// MonthlyGrowth counts deliveries created in each of the trailing 12
// calendar months ending at now, ordered oldest to newest.
func MonthlyGrowth(deliveries []domain.Delivery, now time.Time) [12]int {
	var out [12]int
	// index of the current month is 11; 11 months back is 0
	base := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := range deliveries {
		created := deliveries[i].CreatedAt.UTC()
		m := time.Date(created.Year(), created.Month(), 1, 0, 0, 0, 0, time.UTC)
		diff := monthsBetween(m, base)
		if diff < 0 || diff > 11 {
			continue
		}
		out[11-diff]++
	}
	return out
}

// RiderStanding is one rider's row on the dashboard leaderboard.
type RiderStanding struct {
	RiderID     string
	Total       int
	Delivered   int
	SuccessRate float64
}

// TopRiders ranks riders that appear in the given deliveries by delivered
// count, then success rate, then id for a stable order, and returns at most
// n standings. Deliveries without a rider are skipped.
func TopRiders(deliveries []domain.Delivery, n int) []RiderStanding {
	byRider := map[string]*RiderStanding{}
	for i := range deliveries {
		d := &deliveries[i]
		if d.RiderID == "" {
			continue
		}
		s, ok := byRider[d.RiderID]
		if !ok {
			s = &RiderStanding{RiderID: d.RiderID}
			byRider[d.RiderID] = s
		}
		s.Total++
		if d.Status == domain.StatusDelivered {
			s.Delivered++
		}
	}
	out := make([]RiderStanding, 0, len(byRider))
	for _, s := range byRider {
		if s.Total > 0 {
			s.SuccessRate = float64(s.Delivered) / float64(s.Total) * 100
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Delivered != out[j].Delivered {
			return out[i].Delivered > out[j].Delivered
		}
		if out[i].SuccessRate != out[j].SuccessRate {
			return out[i].SuccessRate > out[j].SuccessRate
		}
		return out[i].RiderID < out[j].RiderID
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// RecentDeliveries returns at most n deliveries ordered by creation time,
// newest first. The input slice is left untouched.
func RecentDeliveries(deliveries []domain.Delivery, n int) []domain.Delivery {
	out := make([]domain.Delivery, len(deliveries))
	copy(out, deliveries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func monthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

func filterByRider(deliveries []domain.Delivery, riderID string) []domain.Delivery {
	out := make([]domain.Delivery, 0, len(deliveries))
	for i := range deliveries {
		if deliveries[i].RiderID == riderID {
			out = append(out, deliveries[i])
		}
	}
	return out
}
