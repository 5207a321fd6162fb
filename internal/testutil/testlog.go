// Package testlog provides an in-memory logx.Logger for asserting on log
// output in tests.
package testlog

import (
	"sync"

	"medtrack/internal/logx"
)

// Entry is one captured log call.
type Entry struct {
	Level  string
	Msg    string
	Fields []logx.Field
}

// Recorder captures every entry logged through Logger().
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// New returns an empty Recorder.
func New() *Recorder { return &Recorder{} }

// Logger returns a logx.Logger that appends to the recorder.
func (r *Recorder) Logger() logx.Logger { return recLogger{rec: r} }

// Entries returns a snapshot of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// HasMsg reports whether any recorded entry carries the given message.
func (r *Recorder) HasMsg(msg string) bool {
	for _, e := range r.Entries() {
		if e.Msg == msg {
			return true
		}
	}
	return false
}

func (r *Recorder) record(level, msg string, fields []logx.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{
		Level:  level,
		Msg:    msg,
		Fields: append([]logx.Field(nil), fields...),
	})
}

type recLogger struct {
	rec  *Recorder
	with []logx.Field
}

func (l recLogger) Debug(msg string, f ...logx.Field) { l.emit("debug", msg, f) }
func (l recLogger) Info(msg string, f ...logx.Field)  { l.emit("info", msg, f) }
func (l recLogger) Warn(msg string, f ...logx.Field)  { l.emit("warn", msg, f) }
func (l recLogger) Error(msg string, f ...logx.Field) { l.emit("error", msg, f) }

func (l recLogger) With(f ...logx.Field) logx.Logger {
	bound := append([]logx.Field(nil), l.with...)
	return recLogger{rec: l.rec, with: append(bound, f...)}
}

func (l recLogger) Sync() error { return nil }

func (l recLogger) emit(level, msg string, f []logx.Field) {
	all := append(append([]logx.Field(nil), l.with...), f...)
	l.rec.record(level, msg, all)
}

var _ logx.Logger = recLogger{}
