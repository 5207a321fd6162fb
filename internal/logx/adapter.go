package logx

import "log/slog"

// NewSlogAdapter wraps a slog.Logger in the Logger interface.
func NewSlogAdapter(l *slog.Logger) Logger {
	return slogAdapter{l: l}
}

type slogAdapter struct {
	l *slog.Logger
}

func (a slogAdapter) Debug(msg string, fields ...Field) { a.l.Debug(msg, args(fields)...) }
func (a slogAdapter) Info(msg string, fields ...Field)  { a.l.Info(msg, args(fields)...) }
func (a slogAdapter) Warn(msg string, fields ...Field)  { a.l.Warn(msg, args(fields)...) }
func (a slogAdapter) Error(msg string, fields ...Field) { a.l.Error(msg, args(fields)...) }

// With binds fields to every entry logged through the returned Logger.
func (a slogAdapter) With(fields ...Field) Logger {
	return slogAdapter{l: a.l.With(args(fields)...)}
}

// Sync exists for symmetry with flushing backends; slog has no buffer.
func (a slogAdapter) Sync() error { return nil }

// args flattens fields into alternating slog key-value arguments.
func args(fields []Field) []any {
	out := make([]any, 0, 2*len(fields))
	for _, f := range fields {
		out = append(out, f.Key, f.Value)
	}
	return out
}
