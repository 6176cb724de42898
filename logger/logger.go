package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ZeroLogger implements Logger on top of zerolog.
type ZeroLogger struct {
	zlog *zerolog.Logger
}

var _ Logger = (*ZeroLogger)(nil)

// New creates a ZeroLogger writing to stdout at the given level. Unknown
// levels fall back to info. If pretty is true, output is formatted for
// human readability.
func New(level string, pretty bool) *ZeroLogger {
	return NewWithOutput(level, pretty, os.Stdout)
}

// NewWithOutput creates a ZeroLogger writing to w; tests use this to
// capture output.
func NewWithOutput(level string, pretty bool, w io.Writer) *ZeroLogger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	l := zerolog.New(w).With().Timestamp().Logger()

	zLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		zLevel = zerolog.InfoLevel
	}
	l = l.Level(zLevel)

	return &ZeroLogger{zlog: &l}
}

// WithContext returns a logger bound to the zerolog logger stored in ctx,
// or the receiver when ctx carries none.
func (l *ZeroLogger) WithContext(ctx any) Logger {
	if c, ok := ctx.(context.Context); ok {
		zl := zerolog.Ctx(c)
		if zl == nil || zl.GetLevel() == zerolog.Disabled {
			return l
		}
		return &ZeroLogger{zlog: zl}
	}
	return l
}

// WithFields returns a logger with fields attached to all entries.
func (l *ZeroLogger) WithFields(fields map[string]any) Logger {
	log := l.zlog.With().Fields(fields).Logger()
	return &ZeroLogger{zlog: &log}
}

func (l *ZeroLogger) Info() LogEvent  { return &event{e: l.zlog.Info()} }
func (l *ZeroLogger) Error() LogEvent { return &event{e: l.zlog.Error()} }
func (l *ZeroLogger) Debug() LogEvent { return &event{e: l.zlog.Debug()} }
func (l *ZeroLogger) Warn() LogEvent  { return &event{e: l.zlog.Warn()} }
func (l *ZeroLogger) Fatal() LogEvent { return &event{e: l.zlog.Fatal()} }

// event adapts *zerolog.Event to the LogEvent interface.
type event struct {
	e *zerolog.Event
}

func (ev *event) Msg(msg string)                  { ev.e.Msg(msg) }
func (ev *event) Msgf(format string, args ...any) { ev.e.Msgf(format, args...) }

func (ev *event) Err(err error) LogEvent {
	return &event{e: ev.e.Err(err)}
}

func (ev *event) Str(key, value string) LogEvent {
	return &event{e: ev.e.Str(key, value)}
}

func (ev *event) Int(key string, value int) LogEvent {
	return &event{e: ev.e.Int(key, value)}
}

func (ev *event) Dur(key string, d time.Duration) LogEvent {
	return &event{e: ev.e.Dur(key, d)}
}

func (ev *event) Interface(key string, i any) LogEvent {
	return &event{e: ev.e.Interface(key, i)}
}
