package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"
)

func init() {
	lvl, err := GetLevel(os.Getenv("MICRO_LOG_LEVEL"))
	if err != nil {
		lvl = InfoLevel
	}

	DefaultLogger = NewLogger(WithLevel(lvl))
}

type defaultLogger struct {
	opts Options
	slog *slog.Logger
	sync.RWMutex
}

// Init (opts...) should only overwrite provided options.
func (l *defaultLogger) Init(opts ...Option) error {
	l.Lock()
	defer l.Unlock()

	for _, o := range opts {
		o(&l.opts)
	}

	handler := slog.NewTextHandler(l.opts.Out, &slog.HandlerOptions{
		Level:     l.opts.Level.ToSlog(),
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// render our own level names so trace and fatal read correctly
			if a.Key == slog.LevelKey && len(groups) == 0 {
				if lvl, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(fromSlog(lvl).String())
				}
			}
			return a
		},
	})

	l.slog = slog.New(handler)

	if len(l.opts.Fields) > 0 {
		const fieldsPerKV = 2
		args := make([]any, 0, len(l.opts.Fields)*fieldsPerKV)
		for k, v := range l.opts.Fields {
			args = append(args, k, v)
		}

		l.slog = l.slog.With(args...)
	}

	return nil
}

func (l *defaultLogger) String() string {
	return "default"
}

func (l *defaultLogger) Fields(fields map[string]interface{}) Logger {
	l.RLock()
	nfields := copyFields(l.opts.Fields)
	opts := l.opts
	l.RUnlock()

	for k, v := range fields {
		nfields[k] = v
	}

	return NewLogger(
		WithLevel(opts.Level),
		WithFields(nfields),
		WithOutput(opts.Out),
		WithCallerSkipCount(opts.CallerSkipCount),
	)
}

func copyFields(src map[string]interface{}) map[string]interface{} {
	dst := make(map[string]interface{}, len(src))
	for k, v := range src {
		dst[k] = v
	}

	return dst
}

func (l *defaultLogger) Log(level Level, v ...interface{}) {
	l.handle(level, fmt.Sprint(v...))
}

func (l *defaultLogger) Logf(level Level, format string, v ...interface{}) {
	if !l.enabled(level) {
		return
	}
	l.handle(level, fmt.Sprintf(format, v...))
}

func (l *defaultLogger) enabled(level Level) bool {
	l.RLock()
	defer l.RUnlock()
	return l.opts.Level.Enabled(level)
}

func (l *defaultLogger) handle(level Level, msg string) {
	l.RLock()
	slogger := l.slog
	skip := l.opts.CallerSkipCount
	enabled := l.opts.Level.Enabled(level)
	l.RUnlock()

	if !enabled {
		return
	}

	if slogger == nil {
		slogger = slog.Default()
	}

	// +1 for handle itself
	var pcs [1]uintptr
	runtime.Callers(skip+1, pcs[:])
	r := slog.NewRecord(time.Now(), level.ToSlog(), msg, pcs[0])

	_ = slogger.Handler().Handle(context.Background(), r)
}

func (l *defaultLogger) Options() Options {
	// not guard against options Context values
	l.RLock()
	defer l.RUnlock()

	opts := l.opts
	opts.Fields = copyFields(l.opts.Fields)

	return opts
}

func fromSlog(lvl slog.Level) Level {
	switch {
	case lvl < slog.LevelDebug:
		return TraceLevel
	case lvl < slog.LevelInfo:
		return DebugLevel
	case lvl < slog.LevelWarn:
		return InfoLevel
	case lvl < slog.LevelError:
		return WarnLevel
	case lvl == slog.LevelError:
		return ErrorLevel
	}
	return FatalLevel
}

// NewLogger builds a new logger based on options.
func NewLogger(opts ...Option) Logger {
	// Default options
	const defaultCallerSkipCount = 2

	options := Options{
		Level:           InfoLevel,
		Fields:          make(map[string]interface{}),
		Out:             os.Stderr,
		CallerSkipCount: defaultCallerSkipCount,
		Context:         context.Background(),
	}

	l := &defaultLogger{opts: options}
	if err := l.Init(opts...); err != nil {
		l.Log(FatalLevel, err)
	}

	return l
}
