package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type traceIDKey struct{}

var log = newLogger(os.Stdout)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// Configure sets level ("debug", "info", "warn", "error") and format ("json" or "text").
func Configure(level, format string, out io.Writer) {
	if out != nil {
		log.SetOutput(out)
	}

	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// WithTraceID returns a context carrying the request trace id
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceID extracts the trace id set by WithTraceID, or "".
func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(traceIDKey{}).(string); ok {
		return id
	}
	return ""
}

func entry(ctx context.Context) *logrus.Entry {
	if id := TraceID(ctx); id != "" {
		return log.WithField("trace_id", id)
	}
	return logrus.NewEntry(log)
}

func Debug(format string, args ...interface{}) { log.Debugf(format, args...) }
func Info(format string, args ...interface{})  { log.Infof(format, args...) }
func Warn(format string, args ...interface{})  { log.Warnf(format, args...) }
func Error(format string, args ...interface{}) { log.Errorf(format, args...) }
func Fatal(format string, args ...interface{}) { log.Fatalf(format, args...) }

func DebugContext(ctx context.Context, format string, args ...interface{}) {
	entry(ctx).Debugf(format, args...)
}

func InfoContext(ctx context.Context, format string, args ...interface{}) {
	entry(ctx).Infof(format, args...)
}

func WarnContext(ctx context.Context, format string, args ...interface{}) {
	entry(ctx).Warnf(format, args...)
}

func ErrorContext(ctx context.Context, format string, args ...interface{}) {
	entry(ctx).Errorf(format, args...)
}

func InfoContextWithFields(ctx context.Context, msg string, fields map[string]interface{}) {
	entry(ctx).WithFields(fields).Info(msg)
}

func WarnContextWithFields(ctx context.Context, msg string, fields map[string]interface{}) {
	entry(ctx).WithFields(fields).Warn(msg)
}

func ErrorContextWithFields(ctx context.Context, msg string, fields map[string]interface{}) {
	entry(ctx).WithFields(fields).Error(msg)
}
