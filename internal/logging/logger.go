package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is the logging interface used throughout the application.
type Logger interface {
	// Info logs an informational message with optional fields.
	Info(msg string, fields ...Field)
	// Error logs an error with optional fields. err may be nil.
	Error(msg string, err error, fields ...Field)
	// Debug logs a debug message with optional fields.
	Debug(msg string, fields ...Field)
	// Printf logs a formatted message at info level.
	Printf(format string, args ...any)
	// Println logs its arguments at info level.
	Println(args ...any)
}

// Field is a key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

// String returns a string field.
func String(key, value string) Field { return Field{Key: key, Value: value} }

// Int returns an int field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Uint64 returns a uint64 field.
func Uint64(key string, value uint64) Field { return Field{Key: key, Value: value} }

// Float64 returns a float64 field.
func Float64(key string, value float64) Field { return Field{Key: key, Value: value} }

// Err returns a field under the "error" key.
func Err(err error) Field { return Field{Key: "error", Value: err} }

// ZerologAdapter implements Logger on top of zerolog.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter wraps an existing zerolog logger.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// NewLogger returns a JSON logger writing to w, tagging every entry with
// the given component name.
func NewLogger(w io.Writer, component string) *ZerologAdapter {
	zl := zerolog.New(w).With().Timestamp().Str("component", component).Logger()
	return NewZerologAdapter(zl)
}

// NewDefaultLogger returns a human readable logger on stderr.
func NewDefaultLogger() *ZerologAdapter {
	return NewConsoleLogger(os.Stderr, "omnisum", zerolog.InfoLevel, false)
}

// NewConsoleLogger returns a console-formatted logger on w filtered at level.
func NewConsoleLogger(w io.Writer, component string, level zerolog.Level, noColor bool) *ZerologAdapter {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: noColor}
	zl := zerolog.New(cw).Level(level).With().Timestamp().Str("component", component).Logger()
	return NewZerologAdapter(zl)
}

// ParseLevel converts a level name (debug, info, warn, error, disabled) into
// a zerolog level. An empty string yields info.
func ParseLevel(name string) (zerolog.Level, error) {
	if strings.TrimSpace(name) == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// With returns a child logger carrying the extra fields on every entry.
func (z *ZerologAdapter) With(fields ...Field) *ZerologAdapter {
	ctx := z.logger.With()
	for _, f := range fields {
		ctx = ctx.Interface(f.Key, f.Value)
	}
	return NewZerologAdapter(ctx.Logger())
}

// Info logs at info level.
func (z *ZerologAdapter) Info(msg string, fields ...Field) {
	z.applyFields(z.logger.Info(), fields).Msg(msg)
}

// Error logs at error level.
func (z *ZerologAdapter) Error(msg string, err error, fields ...Field) {
	z.applyFields(z.logger.Error().Err(err), fields).Msg(msg)
}

// Debug logs at debug level.
func (z *ZerologAdapter) Debug(msg string, fields ...Field) {
	z.applyFields(z.logger.Debug(), fields).Msg(msg)
}

// Printf logs a formatted message at info level.
func (z *ZerologAdapter) Printf(format string, args ...any) {
	z.logger.Info().Msgf(format, args...)
}

// Println logs the space-joined arguments at info level.
func (z *ZerologAdapter) Println(args ...any) {
	z.logger.Info().Msg(strings.TrimSuffix(fmt.Sprintln(args...), "\n"))
}

func (z *ZerologAdapter) applyFields(e *zerolog.Event, fields []Field) *zerolog.Event {
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			e = e.Str(f.Key, v)
		case int:
			e = e.Int(f.Key, v)
		case int64:
			e = e.Int64(f.Key, v)
		case uint64:
			e = e.Uint64(f.Key, v)
		case float64:
			e = e.Float64(f.Key, v)
		case error:
			e = e.AnErr(f.Key, v)
		case bool:
			e = e.Bool(f.Key, v)
		default:
			e = e.Interface(f.Key, v)
		}
	}
	return e
}

// StdLoggerAdapter implements Logger on top of a standard library logger.
type StdLoggerAdapter struct {
	logger *log.Logger
}

// NewStdLoggerAdapter wraps l.
func NewStdLoggerAdapter(l *log.Logger) *StdLoggerAdapter {
	return &StdLoggerAdapter{logger: l}
}

// Info logs with an [INFO] prefix.
func (s *StdLoggerAdapter) Info(msg string, fields ...Field) {
	s.logger.Printf("[INFO] %s%s", msg, formatFields(fields))
}

// Error logs with an [ERROR] prefix.
func (s *StdLoggerAdapter) Error(msg string, err error, fields ...Field) {
	s.logger.Printf("[ERROR] %s: %v%s", msg, err, formatFields(fields))
}

// Debug logs with a [DEBUG] prefix.
func (s *StdLoggerAdapter) Debug(msg string, fields ...Field) {
	s.logger.Printf("[DEBUG] %s%s", msg, formatFields(fields))
}

// Printf forwards to the wrapped logger.
func (s *StdLoggerAdapter) Printf(format string, args ...any) {
	s.logger.Printf(format, args...)
}

// Println forwards to the wrapped logger.
func (s *StdLoggerAdapter) Println(args ...any) {
	s.logger.Println(args...)
}

func formatFields(fields []Field) string {
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	return b.String()
}

// Discard is a Logger that drops every entry.
var Discard Logger = NewZerologAdapter(zerolog.Nop())
