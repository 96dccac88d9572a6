package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ANSI color codes
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Red     = "\033[31m"
	Green   = "\033[32m"
	Blue    = "\033[34m"
	White   = "\033[37m"
	Gray    = "\033[90m"

	BrightRed     = "\033[91m"
	BrightYellow  = "\033[93m"
	BrightMagenta = "\033[95m"
	BrightCyan    = "\033[96m"
	BrightWhite   = "\033[97m"
)

// Output formats accepted by Options.Format.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// ColoredLogger wraps zap.Logger with colored output
type ColoredLogger struct {
	*zap.Logger
	enableColors bool
	closer       io.Closer
}

// Component represents different parts of the system for color coding
type Component string

const (
	ComponentStorage  Component = "STORAGE"
	ComponentRegistry Component = "REGISTRY"
	ComponentAnchor   Component = "ANCHOR"
	ComponentCLI      Component = "CLI"
)

// Options configures NewLogger.
type Options struct {
	Level zapcore.Level
	// Format is FormatConsole (default) or FormatJSON.
	Format string
	// OutputFile, when set, receives the logs instead of Writer.
	OutputFile string
	// Writer defaults to os.Stderr. Stdout is left to command results.
	Writer       io.Writer
	EnableColors bool
}

func getComponentColor(component Component) string {
	switch component {
	case ComponentStorage:
		return BrightCyan
	case ComponentRegistry:
		return BrightMagenta
	case ComponentAnchor:
		return Green
	case ComponentCLI:
		return Blue
	default:
		return White
	}
}

func getLevelColor(level zapcore.Level) string {
	switch level {
	case zapcore.DebugLevel:
		return Gray
	case zapcore.InfoLevel:
		return BrightWhite
	case zapcore.WarnLevel:
		return BrightYellow
	case zapcore.ErrorLevel:
		return BrightRed
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return Red
	default:
		return White
	}
}

// coloredConsoleEncoder creates a custom encoder with colors
func coloredConsoleEncoder(enableColors bool) zapcore.Encoder {
	config := zap.NewDevelopmentEncoderConfig()

	// HH:MM:SS only
	config.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		timeStr := t.Format("15:04:05")
		if enableColors {
			enc.AppendString(Dim + timeStr + Reset)
		} else {
			enc.AppendString(timeStr)
		}
	}

	// Single letter level: D, I, W, E
	config.EncodeLevel = func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		levelStr := levelLetter(level)
		if enableColors {
			enc.AppendString(getLevelColor(level) + Bold + levelStr + Reset)
		} else {
			enc.AppendString(levelStr)
		}
	}

	config.EncodeCaller = func(caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
		file := caller.File
		if idx := strings.LastIndex(file, "/"); idx >= 0 {
			file = file[idx+1:]
		}
		file = strings.TrimSuffix(file, ".go")
		if enableColors {
			enc.AppendString(Dim + file + Reset)
		} else {
			enc.AppendString(file)
		}
	}

	return zapcore.NewConsoleEncoder(config)
}

func levelLetter(level zapcore.Level) string {
	switch level {
	case zapcore.DebugLevel:
		return "D"
	case zapcore.InfoLevel:
		return "I"
	case zapcore.WarnLevel:
		return "W"
	case zapcore.ErrorLevel:
		return "E"
	default:
		return "?"
	}
}

// NewLogger builds a logger from opts. Call Close when done if OutputFile
// was set.
func NewLogger(opts Options) (*ColoredLogger, error) {
	var encoder zapcore.Encoder
	switch opts.Format {
	case "", FormatConsole:
		encoder = coloredConsoleEncoder(opts.EnableColors)
	case FormatJSON:
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		opts.EnableColors = false
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	var (
		sink   zapcore.WriteSyncer
		closer io.Closer
	)
	switch {
	case opts.OutputFile != "":
		file, err := os.OpenFile(opts.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", opts.OutputFile, err)
		}
		sink, closer = zapcore.AddSync(file), file
		// Escape codes make no sense in a file.
		if opts.Format != FormatJSON {
			encoder = coloredConsoleEncoder(false)
		}
		opts.EnableColors = false
	case opts.Writer != nil:
		sink = zapcore.AddSync(opts.Writer)
	default:
		sink = zapcore.Lock(os.Stderr)
	}

	core := zapcore.NewCore(encoder, sink, opts.Level)
	logger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))

	return &ColoredLogger{
		Logger:       logger,
		enableColors: opts.EnableColors,
		closer:       closer,
	}, nil
}

// LevelFromVerbosity maps a repeated -v count to a level: none shows only
// errors, one adds info, two or more add debug.
func LevelFromVerbosity(n int) zapcore.Level {
	switch {
	case n <= 0:
		return zapcore.ErrorLevel
	case n == 1:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// ParseLevel parses a level name such as "debug" or "warn".
func ParseLevel(s string) (zapcore.Level, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil {
		return level, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// For returns a plain zap.Logger whose messages carry the component tag, for
// handing to packages that accept a *zap.Logger.
func (l *ColoredLogger) For(component Component) *zap.Logger {
	return l.Logger.WithOptions(zap.AddCallerSkip(-1)).With(zap.String("component", string(component)))
}

// Close flushes buffered entries and releases the output file, if any.
func (l *ColoredLogger) Close() error {
	_ = l.Sync()
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

func (l *ColoredLogger) tag(component Component, msg string) string {
	if l.enableColors {
		return fmt.Sprintf("%s[%s]%s %s", getComponentColor(component), component, Reset, msg)
	}
	return fmt.Sprintf("[%s] %s", component, msg)
}

// Component-specific logging methods
func (l *ColoredLogger) ComponentInfo(component Component, msg string, fields ...zap.Field) {
	l.Info(l.tag(component, msg), fields...)
}

func (l *ColoredLogger) ComponentWarn(component Component, msg string, fields ...zap.Field) {
	l.Warn(l.tag(component, msg), fields...)
}

func (l *ColoredLogger) ComponentError(component Component, msg string, fields ...zap.Field) {
	l.Error(l.tag(component, msg), fields...)
}

func (l *ColoredLogger) ComponentDebug(component Component, msg string, fields ...zap.Field) {
	l.Debug(l.tag(component, msg), fields...)
}
