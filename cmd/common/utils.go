package common

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// LogLevel represents different logging levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// Logger provides console logging for CLI applications
type Logger struct {
	Level      LogLevel
	ShowEmojis bool
	SilentMode bool
	Out        io.Writer
}

// NewLogger creates a new logger writing to stdout
func NewLogger() *Logger {
	return &Logger{
		Level:      LogLevelInfo,
		ShowEmojis: true,
		SilentMode: false,
		Out:        os.Stdout,
	}
}

// SetSilentMode enables or disables silent mode
func (l *Logger) SetSilentMode(silent bool) {
	l.SilentMode = silent
}

func (l *Logger) prefix(emoji, plain string) string {
	if l.ShowEmojis {
		return emoji
	}
	return plain
}

// Header prints a formatted header
func (l *Logger) Header(title string) {
	if l.SilentMode {
		return
	}

	fmt.Fprintf(l.Out, "\n%s %s\n", l.prefix("🧬", "***"), strings.ToUpper(title))
	fmt.Fprintf(l.Out, "%s\n", strings.Repeat("=", len(title)+5))
}

// Info prints an info message
func (l *Logger) Info(format string, args ...interface{}) {
	if l.SilentMode || l.Level < LogLevelInfo {
		return
	}
	fmt.Fprintf(l.Out, "%s  %s\n", l.prefix("ℹ️", "[INFO]"), fmt.Sprintf(format, args...))
}

// Error prints an error message
func (l *Logger) Error(format string, args ...interface{}) {
	fmt.Fprintf(l.Out, "%s %s\n", l.prefix("❌", "[ERROR]"), fmt.Sprintf(format, args...))
}

// Success prints a success message
func (l *Logger) Success(format string, args ...interface{}) {
	if l.SilentMode {
		return
	}
	fmt.Fprintf(l.Out, "%s %s\n", l.prefix("✅", "[SUCCESS]"), fmt.Sprintf(format, args...))
}

// Warn prints a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.Level < LogLevelWarn {
		return
	}
	fmt.Fprintf(l.Out, "%s  %s\n", l.prefix("⚠️", "[WARN]"), fmt.Sprintf(format, args...))
}

// Debug prints a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.Level < LogLevelDebug {
		return
	}
	fmt.Fprintf(l.Out, "%s %s\n", l.prefix("🔍", "[DEBUG]"), fmt.Sprintf(format, args...))
}

// Progress prints a progress message
func (l *Logger) Progress(format string, args ...interface{}) {
	if l.SilentMode {
		return
	}
	fmt.Fprintf(l.Out, "%s %s\n", l.prefix("🔄", "[PROGRESS]"), fmt.Sprintf(format, args...))
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}

// Global instance for convenience
var DefaultLogger = NewLogger()

// Error prints an error message through the global instance
func Error(format string, args ...interface{}) { DefaultLogger.Error(format, args...) }
