package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ducminhle1904/incubator/pkg/incubator"
)

// Logger represents a file logger for an incubator run
type Logger struct {
	run     string
	logFile *os.File
	logger  *log.Logger
	mu      sync.Mutex
	logDir  string
	logPath string
}

// LogLevel represents different types of log entries
type LogLevel string

const (
	LogLevelInfo       LogLevel = "INFO"
	LogLevelWarning    LogLevel = "WARN"
	LogLevelError      LogLevel = "ERROR"
	LogLevelGeneration LogLevel = "GENERATION"
	LogLevelStatus     LogLevel = "STATUS"
)

// NewLogger creates a new file logger for the named run under logDir.
// When mirror is non-nil every entry is also written there.
func NewLogger(logDir, run string, mirror io.Writer) (*Logger, error) {
	if logDir == "" {
		logDir = "logs"
	}
	// Create log directory if it doesn't exist
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Create log filename with timestamp
	timestamp := time.Now().Format("2006-01-02")
	filename := fmt.Sprintf("%s_%s.log", run, timestamp)
	logPath := filepath.Join(logDir, filename)

	// Open or create log file
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	var out io.Writer = file
	if mirror != nil {
		out = io.MultiWriter(file, mirror)
	}

	l := &Logger{
		run:     run,
		logFile: file,
		logger:  log.New(out, "", 0),
		logDir:  logDir,
		logPath: logPath,
	}

	// Write session start header
	l.writeSessionHeader()

	return l, nil
}

// writeSessionHeader writes a session start header to the log
func (l *Logger) writeSessionHeader() {
	l.mu.Lock()
	defer l.mu.Unlock()

	header := fmt.Sprintf(`
================================================================================
INCUBATOR SESSION STARTED
================================================================================
Run: %s
Started: %s
Log File: %s
================================================================================
`, l.run, time.Now().Format("2006-01-02 15:04:05"), filepath.Base(l.logPath))

	l.logger.Print(header)
}

// Log writes a formatted log entry with the specified level
func (l *Logger) Log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	l.logger.Printf("[%s] [%s] %s", timestamp, level, message)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.Log(LogLevelInfo, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.Log(LogLevelWarning, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.Log(LogLevelError, format, args...)
}

// Generation logs a generation event
func (l *Logger) Generation(format string, args ...interface{}) {
	l.Log(LogLevelGeneration, format, args...)
}

// Status logs run status information
func (l *Logger) Status(format string, args ...interface{}) {
	l.Log(LogLevelStatus, format, args...)
}

// LogGenerationReport logs one committed generation of a trial
func (l *Logger) LogGenerationReport(trial string, report incubator.GenerationReport, bestScore float64, best string) {
	l.Generation("%s gen=%d survivors=%d pool=%d pairings=%d mutations=%d size=%d len=[%d..%d] mean=%.2f best=%.1f %q",
		trial, report.Generation, report.Survivors, report.PoolSize, report.Pairings, report.Mutations,
		report.PopulationSize, report.MinLength, report.MaxLength, report.MeanLength, bestScore, best)
}

// LogTrialCompletion logs the outcome of a trial
func (l *Logger) LogTrialCompletion(trial string, generations int, solved bool, bestScore float64, best string, elapsed time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	outcome := "generation limit reached"
	if solved {
		outcome = "target reached"
	}

	trialLog := fmt.Sprintf(`
[%s] [STATUS] ==================== %s COMPLETED ====================
Outcome: %s
Generations: %d
Best Score: %.1f
Best Specimen: %q
Elapsed: %s
==============================================================`,
		timestamp, trial, outcome, generations, bestScore, best, elapsed.Round(time.Millisecond))

	l.logger.Println(trialLog)
}

// LogError logs error with context
func (l *Logger) LogError(context string, err error) {
	l.Error("%s: %v", context, err)
}

// Close closes the log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile != nil {
		// Write session end header
		timestamp := time.Now().Format("2006-01-02 15:04:05")
		footer := fmt.Sprintf(`
================================================================================
INCUBATOR SESSION ENDED
================================================================================
Ended: %s
================================================================================

`, timestamp)
		l.logger.Print(footer)

		err := l.logFile.Close()
		l.logFile = nil
		return err
	}
	return nil
}

// GetLogPath returns the current log file path
func (l *Logger) GetLogPath() string {
	return l.logPath
}
