// Package logger implements the exporter's leveled logging.
package logger

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync"
	"time"
)

// Level is a log severity threshold.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	mu           sync.Mutex
	currentLevel = LevelInfo
	out          = stdlog.New(os.Stdout, "", 0)
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a level name (any case) to a Level.
func ParseLevel(name string) (Level, error) {
	switch strings.ToUpper(name) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// SetLevel sets the minimum level that produces output. Unknown names keep
// the current level.
func SetLevel(name string) {
	level, err := ParseLevel(name)
	if err != nil {
		return
	}
	mu.Lock()
	currentLevel = level
	mu.Unlock()
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	out = stdlog.New(w, "", 0)
	mu.Unlock()
}

func logf(level Level, format string, v ...any) {
	mu.Lock()
	threshold, dst := currentLevel, out
	mu.Unlock()

	if level < threshold {
		return
	}
	dst.Printf("[%s] [%s] %s",
		time.Now().Format("2006-01-02 15:04:05"), level, fmt.Sprintf(format, v...))
}

func Debug(format string, v ...any) { logf(LevelDebug, format, v...) }
func Info(format string, v ...any)  { logf(LevelInfo, format, v...) }
func Warn(format string, v ...any)  { logf(LevelWarn, format, v...) }
func Error(format string, v ...any) { logf(LevelError, format, v...) }
