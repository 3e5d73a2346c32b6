// Package debug provides the process-wide debug logger.
//
// Debug output is disabled by default and goes to stderr, so it never mixes
// with command output on stdout.
package debug

import (
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

var (
	mu      sync.RWMutex
	enabled bool
	noColor bool
	out     io.Writer = os.Stderr
	logger            = newLogger(os.Stderr, false, false)
)

func newLogger(w io.Writer, enable, plain bool) *log.Logger {
	level := log.InfoLevel
	if enable {
		level = log.DebugLevel
	}
	l := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
	})
	if plain {
		l.SetColorProfile(termenv.Ascii)
	}
	return l
}

func rebuild() {
	logger = newLogger(out, enabled, noColor)
}

// SetDebug enables or disables debug mode
func SetDebug(enable bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = enable
	rebuild()
}

// IsEnabled returns whether debug mode is enabled
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetNoColor enables or disables colored output
func SetNoColor(disable bool) {
	mu.Lock()
	defer mu.Unlock()
	noColor = disable
	rebuild()
}

// SetOutput redirects debug output. Passing nil restores stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	out = w
	rebuild()
}

func current() (*log.Logger, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return logger, enabled
}

// Debug prints a printf-style debug message.
func Debug(format string, args ...interface{}) {
	l, on := current()
	if !on {
		return
	}
	l.Debugf(format, args...)
}

// DebugSection prints a section header for debug output
func DebugSection(section string) {
	l, on := current()
	if !on {
		return
	}
	l.Debug("=== " + section + " ===")
}

// DebugValue prints a single key/value pair.
func DebugValue(key string, value interface{}) {
	l, on := current()
	if !on {
		return
	}
	l.Debug(key, "value", value)
}

// DebugJSON prints structured data as indented JSON.
func DebugJSON(key string, v interface{}) {
	l, on := current()
	if !on {
		return
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		l.Debug("failed to marshal debug value", "key", key, "err", err)
		return
	}
	l.Debug(key + ":\n" + string(data))
}
