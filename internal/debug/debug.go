// Package debug provides conditional debug logging for searchapp.
//
// Debug logging is enabled by setting SEARCHAPP_DEBUG:
//
//	SEARCHAPP_DEBUG=1 searchapp
//
// Messages go to stderr unless redirected with SetOutput (the TUI sends them
// to a file so the alt screen stays intact). When disabled every function is
// a no-op.
package debug

import (
	"io"
	"log"
	"os"
	"time"
)

const envVar = "SEARCHAPP_DEBUG"

var (
	enabled bool
	logger  *log.Logger
)

func init() {
	if os.Getenv(envVar) != "" {
		SetEnabled(true)
	}
}

func Enabled() bool {
	return enabled
}

// SetEnabled toggles logging, creating a stderr logger on first enable.
func SetEnabled(e bool) {
	enabled = e
	if e && logger == nil {
		logger = log.New(os.Stderr, "[searchapp] ", log.Ltime|log.Lmicroseconds)
	}
}

// SetOutput redirects debug output.
func SetOutput(w io.Writer) {
	if logger == nil {
		logger = log.New(w, "[searchapp] ", log.Ltime|log.Lmicroseconds)
		return
	}
	logger.SetOutput(w)
}

// Log writes a printf-style message if enabled.
func Log(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Printf(format, args...)
}

func LogTiming(name string, d time.Duration) {
	if !enabled {
		return
	}
	logger.Printf("%s took %v", name, d)
}
