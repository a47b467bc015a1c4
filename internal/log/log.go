// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
)

const (
	// LevelEnv selects the log level.
	LevelEnv = "REPOSEARCH_LOG"
	// FileEnv names a file to append log lines to instead of stderr.
	FileEnv = "REPOSEARCH_LOG_FILE"
)

var (
	mu   sync.Mutex
	file *os.File
)

// InitLogger sets up Apex with a custom handler and a log level from the
// REPOSEARCH_LOG env variable. Lines go to stderr, or to REPOSEARCH_LOG_FILE
// when set.
func InitLogger() error {
	level := strings.ToUpper(os.Getenv(LevelEnv))
	if level == "" {
		level = "ERROR"
	}

	var w io.Writer = os.Stderr
	if path := os.Getenv(FileEnv); path != "" {
		f, err := openFile(path)
		if err != nil {
			return err
		}
		w = f
	}

	log.SetHandler(&CustomHandler{Writer: w})
	if err := setLevel(level); err != nil {
		return err
	}
	return nil
}

// Silence discards every log line unless REPOSEARCH_LOG_FILE is set. It is
// used while a full-screen UI owns the terminal.
func Silence() {
	if os.Getenv(FileEnv) != "" {
		return
	}
	log.SetHandler(discard.New())
}

// Close releases the log file, if one was opened.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

func openFile(path string) (*os.File, error) {
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		_ = file.Close()
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	file = f
	return f, nil
}

func setLevel(level string) error {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid %s value %q: %w", LevelEnv, level, err)
	}
	log.SetLevel(lvl)
	return nil
}

// CustomHandler formats log messages as "timestamp level-initial message"
// and writes them to Writer, or stderr when Writer is nil.
type CustomHandler struct {
	Writer io.Writer
	mu     sync.Mutex
}

// HandleLog implements the log.Handler interface
func (h *CustomHandler) HandleLog(e *log.Entry) error {
	timestamp := e.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	level := strings.ToUpper(e.Level.String())

	message := e.Message
	if len(e.Fields) > 0 {
		names := e.Fields.Names()
		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s=%v", name, e.Fields.Get(name)))
		}
		message += " " + strings.Join(parts, " ")
	}

	w := h.Writer
	if w == nil {
		w = os.Stderr
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintf(w, "%s %.1s %s\n", timestamp.Format("2006-01-02 15:04:05"), level, message)
	return err
}
