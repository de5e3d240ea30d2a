// Package logging provides the scenario engine's leveled loggers: a daily
// file under logs/, tee'd to stdout, exposed as three package-level
// *log.Logger instances.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

var (
	InfoLogger    *log.Logger
	WarningLogger *log.Logger
	ErrorLogger   *log.Logger
)

// Setup opens today's log file and wires the three level loggers to it
// plus stdout. Safe to call once at process start.
func Setup() error {
	logDir := "logs"
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	logFileName := filepath.Join(logDir, fmt.Sprintf("%s.log", time.Now().Format("2006-01-02")))
	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, logFile)

	InfoLogger = log.New(multiWriter, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	WarningLogger = log.New(multiWriter, "WARNING: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLogger = log.New(multiWriter, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)

	return nil
}

// Info logs at info level. A no-op before Setup has been called.
func Info(format string, v ...interface{}) {
	if InfoLogger == nil {
		return
	}
	InfoLogger.Printf(format, v...)
}

// Warning logs at warning level.
func Warning(format string, v ...interface{}) {
	if WarningLogger == nil {
		return
	}
	WarningLogger.Printf(format, v...)
}

// Error logs at error level.
func Error(format string, v ...interface{}) {
	if ErrorLogger == nil {
		return
	}
	ErrorLogger.Printf(format, v...)
}
