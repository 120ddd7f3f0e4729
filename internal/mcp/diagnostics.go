package mcp

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DiagnosticLogger handles all diagnostic output for the MCP server.
// CRITICAL: in MCP mode all output must go to a file, never to
// stdout/stderr. The protocol requires clean stdio for communication
// with the client.
type DiagnosticLogger struct {
	mu       sync.Mutex
	file     *os.File
	logger   *log.Logger
	filePath string
	isMCP    bool
}

// NewDiagnosticLogger creates a logger that writes to a file in MCP mode
// and to stderr otherwise.
func NewDiagnosticLogger(isMCP bool) *DiagnosticLogger {
	dl := &DiagnosticLogger{
		isMCP: isMCP,
	}

	if isMCP {
		logDir := filepath.Join(os.TempDir(), "scopefs-mcp-logs")
		if err := os.MkdirAll(logDir, 0755); err != nil {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				homeDir = "."
			}
			logDir = filepath.Join(homeDir, ".scopefs-mcp-logs")
			if err := os.MkdirAll(logDir, 0755); err != nil {
				// Logging is not critical; run without it.
				dl.logger = log.New(io.Discard, "", 0)
				return dl
			}
		}

		timestamp := time.Now().Format("2006-01-02T150405")
		logPath := filepath.Join(logDir, fmt.Sprintf("mcp-%s.log", timestamp))

		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			// If file creation fails, disable logging rather than
			// breaking the protocol stream.
			dl.logger = log.New(io.Discard, "", 0)
			return dl
		}

		dl.file = file
		dl.filePath = logPath
		dl.logger = log.New(file, "[MCP] ", log.LstdFlags|log.Lshortfile)
	} else {
		dl.logger = log.New(os.Stderr, "[MCP] ", log.LstdFlags)
	}

	return dl
}

// Printf logs a diagnostic message.
func (dl *DiagnosticLogger) Printf(format string, v ...interface{}) {
	if dl == nil || dl.logger == nil {
		return
	}
	dl.mu.Lock()
	defer dl.mu.Unlock()
	dl.logger.Printf(format, v...)
}

// Errorf logs an error. In MCP mode, goes to file. Never to stderr.
func (dl *DiagnosticLogger) Errorf(format string, v ...interface{}) {
	if dl == nil || dl.logger == nil {
		return
	}
	dl.mu.Lock()
	defer dl.mu.Unlock()
	dl.logger.Printf("ERROR: "+format, v...)
}

// Close closes the log file if it's open.
func (dl *DiagnosticLogger) Close() error {
	if dl == nil {
		return nil
	}
	dl.mu.Lock()
	defer dl.mu.Unlock()
	if dl.file != nil {
		return dl.file.Close()
	}
	return nil
}

// GetLogPath returns the path to the diagnostic log file (if MCP mode)
func (dl *DiagnosticLogger) GetLogPath() string {
	if dl == nil {
		return ""
	}
	return dl.filePath
}

// NoOpLogger suppresses all logging
var NoOpLogger = &DiagnosticLogger{
	logger: log.New(io.Discard, "", 0),
}
