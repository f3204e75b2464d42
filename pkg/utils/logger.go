package utils

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger writes pipeline events to a rotating log file.
type Logger struct {
	logger        *log.Logger
	jsonMode      bool
	correlationID string
}

var (
	globalLogger *Logger
	once         sync.Once
)

// GetLogger returns the singleton pipeline logger, backed by a rotating
// file handler under .flux/.
func GetLogger() *Logger {
	once.Do(func() {
		logFile := &lumberjack.Logger{
			Filename:   ".flux/pipeline.log",
			MaxSize:    15, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		globalLogger = &Logger{
			logger: log.New(logFile, "", log.LstdFlags),
		}
	})
	if os.Getenv("FLUX_JSON_LOGS") == "1" {
		globalLogger.jsonMode = true
	}
	if cid := os.Getenv("FLUX_CORRELATION_ID"); cid != "" {
		globalLogger.correlationID = cid
	}
	return globalLogger
}

// Close closes the logger resources.
func (w *Logger) Close() error {
	if logFile, ok := w.logger.Writer().(*lumberjack.Logger); ok {
		return logFile.Close()
	}
	return nil
}

// Log writes a single message to the log file.
func (w *Logger) Log(message string) {
	if w.jsonMode {
		w.writeJSON("info", message, nil)
		return
	}
	w.logger.Print(message)
}

// Logf writes a formatted message to the log file.
func (w *Logger) Logf(format string, args ...interface{}) {
	w.Log(fmt.Sprintf(format, args...))
}

// LogError records an error with context. Safe to call with a nil error.
func (w *Logger) LogError(context string, err error) {
	if err == nil {
		return
	}
	if w.jsonMode {
		w.writeJSON("error", context, map[string]string{"error": err.Error()})
		return
	}
	w.logger.Printf("ERROR: %s: %v", context, err)
}

// LogGateDecision records the outcome of a pipeline gate check.
func (w *Logger) LogGateDecision(gate, target string, allowed bool, detail string) {
	verdict := "allowed"
	if !allowed {
		verdict = "blocked"
	}
	if w.jsonMode {
		w.writeJSON("gate", detail, map[string]string{
			"gate":    gate,
			"target":  target,
			"verdict": verdict,
		})
		return
	}
	w.logger.Printf("Gate: %s, Target: %s, Verdict: %s, Detail: %s", gate, target, verdict, detail)
}

func (w *Logger) writeJSON(level, message string, fields map[string]string) {
	entry := map[string]string{
		"ts":      GetTimestamp(),
		"level":   level,
		"message": message,
	}
	if w.correlationID != "" {
		entry["correlation_id"] = w.correlationID
	}
	for k, v := range fields {
		entry[k] = v
	}
	b, err := json.Marshal(entry)
	if err != nil {
		w.logger.Printf("%s: %s", level, message)
		return
	}
	w.logger.Print(string(b))
}
