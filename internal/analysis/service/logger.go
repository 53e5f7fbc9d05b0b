package service

import (
	"context"
	"log"
)

// Logger provides structured logging for analysis runs
type Logger struct {
	analysisID string
}

// NewLogger creates a logger with analysis context
func NewLogger(ctx context.Context) *Logger {
	// Try to get analysis ID from context (set by the orchestrator)
	analysisID := "unknown"
	if id, ok := ctx.Value("analysis_id").(string); ok && id != "" {
		analysisID = id
	}
	return &Logger{analysisID: analysisID}
}

// LogError logs an error with context
func (l *Logger) LogError(operation string, err error) {
	log.Printf("[error] analysis_id=%s operation=%s error=%v", l.analysisID, operation, err)
}

// LogErrorf logs a formatted error with context
func (l *Logger) LogErrorf(operation string, format string, args ...interface{}) {
	log.Printf("[error] analysis_id=%s operation=%s "+format, append([]interface{}{l.analysisID, operation}, args...)...)
}

// LogInfo logs an info message with context
func (l *Logger) LogInfo(operation string, message string) {
	log.Printf("[info] analysis_id=%s operation=%s message=%s", l.analysisID, operation, message)
}

// LogInfof logs a formatted info message with context
func (l *Logger) LogInfof(operation string, format string, args ...interface{}) {
	log.Printf("[info] analysis_id=%s operation=%s "+format, append([]interface{}{l.analysisID, operation}, args...)...)
}

// LogWarn logs a warning with context
func (l *Logger) LogWarn(operation string, message string) {
	log.Printf("[warn] analysis_id=%s operation=%s message=%s", l.analysisID, operation, message)
}

// LogWarnf logs a formatted warning with context
func (l *Logger) LogWarnf(operation string, format string, args ...interface{}) {
	log.Printf("[warn] analysis_id=%s operation=%s "+format, append([]interface{}{l.analysisID, operation}, args...)...)
}
