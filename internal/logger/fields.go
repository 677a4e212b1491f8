package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldInterviewID = "interview_id"
	FieldCallID      = "call_id"
	FieldJobID       = "job_position_id"
	FieldEvent       = "event"
)

// WithFields attaches fields to the logger, defaulting to a no-op logger
// when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// NonEmpty builds string fields from key/value pairs, skipping blank values.
// An odd trailing key is ignored.
func NonEmpty(kv ...string) []zap.Field {
	fields := make([]zap.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key := strings.TrimSpace(kv[i])
		value := strings.TrimSpace(kv[i+1])
		if key == "" || value == "" {
			continue
		}
		fields = append(fields, zap.String(key, value))
	}
	return fields
}

// Webhook returns the fields every voice event log line carries.
func Webhook(eventType, callID string) []zap.Field {
	return NonEmpty(FieldEvent, eventType, FieldCallID, callID)
}
