package apperr

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log records err with a fresh error id and returns the id so callers can
// correlate a generic user message with the log entry. Canceled errors are
// logged at debug level.
func Log(logger *zap.Logger, err error, fields ...zap.Field) string {
	if err == nil {
		return ""
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	id := uuid.NewString()
	kind := Classify(err)
	entry := append([]zap.Field{
		zap.String("error_id", id),
		zap.String("kind", string(kind)),
		zap.Error(err),
	}, fields...)

	if ce := logger.Check(levelFor(kind), "operation failed"); ce != nil {
		ce.Write(entry...)
	}
	return id
}

func levelFor(kind Kind) zapcore.Level {
	switch kind {
	case KindCanceled:
		return zapcore.DebugLevel
	case KindValidation, KindNotFound, KindConflict:
		return zapcore.InfoLevel
	case KindTimeout, KindNetwork:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}
