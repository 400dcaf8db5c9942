// Package logging holds the slog conventions shared by the use cases.
package logging

import (
	"errors"
	"log/slog"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

// Default returns logger, or slog.Default when it is nil.
func Default(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

// Service scopes base to one service operation.
func Service(base *slog.Logger, service, operation string, attrs ...any) *slog.Logger {
	pairs := []any{"service", service}
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	pairs = append(pairs, attrs...)
	return Default(base).With(pairs...)
}

// ErrorKind maps an error to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}

	var be httperr.BusinessError
	if errors.As(err, &be) {
		switch be.Kind {
		case httperr.KindValidation:
			return "validation"
		case httperr.KindNotFound:
			return "not_found"
		case httperr.KindConflict:
			return "conflict"
		default:
			return "business"
		}
	}

	if httperr.IsStore(err) {
		return "store"
	}
	return "unexpected"
}
