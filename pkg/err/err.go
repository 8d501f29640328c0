package errprocess

import (
	"errors"
	"fmt"
	"strings"

	"video_ingest_service/pkg/logger"

	"go.uber.org/zap"
)

// Error kinds used to classify pipeline failures. Wrap tags an error with one of them
// so callers can branch with errors.Is.
var (
	ErrClientInput         = errors.New("client input error")
	ErrDependencyRejection = errors.New("dependency rejection")
	ErrDependencyException = errors.New("dependency exception")
	ErrMirrorDegraded      = errors.New("mirror store degraded")
)

// Set set err info
func Set(errMsg string) error {
	logger.Log.Error(errMsg)
	return errors.New(errMsg)
}

// Wrap log and tag err with the given kind marker and stage context
func Wrap(kind error, stage, message string, err error, fields ...zap.Field) error {
	if kind == nil {
		kind = ErrDependencyException
	}

	detail := buildDetail(stage, message)
	var wrapped error
	if err != nil {
		wrapped = fmt.Errorf("%w: %s: %w", kind, detail, err)
	} else {
		wrapped = fmt.Errorf("%w: %s", kind, detail)
	}

	logger.Log.Error(wrapped.Error(), append(fields, zap.String("stage", stage))...)
	return wrapped
}

// Kind return the classification marker carried by err, defaulting to ErrDependencyException
func Kind(err error) error {
	for _, kind := range []error{ErrClientInput, ErrDependencyRejection, ErrMirrorDegraded, ErrDependencyException} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrDependencyException
}

func buildDetail(stage, message string) string {
	parts := make([]string, 0, 2)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "ingest failure"
	}
	return strings.Join(parts, ": ")
}
