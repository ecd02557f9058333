package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound marks store lookups that matched nothing.
	ErrNotFound = errors.New("not found")
	// ErrNoMatch marks identification that yielded no song.
	ErrNoMatch = errors.New("no match")
	// ErrNoResults marks a search that yielded an empty result set.
	ErrNoResults = errors.New("no results")
	// ErrCancelled marks an explicit user abort.
	ErrCancelled = errors.New("cancelled")
	// ErrExternalService marks network or service failures. Callers downgrade
	// these to no-match/no-results rather than propagating them.
	ErrExternalService = errors.New("external service error")
	// ErrCapture marks a recording failure after all input backends failed.
	ErrCapture = errors.New("capture failure")
	// ErrFilesystem marks a missing or unusable artifact path.
	ErrFilesystem = errors.New("filesystem error")
	// ErrConfiguration marks unusable configuration.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap tags err with marker and prefixes component/operation/message context.
// The marker should be one of the exported sentinels above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalService
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Aborted reports whether err represents a normal, user-visible abort of a
// single acquisition (no results or explicit cancel) rather than a failure.
func Aborted(err error) bool {
	return errors.Is(err, ErrNoResults) || errors.Is(err, ErrCancelled)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
