package errs

import (
	"errors"
	"fmt"
)

// DomainError reports an input outside the mathematical domain of an
// operation: negative tenors, strikes or times beyond a surface's fitted
// range without extrapolation permission, end dates not after start dates.
type DomainError struct {
	Msg string
}

func (e *DomainError) Error() string { return e.Msg }

// ConfigError reports an inconsistent setup: inverted strike bounds,
// missing or mismatched pricing-engine bindings.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

// Domainf builds a DomainError from a format string.
func Domainf(format string, args ...any) error {
	return &DomainError{Msg: fmt.Sprintf(format, args...)}
}

// Configf builds a ConfigError from a format string.
func Configf(format string, args ...any) error {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// IsDomain reports whether err wraps a DomainError.
func IsDomain(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// IsConfig reports whether err wraps a ConfigError.
func IsConfig(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
