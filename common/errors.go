// Package common provides shared constants, types, and utilities
// used across the WireGuard Manager application.
package common

import (
	"errors"
	"fmt"
)

// Sentinel errors for tunnel operations.
// These can be checked with errors.Is() for proper error handling.
var (
	// Tunnel errors.
	ErrTunnelNotFound = errors.New("tunnel not found")
	ErrDuplicateName  = errors.New("tunnel name already exists")
	ErrTunnelActive   = errors.New("tunnel is active")
	ErrInvalidConfig  = errors.New("invalid configuration file")
	ErrUnknownState   = errors.New("unknown interface state")

	// Routing script errors.
	ErrScriptNotFound = errors.New("routing script not found")

	// Export errors.
	ErrInvalidExportPath = errors.New("invalid export path")

	// Settings errors.
	ErrConfigLoad = errors.New("failed to load configuration")
	ErrConfigSave = errors.New("failed to save configuration")
)

// FormatError reports a problem in a tunnel configuration file.
// Line is 1-based; zero means the error is not tied to a line.
type FormatError struct {
	Line   int
	Text   string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Line == 0 {
		return e.Reason
	}
	return fmt.Sprintf("line %d: %s: `%s`", e.Line, e.Reason, e.Text)
}

// Unwrap lets callers match every format error against ErrInvalidConfig.
func (e *FormatError) Unwrap() error {
	return ErrInvalidConfig
}

// ScriptError reports a routing script that could not be accepted.
type ScriptError struct {
	Script string
	Reason string
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("routing script %q: %s", e.Script, e.Reason)
}

// ReconciliationError reports a tunnel config whose routing fields do not
// match what it claims to use.
type ReconciliationError struct {
	Script string
	Field  string
	Reason string
	Err    error
}

func (e *ReconciliationError) Error() string {
	msg := e.Reason
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, msg)
	}
	if e.Script != "" {
		msg = fmt.Sprintf("routing script %q: %s", e.Script, msg)
	}
	return msg
}

func (e *ReconciliationError) Unwrap() error {
	return e.Err
}

// ActivationError reports a failure to bring a tunnel up or down.
// Output holds whatever the external tool printed.
type ActivationError struct {
	Tunnel string
	Reason string
	Output string
	Err    error
}

func (e *ActivationError) Error() string {
	msg := fmt.Sprintf("tunnel %q: %s", e.Tunnel, e.Reason)
	if e.Output != "" {
		msg += "\n" + e.Output
	}
	return msg
}

func (e *ActivationError) Unwrap() error {
	return e.Err
}

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg: message,
		err: err,
	}
}

type wrappedError struct {
	msg string
	err error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *wrappedError) Unwrap() error {
	return e.err
}
