// Package common provides shared constants, types, and utilities
// used across the WireGuard Manager application.
package common

import (
	"context"
	"strings"
	"time"
)

// Command describes one external process invocation.
type Command struct {
	// Name is the executable, looked up in PATH.
	Name string
	// Args are passed to the executable as-is.
	Args []string
	// Stdin is written to the process standard input when non-empty.
	Stdin string
}

// String returns the command line as it would be typed in a shell.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result is what a finished (or killed) process reported.
type Result struct {
	// Code is the exit code. A process killed on timeout reports -1.
	Code     int
	Stdout   string
	Stderr   string
	TimedOut bool
}

// Success reports whether the process exited with code zero.
func (r Result) Success() bool {
	return r.Code == 0 && !r.TimedOut
}

// Combined returns stdout and stderr joined for diagnostics.
func (r Result) Combined() string {
	out := strings.TrimSpace(r.Stdout)
	errOut := strings.TrimSpace(r.Stderr)
	switch {
	case out == "":
		return errOut
	case errOut == "":
		return out
	default:
		return out + "\n" + errOut
	}
}

// Runner executes external commands under a wall-clock bound.
// Implementations must kill and reap a process that outlives timeout and
// still return whatever it reported. The error return is reserved for
// processes that could not be started at all.
type Runner interface {
	Run(ctx context.Context, cmd Command, timeout time.Duration) (Result, error)
}
