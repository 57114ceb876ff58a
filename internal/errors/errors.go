// Package errors provides sentinel errors and custom error types for the wrapper.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	// ErrNonLinearStack indicates that the stack listing contains branching
	ErrNonLinearStack = errors.New("non-linear stack")

	// ErrMissingTrunk indicates that the stack listing does not start at trunk
	ErrMissingTrunk = errors.New("trunk not found in stack")

	// ErrEmptyStack indicates that no branches exist outside of trunk
	ErrEmptyStack = errors.New("no stack found outside of trunk")

	// ErrStackNotReady indicates branches below the current branch have no PRs
	ErrStackNotReady = errors.New("stack not ready for submission")

	// ErrTrunkOperation indicates an invalid operation on the trunk branch
	ErrTrunkOperation = errors.New("invalid operation on trunk branch")

	// ErrStaleRemoteInfo indicates a force-with-lease push was rejected
	ErrStaleRemoteInfo = errors.New("stale info")

	// ErrNotInteractive indicates a prompt was required in a non-interactive context
	ErrNotInteractive = errors.New("interactive prompt required but not available")
)

// StackNotReadyError reports the branches below the current branch that are
// missing pull requests.
type StackNotReadyError struct {
	Missing []string
}

func (e *StackNotReadyError) Error() string {
	return fmt.Sprintf("cannot submit because the following branches don't have PRs yet: %s",
		strings.Join(e.Missing, ", "))
}

// Is returns true if the target error is ErrStackNotReady
func (e *StackNotReadyError) Is(target error) bool {
	return target == ErrStackNotReady
}

// NewStackNotReadyError creates a new StackNotReadyError
func NewStackNotReadyError(missing []string) *StackNotReadyError {
	return &StackNotReadyError{Missing: missing}
}

// HostQueryError represents a failed query against the code host
type HostQueryError struct {
	Operation string
	Err       error
}

func (e *HostQueryError) Error() string {
	return fmt.Sprintf("github query failed: %s: %v", e.Operation, e.Err)
}

func (e *HostQueryError) Unwrap() error {
	return e.Err
}

// NewHostQueryError creates a new HostQueryError
func NewHostQueryError(operation string, err error) *HostQueryError {
	return &HostQueryError{Operation: operation, Err: err}
}

// CommandError represents an error from an external command execution
type CommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError
func NewCommandError(command string, args []string, stdout, stderr string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
