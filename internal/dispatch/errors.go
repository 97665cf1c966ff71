package dispatch

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCommand means no package is mapped to the command name.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrEntryNotFound means the materialized package declares no entry file.
	ErrEntryNotFound = errors.New("entry file not found")
)

// EntryNotFoundError names the command and directory that had no entry.
type EntryNotFoundError struct {
	Command string
	Root    string
}

func (e *EntryNotFoundError) Error() string {
	return fmt.Sprintf("command %s: no entry file declared under %s", e.Command, e.Root)
}

func (e *EntryNotFoundError) Is(target error) bool { return target == ErrEntryNotFound }

// ExitError carries a child's non-zero exit status up to the process exit.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command %s exited with status %d", e.Command, e.Code)
}

// ExitCode maps an error returned by Dispatch to a process exit status: 0
// for nil, the child's status for an *ExitError, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
