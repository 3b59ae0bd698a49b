// Package errors holds the error taxonomy shared by the backup engine and
// the CLI, plus helpers that turn an error into the one line a user sees.
package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/daylog/internal/logger"
)

var (
	// ErrFormat means a backup could not be decoded. Nothing was changed.
	ErrFormat = stderrors.New("file is not in the correct format")
	// ErrNewerVersion means a backup was written by a newer release. Nothing was changed.
	ErrNewerVersion = stderrors.New("backup is from a newer release")
	// ErrCommit wraps a store failure while saving a batch of changes.
	ErrCommit = stderrors.New("failed to save changes")
	// ErrIO wraps a failure to read or write a file.
	ErrIO = stderrors.New("failed to access file")
)

// Message returns the user-visible text for err. Format and version errors
// collapse to their fixed wording; everything else keeps its detail.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, ErrFormat):
		return ErrFormat.Error()
	case stderrors.Is(err, ErrNewerVersion):
		return ErrNewerVersion.Error()
	default:
		return err.Error()
	}
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return "Error: " + Message(err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintln(os.Stderr, Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	logger.Error("Command execution failed", "error", fmt.Sprintf(format, args...))
	fmt.Fprintln(os.Stderr, Formatf(format, args...))
	os.Exit(1)
}
