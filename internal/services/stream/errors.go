package stream

import (
	"errors"
	"fmt"
)

// ErrorKind classifies scan failures for callers.
type ErrorKind string

const (
	ErrorKindValidation  ErrorKind = "validation"
	ErrorKindOutputWrite ErrorKind = "output_write"
	ErrorKindFileRead    ErrorKind = "file_read"
	ErrorKindInternal    ErrorKind = "internal"
)

const (
	// MessageSelectDirectory is reported when no root was given.
	MessageSelectDirectory = "Please select a directory first."
	// MessageDirectoryMissing is reported when the root is absent or not a directory.
	MessageDirectoryMissing = "The selected directory does not exist."
	// MessageNoFiles is logged when nothing under the root qualifies.
	MessageNoFiles = "No code files found in the selected directory."

	fileReadErrorFormat    = "Error reading file %s: %v"
	outputWriteErrorFormat = "Failed to write %s: %v"
)

// ValidationError reports an unusable root path. Nothing is written.
type ValidationError struct {
	Path    string
	Message string
	// Err is the underlying failure, if any.
	Err error
}

func (err *ValidationError) Error() string {
	return err.Message
}

func (err *ValidationError) Unwrap() error {
	return err.Err
}

// OutputWriteError reports that the finished document could not be stored.
type OutputWriteError struct {
	Path string
	Err  error
}

func (err *OutputWriteError) Error() string {
	return fmt.Sprintf(outputWriteErrorFormat, err.Path, err.Err)
}

func (err *OutputWriteError) Unwrap() error {
	return err.Err
}

// FileReadError reports a single unreadable file. The scan logs it and moves on.
type FileReadError struct {
	Path string
	Err  error
}

func (err *FileReadError) Error() string {
	return fmt.Sprintf(fileReadErrorFormat, err.Path, err.Err)
}

func (err *FileReadError) Unwrap() error {
	return err.Err
}

// KindOf reports the kind of err, or the empty kind for nil.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var validationError *ValidationError
	if errors.As(err, &validationError) {
		return ErrorKindValidation
	}
	var outputWriteError *OutputWriteError
	if errors.As(err, &outputWriteError) {
		return ErrorKindOutputWrite
	}
	var fileReadError *FileReadError
	if errors.As(err, &fileReadError) {
		return ErrorKindFileRead
	}
	return ErrorKindInternal
}
