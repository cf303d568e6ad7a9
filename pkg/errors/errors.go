// Copyright (C) 2026 Ioannis Torakis <john.torakis@gmail.com>
// SPDX-License-Identifier: Elastic-2.0
//
// Licensed under the Elastic License 2.0.
// You may obtain a copy of the license at:
// https://www.elastic.co/licensing/elastic-license
//
// Use, modification, and redistribution permitted under the terms of the license,
// except for providing this software as a commercial service or product.

package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases - these can be checked with errors.Is()
var (
	ErrNoInput           = errors.New("no ACI text or policy file provided")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrProfileNotFound   = errors.New("profile not found")
	ErrInvalidDocument   = errors.New("invalid policy document")
	ErrInvalidPolicy     = errors.New("invalid policy")
)

// FileError provides structured error information for policy file operations
type FileError struct {
	Operation string // The operation that failed (e.g., "decode", "write")
	Path      string // The file involved in the operation
	Err       error  // The underlying error
}

// Error implements the error interface
func (e *FileError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error for error wrapping/unwrapping
func (e *FileError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches a target error (for sentinel error checking)
func (e *FileError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewFileError creates a new FileError with context
func NewFileError(operation, path string, err error) *FileError {
	return &FileError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewFileErrorf creates a new FileError with formatted error message
func NewFileErrorf(operation, path, format string, args ...interface{}) *FileError {
	return &FileError{
		Operation: operation,
		Path:      path,
		Err:       fmt.Errorf(format, args...),
	}
}

// WrapFileError wraps an error with file operation context
func WrapFileError(operation, path string, err error) error {
	if err == nil {
		return nil
	}

	// If it's already a FileError, don't double-wrap
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return err
	}

	return NewFileError(operation, path, err)
}
