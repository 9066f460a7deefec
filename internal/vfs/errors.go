// Package vfs provides the in-memory virtual filesystem behind a shell session.
//
// This file contains error types and error handling utilities.
package vfs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a snapshot source or path component doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrNotADirectory indicates an operation needed a directory but got a file
	ErrNotADirectory = errors.New("not a directory")

	// ErrFormat indicates a snapshot that can't be parsed or decoded
	ErrFormat = errors.New("invalid snapshot format")

	// ErrLoad indicates any other failure while reading a snapshot source
	ErrLoad = errors.New("snapshot load failed")
)

// Error wraps a VFS error with the operation and the path it applied to.
type Error struct {
	Op   string // Operation that failed (e.g., "ls", "cd")
	Path string // Affected path or snapshot source
	Err  error  // Underlying error
}

// Error implements the error interface, providing a formatted error message
func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap implements error unwrapping for the errors.Is/As functions
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op, path string, err error) *Error {
	return &Error{Op: op, Path: path, Err: err}
}

// Operation names used in errors.
const (
	OpLoad   = "load"   // Loading a snapshot
	OpDecode = "decode" // Decoding a snapshot document
	OpList   = "ls"     // Listing a directory
	OpChdir  = "cd"     // Changing the current directory
	OpLookup = "lookup" // Resolving a path to a node
)
