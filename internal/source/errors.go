package source

import "errors"

var (
	// ErrNoInput is returned when there is no file, piped stdin, or
	// clipboard text to read.
	ErrNoInput = errors.New("no input provided")

	// ErrEmptyText is returned when the input holds nothing but whitespace.
	ErrEmptyText = errors.New("no text to read")
)
