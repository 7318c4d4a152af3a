package domain

import "errors"

var (
	// ErrCapacityExceeded is returned when the network or a server is full
	ErrCapacityExceeded = errors.New("capacity exceeded")
	// ErrInvalidArgument is returned for empty or malformed input
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound is returned when a server lookup misses
	ErrNotFound = errors.New("server not found")
	// ErrNotLinked is returned when the target is not a direct neighbor
	ErrNotLinked = errors.New("server not linked")
	// ErrFile is returned for read, write, rename or parse failures
	ErrFile = errors.New("file error")
)

// Code is the result code exposed to the command and scripting layers
type Code string

const (
	CodeOK              Code = "OK"
	CodeNotFound        Code = "NOT_FOUND"
	CodeNotLinked       Code = "NOT_LINKED"
	CodeFileError       Code = "FILE_ERROR"
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeUnknown         Code = "UNKNOWN"
)

// CodeOf classifies an error
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrNotLinked):
		return CodeNotLinked
	case errors.Is(err, ErrFile):
		return CodeFileError
	case errors.Is(err, ErrInvalidArgument):
		return CodeInvalidArgument
	default:
		return CodeUnknown
	}
}
