// Package skimerr defines the closed error taxonomy shared by every Skim
// component. All errors that cross a component boundary are a *skimerr.Error
// so the driver can map them to exit codes and side-channel messages without
// string matching.
package skimerr

import (
	"errors"
	"fmt"
)

// Kind is one of the closed set of error categories from the spec.
type Kind string

const (
	UnsupportedLanguage Kind = "unsupported-language"
	InputTooLarge       Kind = "input-too-large"
	UTF8Boundary        Kind = "utf8-boundary"
	MaxDepthExceeded    Kind = "max-depth-exceeded"
	TooManyNodes        Kind = "too-many-nodes"
	TooManyDeclarations Kind = "too-many-declarations"
	ParseError          Kind = "parse-error"
	PathTraversal       Kind = "path-traversal"
	IOError             Kind = "io-error"
	CacheCorrupt        Kind = "cache-corrupt"
)

// Error is the concrete error type returned by every Skim package.
type Error struct {
	Kind    Kind
	Path    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("skim: %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("skim: %s", e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is allows errors.Is(err, &skimerr.Error{Kind: skimerr.UnsupportedLanguage})
// style matching by comparing Kind, since Kind itself is not an error value.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// New builds an Error with the given kind and message, no path.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf builds an Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithPath returns a copy of the error with Path set, for reporting the
// offending file in the side channel.
func (e *Error) WithPath(path string) *Error {
	cp := *e
	cp.Path = path
	return &cp
}

// Wrap builds an Error that carries an underlying cause (e.g. an os error).
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the Kind from err if it is (or wraps) a *Error.
// Used by the driver to pick an exit code.
func KindOf(err error) (Kind, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return "", false
}
