package decoder

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFormat         = errors.New("unsupported format")
	ErrInvalidJSON               = errors.New("invalid JSON")
	ErrInvalidCSV                = errors.New("invalid CSV")
	ErrCorruptDocument           = errors.New("corrupt document")
	ErrEncryptedOrImageOnly      = errors.New("no extractable text layer (encrypted or image-only)")
	ErrEmptyContent              = errors.New("empty content")
	ErrMissingOptionalDependency = errors.New("decoder is not available")
)

// Error is returned by Registry.Decode. Kind is one of the Err* sentinels
// so callers can match with errors.Is.
type Error struct {
	Kind     error
	Filename string
	Err      error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("decode %s: %v", e.Filename, e.Kind)
	}

	return fmt.Sprintf("decode %s: %v: %v", e.Filename, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}

func kindError(kind error, err error) *Error {
	return &Error{Kind: kind, Err: err}
}
