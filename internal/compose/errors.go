package compose

import (
	"errors"
	"fmt"
)

// HostError attributes a host-fatal error to the assignment that caused it.
type HostError struct {
	Host     string
	Selector string
	Model    string
	Err      error
}

func (e *HostError) Error() string {
	return fmt.Sprintf("host %s selector %s (model %s): %v", e.Host, e.Selector, e.Model, e.Err)
}

func (e *HostError) Unwrap() error { return e.Err }

// invalidSelectorError signals a GPU selector token that does not match
// the cuda:INT[-INT] grammar or denotes an empty range.
type invalidSelectorError struct {
	token  string
	reason string
}

func (e invalidSelectorError) Error() string {
	return fmt.Sprintf("invalid selector %q: %s", e.token, e.reason)
}

// ErrInvalidSelector constructs an invalidSelectorError.
func ErrInvalidSelector(token, reason string) error {
	return invalidSelectorError{token: token, reason: reason}
}

// IsInvalidSelector reports whether err (or anything it wraps) is an invalid selector.
func IsInvalidSelector(err error) bool {
	var e invalidSelectorError
	return errors.As(err, &e)
}

// imageNotFoundError is returned when a model has no catalog entry.
type imageNotFoundError struct{ model string }

func (e imageNotFoundError) Error() string { return "no image found for model " + e.model }

func ErrImageNotFound(model string) error { return imageNotFoundError{model: model} }

// IsImageNotFound reports whether err indicates a catalog miss.
func IsImageNotFound(err error) bool {
	var e imageNotFoundError
	return errors.As(err, &e)
}

// nameCollisionError signals two descriptors in one manifest deriving the same service name.
type nameCollisionError struct {
	name     string
	model    string
	existing string
}

func (e nameCollisionError) Error() string {
	if e.model == e.existing {
		return fmt.Sprintf("service name %q assigned twice (model %s)", e.name, e.model)
	}
	return fmt.Sprintf("service name %q for model %s collides with model %s", e.name, e.model, e.existing)
}

func ErrNameCollision(name, model, existing string) error {
	return nameCollisionError{name: name, model: model, existing: existing}
}

// IsNameCollision reports whether err indicates a duplicate derived service name.
func IsNameCollision(err error) bool {
	var e nameCollisionError
	return errors.As(err, &e)
}

// invalidModelError signals a model id that yields no usable service name.
type invalidModelError struct{ model string }

func (e invalidModelError) Error() string { return fmt.Sprintf("invalid model id %q", e.model) }

func ErrInvalidModel(model string) error { return invalidModelError{model: model} }

func IsInvalidModel(err error) bool {
	var e invalidModelError
	return errors.As(err, &e)
}

// portExhaustedError signals the allocator ran past the last TCP port.
type portExhaustedError struct{ base int }

func (e portExhaustedError) Error() string {
	return fmt.Sprintf("host ports exhausted (base %d)", e.base)
}

func ErrPortExhausted(base int) error { return portExhaustedError{base: base} }

func IsPortExhausted(err error) bool {
	var e portExhaustedError
	return errors.As(err, &e)
}

// ioFailureError wraps a read or write failure; it aborts the whole run.
type ioFailureError struct {
	op   string
	path string
	err  error
}

func (e ioFailureError) Error() string { return e.op + " " + e.path + ": " + e.err.Error() }

func (e ioFailureError) Unwrap() error { return e.err }

// ErrIOFailure wraps err as an I/O failure of op ("read", "write") on path.
func ErrIOFailure(op, path string, err error) error {
	return ioFailureError{op: op, path: path, err: err}
}

// IsIOFailure reports whether err indicates an input or output I/O failure.
func IsIOFailure(err error) bool {
	var e ioFailureError
	return errors.As(err, &e)
}
