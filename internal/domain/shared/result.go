package shared

// Result carries either a value or a soft failure.
// It is used by operations whose callers expect a failed outcome
// instead of an error for business rule violations.
type Result[T any] struct {
	value T
	err   *DomainError
}

// Ok wraps a successful value
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Fail wraps a business failure
func Fail[T any](err *DomainError) Result[T] {
	return Result[T]{err: err}
}

// IsOk returns true when the result holds a value
func (r Result[T]) IsOk() bool {
	return r.err == nil
}

// Value returns the wrapped value (zero value on failure)
func (r Result[T]) Value() T {
	return r.value
}

// Error returns the failure, or nil
func (r Result[T]) Error() *DomainError {
	return r.err
}

// Kind returns the failure kind, or an empty kind on success
func (r Result[T]) Kind() ErrorKind {
	if r.err == nil {
		return ""
	}
	return r.err.Kind
}

// Message returns the failure message, or an empty string on success
func (r Result[T]) Message() string {
	if r.err == nil {
		return ""
	}
	return r.err.Message
}
