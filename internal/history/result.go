package history

// Result is the outcome of a soft-fail operation. Value holds the fallback
// value (zero id, false, empty list) when Err is set.
type Result[T any] struct {
	Value T
	Err   error
}

// OK reports whether the operation succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

func ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func failed[T any](fallback T, err error) Result[T] {
	return Result[T]{Value: fallback, Err: err}
}
