package tygql

// Defer adapts a deferred resolver result to the thunk form graphql-go
// completes after the resolver returns.
func Defer[T any](fn func() T) func() (any, error) {
	return func() (any, error) {
		return fn(), nil
	}
}

// DeferErr is Defer for thunks that can fail.
func DeferErr[T any](fn func() (T, error)) func() (any, error) {
	return func() (any, error) {
		v, err := fn()
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}
