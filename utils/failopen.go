package utils

// WithFailOpenDefault runs op and returns fallback instead of failing when op errors.
// onError, when set, receives the swallowed error so the caller can log it.
func WithFailOpenDefault[T any](op func() (T, error), fallback T, onError func(error)) T {
	v, err := op()
	if err != nil {
		if onError != nil {
			onError(err)
		}
		return fallback
	}
	return v
}
