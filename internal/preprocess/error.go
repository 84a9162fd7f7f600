package preprocess

import "fmt"

// DecodeError indicates an unreadable or corrupt uploaded image.
// Request-level: the caller maps it to a client error, never a crash.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
