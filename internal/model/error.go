package model

import "errors"

// Error definitions for the model package.
var (
	ErrNotReady   = errors.New("model is not ready")
	ErrLoadFailed = errors.New("model load failed")
)
