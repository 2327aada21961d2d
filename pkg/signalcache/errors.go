package signalcache

import "errors"

var (
	ErrEmptyKey       = errors.New("empty cache key")
	ErrNilComputeFunc = errors.New("compute function is required")
	ErrLookupFailed   = errors.New("cache lookup failed")
	ErrComputeFailed  = errors.New("payload computation failed")
	ErrStoreFailed    = errors.New("failed to store computed payload")
)
