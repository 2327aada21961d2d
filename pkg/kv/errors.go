package kv

import "errors"

var (
	// ErrNotFound indicates the key does not exist or has expired.
	ErrNotFound = errors.New("key not found")

	// ErrUnavailable indicates the store did not answer (timeout, connection
	// failure, server error). Callers must treat this as a failure of the
	// whole operation, never as a miss or an implicit allow.
	ErrUnavailable = errors.New("ephemeral store unavailable")

	ErrEmptyKey = errors.New("empty store key")

	// ErrValueNotInteger indicates IncrBy hit a key whose value is not an
	// integer, mirroring the Redis WRONGTYPE/not-an-integer behavior.
	ErrValueNotInteger = errors.New("value is not an integer")

	ErrFailedToParseConnString = errors.New("failed to parse store connection string")
	ErrStoreNotReady           = errors.New("store did not become ready within the given time period")
	ErrHealthcheckFailed       = errors.New("store healthcheck failed")
)
