package quota

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid quota configuration")

	// ErrQuotaCheckFailed wraps store failures. Callers must reject the
	// request rather than fall back to an allow: defaulting open on store
	// failure would hand out unlimited access.
	ErrQuotaCheckFailed = errors.New("failed to check quota")
)
