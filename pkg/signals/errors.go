package signals

import "errors"

var (
	// ErrDailyLimitExceeded is the expected deny outcome of the quota gate,
	// surfaced with the configured limit in the message so transports can
	// show it to the user.
	ErrDailyLimitExceeded = errors.New("daily signal limit exceeded")

	ErrQuotaUnavailable   = errors.New("failed to check signal quota")
	ErrSignalsUnavailable = errors.New("failed to load signals")
)
