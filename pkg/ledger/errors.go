package ledger

import "errors"

var (
	ErrEmptyNotificationID = errors.New("empty notification identifier")
	ErrAdmitFailed         = errors.New("failed to admit notification")
)
