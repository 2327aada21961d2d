package entitlement

import "errors"

var (
	// ErrAccountNotFound is returned by AccountStore lookups that match
	// nothing.
	ErrAccountNotFound = errors.New("account not found")

	// ErrUnknownAccount indicates a notification referenced a billing
	// subject with no bound account. Surfaced as an integrity warning; the
	// notification stays admitted and is not reprocessed.
	ErrUnknownAccount = errors.New("no account bound to billing subject")

	// ErrSubjectAlreadyBound indicates an attempt to bind a billing subject
	// to an account that is already bound to a different one. Binding is
	// first-write-wins.
	ErrSubjectAlreadyBound = errors.New("account already bound to another billing subject")

	ErrEventNotActionable = errors.New("event kind is not actionable")
	ErrApplyFailed        = errors.New("failed to apply notification to account state")
)
