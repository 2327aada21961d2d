// Package ledger implements the idempotency ledger that keeps redelivered
// billing notifications from applying their effect twice.
//
// Admission is a single atomic create-if-absent write against the shared
// store: exactly one of any number of concurrent callers presenting the same
// notification identifier observes Admitted; everyone else observes
// AlreadyProcessed and must not apply any effect.
//
// An admitted entry stays for the retention window (24 hours by default)
// whether or not the downstream effect succeeds. Retrying a failed effect is
// the sender's job via redelivery, and a redelivery of an admitted identifier
// is rejected: the ledger favors at-most-once effect application over
// guaranteed completion.
package ledger
