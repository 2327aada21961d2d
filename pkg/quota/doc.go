// Package quota enforces the rolling daily cap on signal access for
// non-paying accounts.
//
// The gate increments a day-scoped counter in the shared store and compares
// the post-increment value against the configured limit, so two concurrent
// requests near the boundary can never both slip under it. Paying accounts
// bypass the gate entirely and no counter key is ever created for them,
// keeping the common unlimited case free of store calls.
//
// The day key is derived from the caller-supplied time, in UTC, which keeps
// the gate free of implicit clock state and makes day-boundary behavior
// deterministic under test. A store failure fails the whole check; the gate
// never answers Allowed on a guess.
package quota
