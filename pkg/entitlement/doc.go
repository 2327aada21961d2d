// Package entitlement owns account subscription state and the state machine
// that applies normalized billing notifications to it.
//
// An account is Free, Active or PastDue. Active and PastDue accounts hold the
// unlimited entitlement; Free accounts are quota-gated (past-due keeps access
// so a failed card does not cut a customer off before dunning finishes).
//
// Notifications are applied in arrival order. The transition table is written
// to be a correct function of arrival order for realistic event sequences; a
// SubscriptionCanceled overtaken by a late PaymentSucceeded re-activates the
// account, which is a known, accepted race rather than a bug this package
// tries to reconcile.
//
// Every accepted transition increments the account's StatusVersion. The
// version lets callers detect a race between a just-completed checkout and a
// stale status read; the package only makes such races detectable, it does
// not resolve them.
package entitlement
