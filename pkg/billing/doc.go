// Package billing turns payment-processor deliveries into entitlement
// changes.
//
// The Processor is the single inbound path for notifications: every delivery
// goes through the idempotency ledger first, and only an admitted delivery is
// handed to the entitlement state machine. Redeliveries are answered with
// AlreadyProcessed and apply nothing, which turns the processor's
// at-least-once input into at-most-once effect application.
//
// A delivery that is admitted but fails mid-apply (for example a store
// timeout) stays admitted: the sender's redelivery with the same identifier
// will not retrigger the effect. This is a documented trade-off favoring
// at-most-once over guaranteed completion; operators resolve the rare stuck
// account through support tooling.
//
// StripeProvider adapts Stripe's webhook wire format and checkout API to the
// normalized entitlement.Notification the processor consumes.
package billing
