package billing

import "errors"

var (
	ErrMissingAPIKey             = errors.New("stripe secret key is required")
	ErrMissingWebhookSecret      = errors.New("stripe webhook secret is required")
	ErrMissingPriceID            = errors.New("stripe price ID is required")
	ErrWebhookVerificationFailed = errors.New("webhook signature verification failed")
	ErrMalformedEvent            = errors.New("malformed webhook event payload")
	ErrProviderError             = errors.New("billing provider request failed")
)
