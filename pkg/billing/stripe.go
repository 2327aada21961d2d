package billing

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v82"
	portalsession "github.com/stripe/stripe-go/v82/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/dmitrymomot/signalkit/pkg/entitlement"
)

// metadataAccountID is the checkout metadata key carrying the internal
// account identifier. The webhook reads it back to bind the billing subject
// on first checkout.
const metadataAccountID = "account_id"

// StripeConfig holds the Stripe integration settings.
type StripeConfig struct {
	SecretKey     string `env:"STRIPE_SECRET_KEY,required"`
	WebhookSecret string `env:"STRIPE_WEBHOOK_SECRET,required"`
	PriceID       string `env:"STRIPE_PRICE_ID,required"`                                           // Recurring price of the paid plan.
	SuccessURL    string `env:"STRIPE_SUCCESS_URL" envDefault:"http://localhost:3000/dashboard?success=true"`
	CancelURL     string `env:"STRIPE_CANCEL_URL" envDefault:"http://localhost:3000/dashboard?canceled=true"`
}

// StripeProvider verifies and normalizes Stripe webhook deliveries and wraps
// the hosted checkout, customer and billing-portal APIs.
type StripeProvider struct {
	cfg StripeConfig
}

// CheckoutLink is a hosted checkout session.
type CheckoutLink struct {
	URL       string
	SessionID string
}

// NewStripeProvider validates the configuration and sets the SDK key.
func NewStripeProvider(cfg StripeConfig) (*StripeProvider, error) {
	if cfg.SecretKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.WebhookSecret == "" {
		return nil, ErrMissingWebhookSecret
	}
	if cfg.PriceID == "" {
		return nil, ErrMissingPriceID
	}

	stripe.Key = cfg.SecretKey
	return &StripeProvider{cfg: cfg}, nil
}

// ParseWebhook verifies the delivery signature and maps the Stripe event to a
// normalized notification. Event types without a mapping come back with
// entitlement.KindUnknown so the processor classifies them Ignored instead of
// failing the delivery.
func (p *StripeProvider) ParseWebhook(payload []byte, sigHeader string) (entitlement.Notification, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, p.cfg.WebhookSecret)
	if err != nil {
		return entitlement.Notification{}, errors.Join(ErrWebhookVerificationFailed, err)
	}

	n := entitlement.Notification{
		ID:         event.ID,
		Kind:       entitlement.KindUnknown,
		OccurredAt: time.Unix(event.Created, 0).UTC(),
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return entitlement.Notification{}, errors.Join(ErrMalformedEvent, err)
		}
		n.Kind = entitlement.KindCheckoutCompleted
		if sess.Customer != nil {
			n.BillingSubjectID = sess.Customer.ID
		}
		if raw, ok := sess.Metadata[metadataAccountID]; ok {
			if id, err := uuid.Parse(raw); err == nil {
				n.AccountID = id
			}
		}

	case "invoice.payment_succeeded", "invoice.payment_failed":
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return entitlement.Notification{}, errors.Join(ErrMalformedEvent, err)
		}
		if event.Type == "invoice.payment_succeeded" {
			n.Kind = entitlement.KindPaymentSucceeded
		} else {
			n.Kind = entitlement.KindPaymentFailed
		}
		if inv.Customer != nil {
			n.BillingSubjectID = inv.Customer.ID
		}

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return entitlement.Notification{}, errors.Join(ErrMalformedEvent, err)
		}
		n.Kind = entitlement.KindSubscriptionCanceled
		if sub.Customer != nil {
			n.BillingSubjectID = sub.Customer.ID
		}
	}

	return n, nil
}

// CreateCustomer creates a Stripe customer tagged with the internal account
// ID and returns the customer identifier to store as the account's billing
// subject candidate.
func (p *StripeProvider) CreateCustomer(ctx context.Context, email string, accountID uuid.UUID) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	params.AddMetadata(metadataAccountID, accountID.String())
	params.Context = ctx

	cust, err := customer.New(params)
	if err != nil {
		return "", errors.Join(ErrProviderError, err)
	}
	return cust.ID, nil
}

// CreateCheckoutSession creates a subscription-mode hosted checkout for the
// configured price. The account ID travels in the session metadata so the
// completion webhook can bind the billing subject.
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, customerID string, accountID uuid.UUID) (*CheckoutLink, error) {
	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(p.cfg.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(p.cfg.SuccessURL),
		CancelURL:  stripe.String(p.cfg.CancelURL),
	}
	params.AddMetadata(metadataAccountID, accountID.String())
	params.Context = ctx

	sess, err := checkoutsession.New(params)
	if err != nil {
		return nil, errors.Join(ErrProviderError, err)
	}
	return &CheckoutLink{URL: sess.URL, SessionID: sess.ID}, nil
}

// CreateBillingPortalSession returns a pre-authenticated customer portal URL
// where subscribers manage or cancel their plan.
func (p *StripeProvider) CreateBillingPortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	sess, err := portalsession.New(params)
	if err != nil {
		return "", errors.Join(ErrProviderError, err)
	}
	return sess.URL, nil
}
