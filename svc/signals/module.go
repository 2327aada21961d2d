// Package signals is the HTTP surface of the signalkit core: the signals
// feed, the billing status endpoint, checkout creation and the Stripe
// webhook. It is deliberately thin; every decision lives in the pkg
// components it wires together. Authentication is the host application's
// job, handlers only read the account injected via WithAccount.
package signals

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/signalkit/pkg/billing"
	"github.com/dmitrymomot/signalkit/pkg/entitlement"
	"github.com/dmitrymomot/signalkit/pkg/kv"
	core "github.com/dmitrymomot/signalkit/pkg/signals"
)

// Stripe recommends capping webhook bodies; 64 KiB covers every event the
// module consumes.
const maxWebhookBody = 65536

// Module bundles the handlers and their dependencies.
type Module struct {
	signals   *core.Service
	processor *billing.Processor
	provider  *billing.StripeProvider
	accounts  entitlement.AccountStore
	log       *slog.Logger
	now       func() time.Time
}

// ModuleOption configures a Module.
type ModuleOption func(*Module)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) ModuleOption {
	return func(m *Module) {
		if log != nil {
			m.log = log
		}
	}
}

// WithClock replaces the wall clock, used by tests to pin quota days and
// cache buckets.
func WithClock(now func() time.Time) ModuleOption {
	return func(m *Module) {
		if now != nil {
			m.now = now
		}
	}
}

// NewModule creates the HTTP module.
// Panics if any dependency is nil to fail fast during initialization.
func NewModule(
	signals *core.Service,
	processor *billing.Processor,
	provider *billing.StripeProvider,
	accounts entitlement.AccountStore,
	opts ...ModuleOption,
) *Module {
	if signals == nil {
		panic("signals module: signals service is required")
	}
	if processor == nil {
		panic("signals module: billing processor is required")
	}
	if provider == nil {
		panic("signals module: stripe provider is required")
	}
	if accounts == nil {
		panic("signals module: account store is required")
	}

	m := &Module{
		signals:   signals,
		processor: processor,
		provider:  provider,
		accounts:  accounts,
		log:       slog.Default(),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Router mounts the module's endpoints.
//
//	r := chi.NewRouter()
//	r.Mount("/", module.Router())
func (m *Module) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/signals", m.handleGetSignals)
	r.Route("/billing", func(b chi.Router) {
		b.Get("/status", m.handleBillingStatus)
		b.Post("/checkout", m.handleCreateCheckout)
		b.Post("/webhook", m.handleWebhook)
	})

	return r
}

func (m *Module) handleGetSignals(w http.ResponseWriter, r *http.Request) {
	account, ok := AccountFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	resp, err := m.signals.GetSignals(r.Context(), account, m.now())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, core.ErrDailyLimitExceeded):
		// The message carries the configured limit; expected outcome, not
		// an error.
		writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, kv.ErrUnavailable):
		m.log.ErrorContext(r.Context(), "signals request failed, store unavailable", slog.Any("error", err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "temporarily unavailable"})
	default:
		m.log.ErrorContext(r.Context(), "signals request failed", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func (m *Module) handleBillingStatus(w http.ResponseWriter, r *http.Request) {
	account, ok := AccountFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	// Re-read so a status check right after checkout sees the webhook's
	// write, not the session's stale snapshot. The version lets clients
	// detect the remaining race.
	fresh, err := m.accounts.Get(r.Context(), account.ID)
	if err != nil {
		m.log.ErrorContext(r.Context(), "billing status lookup failed", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":         fresh.Status,
		"status_version": fresh.StatusVersion,
		"is_paid":        fresh.Status.IsPaying(),
		"billing_bound":  fresh.BillingSubjectID != "",
	})
}

func (m *Module) handleCreateCheckout(w http.ResponseWriter, r *http.Request) {
	account, ok := AccountFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	customerID := account.BillingSubjectID
	if customerID == "" {
		created, err := m.provider.CreateCustomer(r.Context(), account.Email, account.ID)
		if err != nil {
			m.log.ErrorContext(r.Context(), "stripe customer creation failed", slog.Any("error", err))
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "billing provider error"})
			return
		}

		if err := m.accounts.BindBillingSubject(r.Context(), account.ID, created); err != nil {
			if !errors.Is(err, entitlement.ErrSubjectAlreadyBound) {
				m.log.ErrorContext(r.Context(), "billing subject binding failed", slog.Any("error", err))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
				return
			}
			// A concurrent checkout bound first; reuse the winner.
			fresh, err := m.accounts.Get(r.Context(), account.ID)
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
				return
			}
			created = fresh.BillingSubjectID
		}
		customerID = created
	}

	link, err := m.provider.CreateCheckoutSession(r.Context(), customerID, account.ID)
	if err != nil {
		m.log.ErrorContext(r.Context(), "checkout session creation failed", slog.Any("error", err))
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "billing provider error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"checkout_url": link.URL,
		"session_id":   link.SessionID,
	})
}

func (m *Module) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable body"})
		return
	}

	notification, err := m.provider.ParseWebhook(body, r.Header.Get("Stripe-Signature"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid signature"})
		return
	}

	outcome, err := m.processor.Process(r.Context(), notification)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"status": string(outcome)})
	case errors.Is(err, entitlement.ErrUnknownAccount):
		// Integrity warning already logged by the processor. The event is
		// admitted, so answering 200 stops pointless redeliveries.
		writeJSON(w, http.StatusOK, map[string]string{"status": "unknown_account"})
	case errors.Is(err, kv.ErrUnavailable):
		// 5xx makes the sender redeliver; if admission went through before
		// the failure the redelivery resolves as already_processed.
		m.log.ErrorContext(r.Context(), "webhook processing failed, store unavailable", slog.Any("error", err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "temporarily unavailable"})
	default:
		m.log.ErrorContext(r.Context(), "webhook processing failed", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
