package billing

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/signalkit/pkg/entitlement"
	"github.com/dmitrymomot/signalkit/pkg/ledger"
)

// Outcome classifies what a processed notification did.
type Outcome string

const (
	// OutcomeActivated means the account now holds the paid entitlement.
	OutcomeActivated Outcome = "activated"
	// OutcomeDeactivated means the account dropped back to the free tier.
	OutcomeDeactivated Outcome = "deactivated"
	// OutcomeMarkedPastDue means a renewal failed and the account entered
	// the dunning grace state.
	OutcomeMarkedPastDue Outcome = "marked_past_due"
	// OutcomeNoOp means the account was already in the target state.
	OutcomeNoOp Outcome = "noop"
	// OutcomeAlreadyProcessed means this identifier was seen before; nothing
	// was applied. A success, not an error.
	OutcomeAlreadyProcessed Outcome = "already_processed"
	// OutcomeIgnored means the event kind is not actionable.
	OutcomeIgnored Outcome = "ignored"
)

// Processor is the inbound notification path: ledger admission, then the
// entitlement state machine. Safe for concurrent use.
type Processor struct {
	ledger  *ledger.Ledger
	machine *entitlement.Machine
	log     *slog.Logger
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		if log != nil {
			p.log = log
		}
	}
}

// NewProcessor creates a Processor.
// Panics if either dependency is nil to fail fast during initialization.
func NewProcessor(l *ledger.Ledger, m *entitlement.Machine, opts ...ProcessorOption) *Processor {
	if l == nil {
		panic("billing: ledger is required")
	}
	if m == nil {
		panic("billing: entitlement machine is required")
	}

	p := &Processor{
		ledger:  l,
		machine: m,
		log:     slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Process handles one delivery. The ledger is consulted first, so concurrent
// deliveries of the same notification resolve to exactly one applied effect.
//
// An unknown-account notification is logged as an integrity warning and the
// error is surfaced; the notification stays admitted and a redelivery will
// not reprocess it. A store failure at any stage surfaces unchanged and the
// caller decides whether to retry the whole delivery.
func (p *Processor) Process(ctx context.Context, n entitlement.Notification) (Outcome, error) {
	admission, err := p.ledger.Admit(ctx, n.ID)
	if err != nil {
		return "", err
	}
	if admission == ledger.AlreadyProcessed {
		return OutcomeAlreadyProcessed, nil
	}

	if !n.Kind.Actionable() {
		return OutcomeIgnored, nil
	}

	res, err := p.machine.Apply(ctx, n)
	if err != nil {
		if errors.Is(err, entitlement.ErrUnknownAccount) {
			p.log.WarnContext(ctx, "billing notification references unknown account",
				slog.String("notification_id", n.ID),
				slog.String("kind", string(n.Kind)),
				slog.String("billing_subject_id", n.BillingSubjectID),
			)
		}
		return "", err
	}

	return outcomeFor(res), nil
}

func outcomeFor(res entitlement.Result) Outcome {
	if res.Outcome == entitlement.OutcomeNoOp {
		return OutcomeNoOp
	}

	switch res.Status {
	case entitlement.StatusActive:
		return OutcomeActivated
	case entitlement.StatusPastDue:
		return OutcomeMarkedPastDue
	default:
		return OutcomeDeactivated
	}
}
