package signals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/signalkit/pkg/entitlement"
	"github.com/dmitrymomot/signalkit/pkg/quota"
	"github.com/dmitrymomot/signalkit/pkg/signalcache"
)

// cacheKey groups all instruments into one cached payload, matching how the
// generator computes them together.
const cacheKey = "all"

// Service answers signal requests: quota gate for free accounts, then the
// cached generator. It holds no mutable state and is safe for concurrent use.
type Service struct {
	gate      *quota.Gate
	cache     *signalcache.Cache
	generator *Generator
	log       *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithGenerator replaces the default generator.
func WithGenerator(g *Generator) ServiceOption {
	return func(s *Service) {
		if g != nil {
			s.generator = g
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService creates a Service.
// Panics if gate or cache is nil to fail fast during initialization.
func NewService(gate *quota.Gate, cache *signalcache.Cache, opts ...ServiceOption) *Service {
	if gate == nil {
		panic("signals: quota gate is required")
	}
	if cache == nil {
		panic("signals: cache is required")
	}

	s := &Service{
		gate:      gate,
		cache:     cache,
		generator: NewGenerator(),
		log:       slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// GetSignals runs the full resource path for one request: consume quota for
// free accounts, then fetch or compute the bucket's signal set. Free
// responses are trimmed to the daily limit with an upgrade hint; paying
// responses are untrimmed.
//
// The caller-supplied now is threaded into both the day-scoped quota key and
// the cache bucket, keeping the whole path deterministic under test.
func (s *Service) GetSignals(ctx context.Context, account *entitlement.Account, now time.Time) (*Response, error) {
	isPaying := account.Status.IsPaying()

	res, err := s.gate.CheckAndConsume(ctx, account.ID, isPaying, now)
	if err != nil {
		return nil, errors.Join(ErrQuotaUnavailable, err)
	}
	if !res.Allowed() {
		return nil, fmt.Errorf("%w: %d signals per day, resets at %s; upgrade to a paid plan for unlimited access",
			ErrDailyLimitExceeded, res.Limit, res.ResetAt.Format(time.RFC3339))
	}

	bucket := s.cache.Bucket(now)
	payload, err := s.cache.GetOrCompute(ctx, cacheKey, now, func(ctx context.Context) ([]byte, error) {
		return json.Marshal(s.generator.Generate(bucket))
	})
	if err != nil {
		return nil, errors.Join(ErrSignalsUnavailable, err)
	}

	var all []Signal
	if err := json.Unmarshal(payload, &all); err != nil {
		return nil, errors.Join(ErrSignalsUnavailable, err)
	}

	if isPaying {
		return &Response{Signals: all, IsPaid: true}, nil
	}

	if int64(len(all)) > res.Limit {
		all = all[:res.Limit]
	}
	hint := fmt.Sprintf("%d/day (upgrade for unlimited)", res.Limit)

	s.log.DebugContext(ctx, "served quota-gated signals",
		slog.String("account_id", account.ID.String()),
		slog.Int64("used", res.Used),
		slog.Int64("limit", res.Limit),
	)

	return &Response{Signals: all, UserLimit: &hint, IsPaid: false}, nil
}
