package signals

import (
	"context"

	"github.com/dmitrymomot/signalkit/pkg/entitlement"
)

type contextKey struct{ name string }

var accountContextKey = contextKey{"account"}

// WithAccount returns a context carrying the authenticated account. The host
// application's auth middleware calls this before the module's handlers run;
// authentication itself is outside this module.
func WithAccount(ctx context.Context, account *entitlement.Account) context.Context {
	return context.WithValue(ctx, accountContextKey, account)
}

// AccountFromContext extracts the authenticated account, if any.
func AccountFromContext(ctx context.Context) (*entitlement.Account, bool) {
	account, ok := ctx.Value(accountContextKey).(*entitlement.Account)
	return account, ok && account != nil
}
