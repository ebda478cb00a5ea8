package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/scrowmarket/storefront-backend/api/responses"
	pkgerrors "github.com/scrowmarket/storefront-backend/pkg/errors"
	"github.com/scrowmarket/storefront-backend/pkg/logger"
)

const accountHeader = "X-Account-Address"

type contextKey string

const ctxAccount contextKey = "account"

func AccountFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccount).(string); ok {
		return v
	}
	return ""
}

// WithAccount injects the caller's ledger account into the context.
func WithAccount(ctx context.Context, account string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAccount, account)
}

// RequireAccount rejects requests that do not carry a ledger account header.
// The address is opaque to the storefront; it is only trimmed, never parsed.
func RequireAccount(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account := strings.TrimSpace(r.Header.Get(accountHeader))
			if account == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "X-Account-Address header required"))
				return
			}

			ctx := WithAccount(r.Context(), account)
			if logg != nil {
				ctx = logg.WithAccount(ctx, account)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
