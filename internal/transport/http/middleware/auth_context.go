package middleware

import (
	"context"

	"github.com/baechuer/account-service/internal/domain"
)

type ctxKey string

const ctxClaims ctxKey = "claims"

func WithClaims(ctx context.Context, c domain.Claims) context.Context {
	return context.WithValue(ctx, ctxClaims, c)
}

func ClaimsFromContext(ctx context.Context) (domain.Claims, bool) {
	c, ok := ctx.Value(ctxClaims).(domain.Claims)
	return c, ok && c.Username != ""
}
