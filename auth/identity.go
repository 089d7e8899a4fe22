package auth

import (
	"context"
	"mediator/errors"
)

type contextKey string

const EmailKey contextKey = "email"

// WithEmail stores the authenticated user in the context handed to services.
func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, EmailKey, email)
}

// EmailFromContext returns the authenticated user or ErrUnauthenticated.
func EmailFromContext(ctx context.Context) (string, error) {
	email, ok := ctx.Value(EmailKey).(string)
	if !ok || email == "" {
		return "", errors.ErrUnauthenticated
	}
	return email, nil
}
