package middleware

import (
	"context"
	"errors"
)

type contextKey string

const (
	operatorKey  contextKey = "operator"
	RequestIDKey contextKey = "request_id"
)

var errUnauthorized = errors.New("unauthorized")

// ContextWithOperator returns a new context carrying the operator name.
// This is intended for use in tests and middleware.
func ContextWithOperator(ctx context.Context, operator string) context.Context {
	return context.WithValue(ctx, operatorKey, operator)
}

func GetOperatorFromContext(ctx context.Context) (string, error) {
	op, ok := ctx.Value(operatorKey).(string)
	if !ok || op == "" {
		return "", errUnauthorized
	}
	return op, nil
}

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
