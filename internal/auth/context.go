package auth

import "context"

type operatorKey struct{}

func ContextWithOperator(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, operatorKey{}, subject)
}

func OperatorFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(operatorKey{}).(string)
	return s, ok
}
