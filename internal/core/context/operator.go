// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// Operator identifies who issued a ledger operation and from which branch.
// There is no authentication layer: the values are taken as asserted by the caller.
type Operator struct {
	Username string
	BranchID string
}

type operatorContextKey struct{}

// WithOperator adds Operator to context.
func WithOperator(ctx context.Context, op *Operator) context.Context {
	return context.WithValue(ctx, operatorContextKey{}, op)
}

// GetOperator returns Operator from context.
func GetOperator(ctx context.Context) *Operator {
	if v, ok := ctx.Value(operatorContextKey{}).(*Operator); ok {
		return v
	}
	return nil
}

// GetUsername returns the operator's username or empty string.
func GetUsername(ctx context.Context) string {
	if op := GetOperator(ctx); op != nil {
		return op.Username
	}
	return ""
}

// GetBranchID returns the operator's branch or empty string.
func GetBranchID(ctx context.Context) string {
	if op := GetOperator(ctx); op != nil {
		return op.BranchID
	}
	return ""
}
