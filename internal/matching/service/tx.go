package service

import "context"

// StoreTx groups the registry and match writes of one operation.
// The postgres implementation runs fn in a single transaction carried in ctx;
// without one, writes apply directly and the engine compensates on failure.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type directTx struct{}

func (directTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
