package ports

import "context"

// Tx is an opaque transaction handle; infrastructure picks the concrete type
// (*gorm.DB for the SQLite repositories).
type Tx interface{}

// UnitOfWork runs fn in one transaction: an error rolls back, nil commits.
// Repositories pick the transaction up from the context passed to fn.
type UnitOfWork interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

func WithTxContext(ctx context.Context, tx Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns nil outside a transaction.
func TxFromContext(ctx context.Context) Tx {
	return ctx.Value(txKey{})
}
