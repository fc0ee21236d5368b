package storage

import "context"

// TxManager ejecuta fn dentro de una transacción. Los repos que reciben el ctx
// de fn participan de la misma transacción; si fn devuelve error se hace rollback.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
