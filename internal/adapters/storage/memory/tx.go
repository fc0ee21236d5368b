package memory

import (
	"context"
	"sync"
)

type txKey struct{}

type memTx struct {
	undo []func()
}

// TxManager serializa las transacciones y deshace, en orden inverso,
// los cambios que los repos registraron si fn falla.
type TxManager struct {
	mu sync.Mutex
}

func NewTxManager() *TxManager {
	return &TxManager{}
}

func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*memTx); ok {
		return fn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
		return err
	}
	return nil
}

// onRollback registra f en la tx del ctx; sin tx no hace nada.
func onRollback(ctx context.Context, f func()) {
	if tx, ok := ctx.Value(txKey{}).(*memTx); ok {
		tx.undo = append(tx.undo, f)
	}
}
