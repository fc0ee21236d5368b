package memory

import (
	"context"
	"sync"

	"petcare-marketplace/internal/domain/messages"
)

type MessageRepo struct {
	mu    sync.RWMutex
	items []messages.Message
}

func NewMessageRepo() *MessageRepo {
	return &MessageRepo{}
}

func (r *MessageRepo) Create(ctx context.Context, m messages.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m.Sender = nil
	r.items = append(r.items, m)
	return nil
}

func (r *MessageRepo) ListByRequest(ctx context.Context, requestID string) ([]messages.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]messages.Message, 0)
	for _, m := range r.items {
		if m.RequestID == requestID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MessageRepo) MarkReadFor(ctx context.Context, requestID, recipientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].RequestID == requestID && r.items[i].RecipientID == recipientID {
			r.items[i].IsRead = true
		}
	}
	return nil
}
