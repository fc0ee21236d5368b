package notifications

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petcare-marketplace/internal/domain/apperr"
	"petcare-marketplace/internal/platform/logger"
	"petcare-marketplace/internal/ports/realtime"
)

type testRepo struct {
	mu        sync.Mutex
	items     []Notification
	createErr error
	ctxErr    error
}

func (r *testRepo) Create(ctx context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctxErr = ctx.Err()
	if r.createErr != nil {
		return r.createErr
	}
	r.items = append(r.items, n)
	return nil
}

func (r *testRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, limit int) ([]Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, 0)
	for _, n := range r.items {
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *testRepo) MarkRead(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id && r.items[i].UserID == userID {
			r.items[i].IsRead = true
			return nil
		}
	}
	return apperr.NotFound("Notification not found")
}

func (r *testRepo) MarkAllRead(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for i := range r.items {
		if r.items[i].UserID == userID && !r.items[i].IsRead {
			r.items[i].IsRead = true
			n++
		}
	}
	return n, nil
}

type recordingPublisher struct {
	channels []string
	events   []realtime.Event
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, channel string, ev realtime.Event) error {
	p.channels = append(p.channels, channel)
	p.events = append(p.events, ev)
	return p.err
}

func TestNotify_PersistsAndPublishes(t *testing.T) {
	repo := &testRepo{}
	pub := &recordingPublisher{}
	svc := NewService(repo, pub, logger.Nop())

	svc.Notify(context.Background(), Input{
		UserID:    "u1",
		Title:     "Nova Mensagem",
		Message:   "Você recebeu uma nova mensagem",
		Type:      TypeNewMessage,
		RequestID: "r1",
	})

	require.Len(t, repo.items, 1)
	assert.Equal(t, TypeNewMessage, repo.items[0].Type)
	assert.NotEmpty(t, repo.items[0].ID)
	assert.Equal(t, []string{"user_u1"}, pub.channels)
	assert.Equal(t, realtime.EventNotification, pub.events[0].Type)
}

func TestNotify_DetachedFromCallerCancellation(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo, nil, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc.Notify(ctx, Input{UserID: "u1", Type: TypeNewRequest})

	require.Len(t, repo.items, 1)
	assert.NoError(t, repo.ctxErr)
}

func TestNotify_FailuresAreSwallowed(t *testing.T) {
	repo := &testRepo{createErr: errors.New("db down")}
	pub := &recordingPublisher{}
	svc := NewService(repo, pub, logger.Nop())

	assert.NotPanics(t, func() {
		svc.Notify(context.Background(), Input{UserID: "u1", Type: TypeNewReview})
		svc.Notify(context.Background(), Input{Type: TypeNewReview})
	})
	assert.Empty(t, pub.channels)

	// publicar falla pero la fila queda
	repo.createErr = nil
	pub.err = errors.New("redis down")
	svc.Notify(context.Background(), Input{UserID: "u1", Type: TypeNewReview})
	assert.Len(t, repo.items, 1)
}

func TestListAndMarkRead(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo, nil, logger.Nop())
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time { tick++; return t0.Add(time.Duration(tick) * time.Second) }
	ctx := context.Background()

	svc.Notify(ctx, Input{UserID: "u1", Type: TypeNewRequest, Title: "first"})
	svc.Notify(ctx, Input{UserID: "u1", Type: TypeNewMessage, Title: "second"})
	svc.Notify(ctx, Input{UserID: "u2", Type: TypeNewMessage, Title: "other"})

	items, err := svc.List(ctx, "u1", false, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "second", items[0].Title)

	err = svc.MarkRead(ctx, "u2", items[0].ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	require.NoError(t, svc.MarkRead(ctx, "u1", items[0].ID))
	unread, err := svc.List(ctx, "u1", true, 0)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "first", unread[0].Title)

	n, err := svc.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
