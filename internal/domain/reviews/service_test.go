package reviews

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
	"petcare-marketplace/internal/domain/notifications"
	"petcare-marketplace/internal/domain/profiles"
	"petcare-marketplace/internal/domain/requests"
)

type testRepo struct {
	mu    sync.Mutex
	items []Review
}

func (r *testRepo) Create(_ context.Context, rv Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.RequestID == rv.RequestID && it.ReviewerID == rv.ReviewerID {
			return apperr.Duplicate("You have already reviewed this request")
		}
	}
	rv.Reviewer = nil
	r.items = append(r.items, rv)
	return nil
}

func (r *testRepo) Exists(_ context.Context, requestID, reviewerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.RequestID == requestID && it.ReviewerID == reviewerID {
			return true, nil
		}
	}
	return false, nil
}

func (r *testRepo) ListForReviewed(_ context.Context, reviewedID string, publicOnly bool) ([]Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Review, 0)
	for _, it := range r.items {
		if it.ReviewedID != reviewedID || (publicOnly && !it.IsPublic) {
			continue
		}
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type testRequests map[string]requests.ServiceRequest

func (t testRequests) Find(_ context.Context, id string) (requests.ServiceRequest, error) {
	r, ok := t[id]
	if !ok {
		return requests.ServiceRequest{}, apperr.NotFound("Service request not found")
	}
	return r, nil
}

type testProfiles map[string]profiles.Profile

func (t testProfiles) Get(_ context.Context, id string) (profiles.Profile, error) {
	p, ok := t[id]
	if !ok {
		return profiles.Profile{}, apperr.NotFound("Profile not found")
	}
	return p, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notifications.Input
}

func (n *recordingNotifier) Notify(_ context.Context, in notifications.Input) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, in)
}

const (
	ownerID    = "owner-1"
	providerID = "provider-user-1"
	doneID     = "req-done"
	pendingID  = "req-pending"
)

func intp(v int) *int    { return &v }
func boolp(v bool) *bool { return &v }

func newTestService() (*Service, *testRepo, *recordingNotifier) {
	repo := &testRepo{}
	n := &recordingNotifier{}
	reqs := testRequests{
		doneID:    {ID: doneID, OwnerID: ownerID, ProviderUserID: providerID, Status: requests.StatusCompleted},
		pendingID: {ID: pendingID, OwnerID: ownerID, ProviderUserID: providerID, Status: requests.StatusPending},
	}
	profs := testProfiles{
		ownerID:    {ID: ownerID, FullName: "Ana"},
		providerID: {ID: providerID, FullName: "Bruno"},
	}
	svc := NewService(repo, reqs, profs, n)
	return svc, repo, n
}

func TestCreate_OwnerReviewsProvider(t *testing.T) {
	svc, repo, n := newTestService()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	rv, err := svc.Create(context.Background(), ownerID, CreateInput{
		RequestID: doneID,
		Rating:    intp(5),
		Title:     " Excelente ",
		Comment:   "Cuidou muito bem do Rex",
	})
	require.NoError(t, err)

	assert.Equal(t, ReviewerOwner, rv.ReviewerType)
	assert.Equal(t, providerID, rv.ReviewedID)
	assert.Equal(t, "Excelente", rv.Title)
	assert.True(t, rv.IsPublic)
	assert.Equal(t, now, rv.CreatedAt)
	require.NotNil(t, rv.Reviewer)
	assert.Equal(t, "Ana", rv.Reviewer.FullName)
	assert.Len(t, repo.items, 1)

	require.Len(t, n.sent, 1)
	sent := n.sent[0]
	assert.Equal(t, providerID, sent.UserID)
	assert.Equal(t, notifications.TypeNewReview, sent.Type)
	assert.Equal(t, rv.ID, sent.ReviewID)
	assert.Equal(t, "Você recebeu uma nova avaliação de Ana", sent.Message)
	assert.Equal(t, 5, sent.ActionData["rating"])
}

func TestCreate_BothPartiesCanReviewOnce(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, ownerID, CreateInput{RequestID: doneID, Rating: intp(4)})
	require.NoError(t, err)

	rv, err := svc.Create(ctx, providerID, CreateInput{RequestID: doneID, Rating: intp(3), IsPublic: boolp(false)})
	require.NoError(t, err)
	assert.Equal(t, ReviewerProvider, rv.ReviewerType)
	assert.Equal(t, ownerID, rv.ReviewedID)
	assert.False(t, rv.IsPublic)

	_, err = svc.Create(ctx, ownerID, CreateInput{RequestID: doneID, Rating: intp(1)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrDuplicate))
	assert.EqualError(t, err, "You have already reviewed this request")
}

func TestCreate_Errors(t *testing.T) {
	svc, repo, n := newTestService()
	ctx := context.Background()

	tests := []struct {
		name   string
		caller string
		in     CreateInput
		want   error
		msg    string
	}{
		{"anonymous", "", CreateInput{RequestID: doneID, Rating: intp(5)}, apperr.ErrAuthRequired, "Authentication required"},
		{"missing rating", ownerID, CreateInput{RequestID: doneID}, apperr.ErrValidation, "Request ID and rating are required"},
		{"missing request", ownerID, CreateInput{Rating: intp(5)}, apperr.ErrValidation, "Request ID and rating are required"},
		{"rating too low", ownerID, CreateInput{RequestID: doneID, Rating: intp(0)}, apperr.ErrValidation, "Rating must be between 1 and 5"},
		{"rating too high", ownerID, CreateInput{RequestID: doneID, Rating: intp(6)}, apperr.ErrValidation, "Rating must be between 1 and 5"},
		{"unknown request", ownerID, CreateInput{RequestID: "nope", Rating: intp(5)}, apperr.ErrNotFound, "Service request not found"},
		{"stranger", "stranger", CreateInput{RequestID: doneID, Rating: intp(5)}, apperr.ErrPermissionDenied, "Access denied"},
		{"not completed", ownerID, CreateInput{RequestID: pendingID, Rating: intp(5)}, apperr.ErrInvalidState, "Can only review completed services"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.caller, tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.EqualError(t, err, tt.msg)
		})
	}
	assert.Empty(t, repo.items)
	assert.Empty(t, n.sent)
}

func TestListForUser_HidesPrivateFromOthers(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, providerID, CreateInput{RequestID: doneID, Rating: intp(2), IsPublic: boolp(false)})
	require.NoError(t, err)

	public, err := svc.ListForUser(ctx, providerID, ownerID)
	require.NoError(t, err)
	assert.Empty(t, public)

	own, err := svc.ListForUser(ctx, ownerID, ownerID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	require.NotNil(t, own[0].Reviewer)
	assert.Equal(t, "Bruno", own[0].Reviewer.FullName)
}
