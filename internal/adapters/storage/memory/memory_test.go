package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petcare-marketplace/internal/domain/apperr"
	"petcare-marketplace/internal/domain/profiles"
	"petcare-marketplace/internal/domain/providers"
	"petcare-marketplace/internal/domain/requests"
	"petcare-marketplace/internal/domain/reviews"
)

type stores struct {
	profiles  *ProfileRepo
	providers *ProviderRepo
	requests  *RequestRepo
	reviews   *ReviewRepo
	tx        *TxManager
}

func newStores(t *testing.T) stores {
	t.Helper()
	s := stores{profiles: NewProfileRepo(), tx: NewTxManager()}
	s.providers = NewProviderRepo(s.profiles)
	s.requests = NewRequestRepo(s.providers)
	s.reviews = NewReviewRepo(s.providers)

	ctx := context.Background()
	require.NoError(t, s.profiles.Create(ctx, profiles.Profile{ID: "prof-1", FullName: "Bruno"}))
	require.NoError(t, s.providers.Create(ctx, providers.Provider{ID: "prov-1", ProfileID: "prof-1", IsActive: true}))
	require.NoError(t, s.requests.Create(ctx, requests.ServiceRequest{
		ID:         "req-1",
		OwnerID:    "owner-1",
		ProviderID: "prov-1",
		Status:     requests.StatusPending,
		CreatedAt:  time.Now(),
	}))
	return s
}

func TestRequestRepo_DerivesProviderUserID(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()

	r, err := s.requests.GetByID(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, "prof-1", r.ProviderUserID)

	asProvider, err := s.requests.ListForUser(ctx, "prof-1", requests.ListFilter{Role: "provider"})
	require.NoError(t, err)
	assert.Len(t, asProvider, 1)

	asOwner, err := s.requests.ListForUser(ctx, "prof-1", requests.ListFilter{Role: "owner"})
	require.NoError(t, err)
	assert.Empty(t, asOwner)

	_, err = s.requests.GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestRequestRepo_UpdateStatusIsConditional(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()

	r, err := s.requests.GetByID(ctx, "req-1")
	require.NoError(t, err)
	require.True(t, r.TransitionTo(requests.StatusAccepted, time.Now()))

	require.NoError(t, s.requests.UpdateStatus(ctx, r, requests.StatusPending))
	err = s.requests.UpdateStatus(ctx, r, requests.StatusPending)
	assert.True(t, errors.Is(err, apperr.ErrInvalidState))
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		r, err := s.requests.GetByID(ctx, "req-1")
		if err != nil {
			return err
		}
		r.TransitionTo(requests.StatusAccepted, time.Now())
		if err := s.requests.UpdateStatus(ctx, r, requests.StatusPending); err != nil {
			return err
		}
		if err := s.providers.IncrementBookings(ctx, "prov-1"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	r, err := s.requests.GetByID(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, requests.StatusPending, r.Status)
	assert.Nil(t, r.AcceptedAt)

	p, err := s.providers.GetByID(ctx, "prov-1")
	require.NoError(t, err)
	assert.Zero(t, p.TotalBookings)
}

func TestProviderRepo_DuplicateProfileAndCandidates(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()

	err := s.providers.Create(ctx, providers.Provider{ID: "prov-2", ProfileID: "prof-1"})
	assert.True(t, errors.Is(err, apperr.ErrDuplicate))

	got, err := s.providers.ListCandidates(ctx, providers.Filter{MaxRate: 1000})
	require.NoError(t, err)
	// sin tarifa no entra
	assert.Empty(t, got)

	rate := 30.0
	p, err := s.providers.GetByID(ctx, "prov-1")
	require.NoError(t, err)
	p.HourlyRate = &rate
	require.NoError(t, s.providers.Update(ctx, p))

	got, err = s.providers.ListCandidates(ctx, providers.Filter{MaxRate: 1000})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Bruno", got[0].Profile.FullName)
}

func TestReviewRepo_RecomputesProviderRating(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()

	for i, rating := range []int{5, 4} {
		require.NoError(t, s.reviews.Create(ctx, reviews.Review{
			ID:           []string{"rv-1", "rv-2"}[i],
			RequestID:    []string{"req-1", "req-2"}[i],
			ReviewerID:   "owner-1",
			ReviewedID:   "prof-1",
			Rating:       rating,
			ReviewerType: reviews.ReviewerOwner,
			IsPublic:     true,
		}))
	}

	err := s.reviews.Create(ctx, reviews.Review{ID: "rv-3", RequestID: "req-1", ReviewerID: "owner-1", ReviewedID: "prof-1", Rating: 1})
	assert.True(t, errors.Is(err, apperr.ErrDuplicate))

	p, err := s.providers.GetByID(ctx, "prov-1")
	require.NoError(t, err)
	assert.Equal(t, 4.5, p.AverageRating)
	assert.Equal(t, 2, p.TotalReviews)
}
