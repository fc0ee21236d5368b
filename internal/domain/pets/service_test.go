package pets

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petcare-marketplace/internal/domain/apperr"
)

type testRepo struct {
	byID map[string]Pet
}

func newTestRepo() *testRepo { return &testRepo{byID: map[string]Pet{}} }

func (r *testRepo) Create(_ context.Context, p Pet) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(_ context.Context, p Pet) error {
	if _, ok := r.byID[p.ID]; !ok {
		return apperr.NotFound("Pet not found")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Pet, error) {
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, apperr.NotFound("Pet not found")
	}
	return p, nil
}

func (r *testRepo) ListActiveByOwner(_ context.Context, ownerID string) ([]Pet, error) {
	out := make([]Pet, 0)
	for _, p := range r.byID {
		if p.OwnerID == ownerID && p.IsActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo)
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	svc.now = func() time.Time {
		calls++
		return t0.Add(time.Duration(calls) * time.Minute)
	}
	return svc, repo
}

func TestCreate_ValidatesEnums(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "owner", CreateInput{Name: "Rex", PetType: "dragon"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = svc.Create(ctx, "owner", CreateInput{Name: "Rex", PetType: "dog", Size: "huge"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = svc.Create(ctx, "owner", CreateInput{PetType: "dog"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	p, err := svc.Create(ctx, "owner", CreateInput{Name: " Rex ", PetType: "DOG", Size: "large"})
	require.NoError(t, err)
	assert.Equal(t, "Rex", p.Name)
	assert.Equal(t, PetTypeDog, p.PetType)
	assert.Equal(t, GenderUnknown, p.Gender)
	assert.True(t, p.IsActive)
}

func TestGetUpdate_OwnerOnly(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, "owner", CreateInput{Name: "Mia", PetType: "cat"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, "stranger", p.ID)
	assert.True(t, errors.Is(err, apperr.ErrPermissionDenied))

	notes := "  shy with strangers "
	updated, err := svc.Update(ctx, "owner", p.ID, UpdateInput{BehavioralNotes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "shy with strangers", updated.BehavioralNotes)
	assert.True(t, updated.UpdatedAt.After(p.UpdatedAt))

	empty := " "
	_, err = svc.Update(ctx, "owner", p.ID, UpdateInput{Name: &empty})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestDeactivate_HidesPet(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, "owner", CreateInput{Name: "A", PetType: "dog"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, "owner", CreateInput{Name: "B", PetType: "bird"})
	require.NoError(t, err)

	list, err := svc.ListMine(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	require.NoError(t, svc.Deactivate(ctx, "owner", first.ID))

	list, err = svc.ListMine(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = svc.Get(ctx, "owner", first.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = svc.OwnerOfActive(ctx, first.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	owner, err := svc.OwnerOfActive(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner", owner)
}
