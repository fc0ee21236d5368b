package profiles

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petcare-marketplace/internal/domain/apperr"
	"petcare-marketplace/internal/ports/auth"
)

type testRepo struct {
	byID       map[string]Profile
	createErrs []error
}

func newTestRepo() *testRepo { return &testRepo{byID: map[string]Profile{}} }

func (r *testRepo) Create(_ context.Context, p Profile) error {
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		return err
	}
	if _, ok := r.byID[p.ID]; ok {
		return apperr.Duplicate("profile already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(_ context.Context, p Profile) error {
	if _, ok := r.byID[p.ID]; !ok {
		return apperr.NotFound("Profile not found")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Profile, error) {
	p, ok := r.byID[id]
	if !ok {
		return Profile{}, apperr.NotFound("Profile not found")
	}
	return p, nil
}

func newTestService(repo Repository) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func ptr[T any](v T) *T { return &v }

func TestEnsure_CreatesOnceFromClaims(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	p, err := svc.Ensure(ctx, auth.Claims{UserID: "u1", Email: "ana@example.com", FullName: "Ana", UserType: "PROVIDER"})
	require.NoError(t, err)
	assert.Equal(t, UserTypeProvider, p.UserType)
	assert.Equal(t, "ana@example.com", p.Email)

	// Segunda vez devuelve el existente sin pisar datos.
	again, err := svc.Ensure(ctx, auth.Claims{UserID: "u1", Email: "other@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", again.Email)
}

func TestEnsure_DefaultsUserTypeAndHandlesRace(t *testing.T) {
	repo := newTestRepo()
	repo.byID["u2"] = Profile{ID: "u2", UserType: UserTypeBoth}
	svc := newTestService(&raceRepo{testRepo: repo})

	p, err := svc.Ensure(context.Background(), auth.Claims{UserID: "u2"})
	require.NoError(t, err)
	assert.Equal(t, UserTypeBoth, p.UserType)

	p, err = newTestService(newTestRepo()).Ensure(context.Background(), auth.Claims{UserID: "u3", UserType: "admin"})
	require.NoError(t, err)
	assert.Equal(t, UserTypeOwner, p.UserType)
}

// raceRepo simula que otro request creó el perfil entre el Get y el Create.
type raceRepo struct {
	*testRepo
	seen bool
}

func (r *raceRepo) GetByID(ctx context.Context, id string) (Profile, error) {
	if !r.seen {
		r.seen = true
		return Profile{}, apperr.NotFound("Profile not found")
	}
	return r.testRepo.GetByID(ctx, id)
}

func TestEnsure_RequiresUser(t *testing.T) {
	_, err := newTestService(newTestRepo()).Ensure(context.Background(), auth.Claims{})
	assert.True(t, errors.Is(err, apperr.ErrAuthRequired))
}

func TestUpdate_ValidatesAndComputesCompleted(t *testing.T) {
	repo := newTestRepo()
	repo.byID["u1"] = Profile{ID: "u1", UserType: UserTypeOwner}
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Update(ctx, "u1", UpdateInput{Latitude: ptr(91.0)})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = svc.Update(ctx, "u1", UpdateInput{UserType: ptr("admin")})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	p, err := svc.Update(ctx, "u1", UpdateInput{
		FullName:  ptr("  Ana  "),
		Phone:     ptr("11 99999-0000"),
		City:      ptr("São Paulo"),
		Latitude:  ptr(-23.55),
		Longitude: ptr(-46.63),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", p.FullName)
	assert.True(t, p.ProfileCompleted)

	loc, ok := p.Location()
	require.True(t, ok)
	assert.Equal(t, -23.55, loc.Lat)

	_, err = svc.Update(ctx, "missing", UpdateInput{})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
