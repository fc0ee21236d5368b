package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petcare-marketplace/internal/domain/apperr"
	"petcare-marketplace/internal/domain/pets"
	"petcare-marketplace/internal/domain/providers"
	"petcare-marketplace/internal/domain/requests"
	"petcare-marketplace/internal/domain/reviews"
)

func newMock(t *testing.T) (sqlmock.Sqlmock, func() *ProvidersRepo, *RequestsRepo, *TxManager) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return mock, func() *ProvidersRepo { return NewProvidersRepo(db) }, NewRequestsRepo(db), NewTxManager(db)
}

func TestRequestsRepo_UpdateStatusCompareAndSet(t *testing.T) {
	mock, _, repo, _ := newMock(t)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	req := requests.ServiceRequest{ID: "req-1", Status: requests.StatusAccepted, AcceptedAt: &now, UpdatedAt: now}

	update := regexp.QuoteMeta("UPDATE service_requests")
	mock.ExpectExec(update).
		WithArgs("req-1", "pending", "accepted", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(update).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpdateStatus(context.Background(), req, requests.StatusPending))

	err := repo.UpdateStatus(context.Background(), req, requests.StatusPending)
	assert.True(t, errors.Is(err, apperr.ErrInvalidState), "got %v", err)
}

func TestRequestsRepo_GetByIDNotFound(t *testing.T) {
	mock, _, repo, _ := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM service_requests sr")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.EqualError(t, err, "Service request not found")
}

func TestTxManager_CommitsAndRollsBack(t *testing.T) {
	mock, providersRepo, _, tx := newMock(t)
	repo := providersRepo()
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET total_bookings = total_bookings + 1")).
		WithArgs("prov-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, tx.WithinTx(ctx, func(ctx context.Context) error {
		return repo.IncrementBookings(ctx, "prov-1")
	}))

	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET total_bookings = total_bookings + 1")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := repo.IncrementBookings(ctx, "prov-1"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestProvidersRepo_CreateMapsUniqueViolation(t *testing.T) {
	mock, providersRepo, _, _ := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO service_providers")).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := providersRepo().Create(context.Background(), providers.Provider{ID: "prov-1", ProfileID: "prof-1"})
	assert.True(t, errors.Is(err, apperr.ErrDuplicate))
	assert.EqualError(t, err, "Provider profile already exists")
}

func TestProvidersRepo_ListCandidatesScansArraysAndCard(t *testing.T) {
	mock, providersRepo, _, _ := newMock(t)
	now := time.Now()

	cols := []string{
		"id", "profile_id", "business_name", "description",
		"experience_years", "hourly_rate",
		"services", "pet_types", "pet_sizes", "available_weekdays",
		"available_hours_start", "available_hours_end", "service_radius",
		"background_check_verified", "insurance_verified",
		"average_rating", "total_reviews", "total_bookings",
		"is_active", "created_at", "updated_at",
		"full_name", "avatar_url", "city", "state", "latitude", "longitude",
	}
	rows := sqlmock.NewRows(cols).AddRow(
		"prov-1", "prof-1", "Patas Felizes", "",
		3, 25.5,
		"{pet_sitting,dog_walking}", "{dog}", "{small,medium}", "{1,2,3}",
		"08:00", "18:00", 10.0,
		true, false,
		4.5, 2, 7,
		true, now, now,
		"Bruno", "", "São Paulo", "SP", -23.55, -46.63,
	)

	mock.ExpectQuery(regexp.QuoteMeta("JOIN profiles pr ON pr.id = sp.profile_id")).
		WithArgs(1000.0, 0.0, "dog_walking", "dog", 2).
		WillReturnRows(rows)

	got, err := providersRepo().ListCandidates(context.Background(), providers.Filter{
		ServiceType: providers.ServiceDogWalking,
		PetType:     pets.PetTypeDog,
		MaxRate:     1000,
		Weekday:     2,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)

	c := got[0]
	assert.Equal(t, []providers.ServiceType{providers.ServicePetSitting, providers.ServiceDogWalking}, c.Provider.Services)
	assert.Equal(t, []int{1, 2, 3}, c.Provider.AvailableWeekdays)
	require.NotNil(t, c.Provider.HourlyRate)
	assert.Equal(t, 25.5, *c.Provider.HourlyRate)
	assert.Equal(t, "prof-1", c.Profile.ID)
	assert.Equal(t, "Bruno", c.Profile.FullName)
	require.NotNil(t, c.Profile.Latitude)
	assert.Equal(t, -23.55, *c.Profile.Latitude)
}

func TestReviewsRepo_CreateDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reviews")).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err = NewReviewsRepo(db).Create(context.Background(), reviews.Review{ID: "rv-1", Rating: 5})
	assert.True(t, errors.Is(err, apperr.ErrDuplicate))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationsRepo_MarkReadOtherUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2")).
		WithArgs("n-1", "u-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewNotificationsRepo(db).MarkRead(context.Background(), "u-2", "n-1")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
