package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"petcare-marketplace/internal/domain/apperr"
	"petcare-marketplace/internal/domain/pets"
	"petcare-marketplace/internal/domain/providers"
)

type ProvidersRepo struct {
	db *sql.DB
}

func NewProvidersRepo(db *sql.DB) *ProvidersRepo {
	return &ProvidersRepo{db: db}
}

const providerColumns = `
	sp.id, sp.profile_id, COALESCE(sp.business_name, ''), COALESCE(sp.description, ''),
	sp.experience_years, sp.hourly_rate::float8,
	sp.services, sp.pet_types, sp.pet_sizes, sp.available_weekdays,
	sp.available_hours_start, sp.available_hours_end, sp.service_radius,
	sp.background_check_verified, sp.insurance_verified,
	sp.average_rating::float8, sp.total_reviews, sp.total_bookings,
	sp.is_active, sp.created_at, sp.updated_at`

func (r *ProvidersRepo) Create(ctx context.Context, p providers.Provider) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO service_providers (
			id, profile_id, business_name, description, experience_years, hourly_rate,
			services, pet_types, pet_sizes, available_weekdays,
			available_hours_start, available_hours_end, service_radius,
			background_check_verified, insurance_verified,
			is_active, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
	`,
		p.ID, p.ProfileID, nullString(p.BusinessName), nullString(p.Description), p.ExperienceYears, nullFloat(p.HourlyRate),
		pq.Array(servicesToText(p.Services)), pq.Array(petTypesToText(p.PetTypes)), pq.Array(sizesToText(p.PetSizes)), pq.Array(toInt64s(p.AvailableWeekdays)),
		p.AvailableStart, p.AvailableEnd, p.ServiceRadiusKm,
		p.BackgroundCheckVerified, p.InsuranceVerified,
		p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return apperr.Duplicate("Provider profile already exists")
	}
	return err
}

// Update no toca average_rating, total_reviews ni total_bookings.
func (r *ProvidersRepo) Update(ctx context.Context, p providers.Provider) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `
		UPDATE service_providers
		SET
			business_name = $2,
			description = $3,
			experience_years = $4,
			hourly_rate = $5,
			services = $6,
			pet_types = $7,
			pet_sizes = $8,
			available_weekdays = $9,
			available_hours_start = $10,
			available_hours_end = $11,
			service_radius = $12,
			is_active = $13,
			updated_at = $14
		WHERE id = $1
	`,
		p.ID, nullString(p.BusinessName), nullString(p.Description), p.ExperienceYears, nullFloat(p.HourlyRate),
		pq.Array(servicesToText(p.Services)), pq.Array(petTypesToText(p.PetTypes)), pq.Array(sizesToText(p.PetSizes)), pq.Array(toInt64s(p.AvailableWeekdays)),
		p.AvailableStart, p.AvailableEnd, p.ServiceRadiusKm,
		p.IsActive, p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return mustAffect(res, "Service provider not found")
}

func (r *ProvidersRepo) GetByID(ctx context.Context, id string) (providers.Provider, error) {
	return r.getBy(ctx, "sp.id", id)
}

func (r *ProvidersRepo) GetByProfileID(ctx context.Context, profileID string) (providers.Provider, error) {
	return r.getBy(ctx, "sp.profile_id", profileID)
}

func (r *ProvidersRepo) getBy(ctx context.Context, column, value string) (providers.Provider, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return providers.Provider{}, apperr.NotFound("Service provider not found")
	}

	row := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+providerColumns+` FROM service_providers sp WHERE `+column+` = $1`, value)
	p, err := scanProvider(row)
	if err != nil {
		return providers.Provider{}, notFoundIfNoRows(err, "Service provider not found")
	}
	return p, nil
}

// ListCandidates prefiltra por atributos en SQL; la distancia la resuelve el dominio.
func (r *ProvidersRepo) ListCandidates(ctx context.Context, f providers.Filter) ([]providers.Candidate, error) {
	sb := strings.Builder{}
	sb.WriteString(`
		SELECT ` + providerColumns + `,
			pr.full_name, COALESCE(pr.avatar_url, ''), COALESCE(pr.city, ''), COALESCE(pr.state, ''),
			pr.latitude, pr.longitude
		FROM service_providers sp
		JOIN profiles pr ON pr.id = sp.profile_id
		WHERE sp.is_active
		  AND sp.hourly_rate IS NOT NULL
		  AND sp.hourly_rate <= $1
		  AND sp.average_rating >= $2
	`)

	args := []any{f.MaxRate, f.MinRating}
	argN := 3

	if f.ServiceType != "" {
		sb.WriteString(fmt.Sprintf(" AND $%d = ANY(sp.services)", argN))
		args = append(args, string(f.ServiceType))
		argN++
	}
	if f.PetType != "" {
		sb.WriteString(fmt.Sprintf(" AND $%d = ANY(sp.pet_types)", argN))
		args = append(args, string(f.PetType))
		argN++
	}
	if f.PetSize != "" {
		sb.WriteString(fmt.Sprintf(" AND $%d = ANY(sp.pet_sizes)", argN))
		args = append(args, string(f.PetSize))
		argN++
	}
	if f.Weekday != 0 {
		sb.WriteString(fmt.Sprintf(" AND (cardinality(sp.available_weekdays) = 0 OR $%d = ANY(sp.available_weekdays))", argN))
		args = append(args, f.Weekday)
	}

	rows, err := conn(ctx, r.db).QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]providers.Candidate, 0)
	for rows.Next() {
		var c providers.Candidate
		var lat, lon sql.NullFloat64
		p, err := scanProvider(rows,
			&c.Profile.FullName, &c.Profile.AvatarURL, &c.Profile.City, &c.Profile.State,
			&lat, &lon,
		)
		if err != nil {
			return nil, err
		}
		c.Provider = p
		c.Profile.ID = p.ProfileID
		c.Profile.Latitude = floatPtr(lat)
		c.Profile.Longitude = floatPtr(lon)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ProvidersRepo) IncrementBookings(ctx context.Context, id string) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `
		UPDATE service_providers
		SET total_bookings = total_bookings + 1
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, "Service provider not found")
}

// scanProvider lee providerColumns y después extra.
func scanProvider(s scanner, extra ...any) (providers.Provider, error) {
	var p providers.Provider
	var rate sql.NullFloat64
	var services, petTypes, sizes []string
	var weekdays []int64

	dest := []any{
		&p.ID, &p.ProfileID, &p.BusinessName, &p.Description,
		&p.ExperienceYears, &rate,
		pq.Array(&services), pq.Array(&petTypes), pq.Array(&sizes), pq.Array(&weekdays),
		&p.AvailableStart, &p.AvailableEnd, &p.ServiceRadiusKm,
		&p.BackgroundCheckVerified, &p.InsuranceVerified,
		&p.AverageRating, &p.TotalReviews, &p.TotalBookings,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return providers.Provider{}, err
	}

	p.HourlyRate = floatPtr(rate)
	p.Services = make([]providers.ServiceType, 0, len(services))
	for _, v := range services {
		p.Services = append(p.Services, providers.ServiceType(v))
	}
	p.PetTypes = make([]pets.PetType, 0, len(petTypes))
	for _, v := range petTypes {
		p.PetTypes = append(p.PetTypes, pets.PetType(v))
	}
	p.PetSizes = make([]pets.Size, 0, len(sizes))
	for _, v := range sizes {
		p.PetSizes = append(p.PetSizes, pets.Size(v))
	}
	p.AvailableWeekdays = make([]int, 0, len(weekdays))
	for _, v := range weekdays {
		p.AvailableWeekdays = append(p.AvailableWeekdays, int(v))
	}
	return p, nil
}

func servicesToText(in []providers.ServiceType) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		out = append(out, string(v))
	}
	return out
}

func petTypesToText(in []pets.PetType) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		out = append(out, string(v))
	}
	return out
}

func sizesToText(in []pets.Size) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		out = append(out, string(v))
	}
	return out
}

func toInt64s(in []int) []int64 {
	out := make([]int64, 0, len(in))
	for _, v := range in {
		out = append(out, int64(v))
	}
	return out
}

