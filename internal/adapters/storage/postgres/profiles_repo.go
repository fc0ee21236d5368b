package postgres

import (
	"context"
	"database/sql"
	"strings"

	"petcare-marketplace/internal/domain/apperr"
	"petcare-marketplace/internal/domain/profiles"
)

type ProfilesRepo struct {
	db *sql.DB
}

func NewProfilesRepo(db *sql.DB) *ProfilesRepo {
	return &ProfilesRepo{db: db}
}

const profileColumns = `
	id, email, full_name,
	COALESCE(phone, ''), COALESCE(avatar_url, ''), user_type,
	COALESCE(address, ''), COALESCE(city, ''), COALESCE(state, ''), COALESCE(postal_code, ''),
	latitude, longitude,
	profile_completed, email_verified, phone_verified,
	created_at, updated_at`

func (r *ProfilesRepo) Create(ctx context.Context, p profiles.Profile) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO profiles (
			id, email, full_name, phone, avatar_url, user_type,
			address, city, state, postal_code, latitude, longitude,
			profile_completed, email_verified, phone_verified,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`,
		p.ID, p.Email, p.FullName, nullString(p.Phone), nullString(p.AvatarURL), string(p.UserType),
		nullString(p.Address), nullString(p.City), nullString(p.State), nullString(p.PostalCode),
		nullFloat(p.Latitude), nullFloat(p.Longitude),
		p.ProfileCompleted, p.EmailVerified, p.PhoneVerified,
		p.CreatedAt, p.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return apperr.Duplicate("Profile already exists")
	}
	return err
}

func (r *ProfilesRepo) Update(ctx context.Context, p profiles.Profile) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `
		UPDATE profiles
		SET
			full_name = $2,
			phone = $3,
			avatar_url = $4,
			user_type = $5,
			address = $6,
			city = $7,
			state = $8,
			postal_code = $9,
			latitude = $10,
			longitude = $11,
			profile_completed = $12,
			updated_at = $13
		WHERE id = $1
	`,
		p.ID, p.FullName, nullString(p.Phone), nullString(p.AvatarURL), string(p.UserType),
		nullString(p.Address), nullString(p.City), nullString(p.State), nullString(p.PostalCode),
		nullFloat(p.Latitude), nullFloat(p.Longitude),
		p.ProfileCompleted, p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return mustAffect(res, "Profile not found")
}

func (r *ProfilesRepo) GetByID(ctx context.Context, id string) (profiles.Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return profiles.Profile{}, apperr.NotFound("Profile not found")
	}

	row := conn(ctx, r.db).QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)

	var p profiles.Profile
	var userType string
	var lat, lon sql.NullFloat64
	if err := row.Scan(
		&p.ID, &p.Email, &p.FullName,
		&p.Phone, &p.AvatarURL, &userType,
		&p.Address, &p.City, &p.State, &p.PostalCode,
		&lat, &lon,
		&p.ProfileCompleted, &p.EmailVerified, &p.PhoneVerified,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return profiles.Profile{}, notFoundIfNoRows(err, "Profile not found")
	}
	p.UserType = profiles.UserType(userType)
	p.Latitude = floatPtr(lat)
	p.Longitude = floatPtr(lon)
	return p, nil
}
