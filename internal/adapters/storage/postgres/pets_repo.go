package postgres

import (
	"context"
	"database/sql"
	"strings"

	"petcare-marketplace/internal/domain/apperr"
	"petcare-marketplace/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `
	id, owner_id, name, pet_type, COALESCE(breed, ''), COALESCE(size, ''),
	weight::float8, age, COALESCE(gender, ''),
	COALESCE(description, ''), COALESCE(medical_conditions, ''), COALESCE(medications, ''),
	COALESCE(dietary_restrictions, ''), COALESCE(behavioral_notes, ''),
	COALESCE(emergency_contact, ''), COALESCE(veterinarian_contact, ''),
	is_active, created_at, updated_at`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO pets (
			id, owner_id, name, pet_type, breed, size, weight, age, gender,
			description, medical_conditions, medications, dietary_restrictions,
			behavioral_notes, emergency_contact, veterinarian_contact,
			is_active, updated_at, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
	`, petArgs(p)...)
	return err
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `
		UPDATE pets
		SET
			name = $3,
			pet_type = $4,
			breed = $5,
			size = $6,
			weight = $7,
			age = $8,
			gender = $9,
			description = $10,
			medical_conditions = $11,
			medications = $12,
			dietary_restrictions = $13,
			behavioral_notes = $14,
			emergency_contact = $15,
			veterinarian_contact = $16,
			is_active = $17,
			updated_at = $18
		WHERE id = $1 AND owner_id = $2
	`, petArgs(p)[:18]...)
	if err != nil {
		return err
	}
	return mustAffect(res, "Pet not found")
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, apperr.NotFound("Pet not found")
	}

	row := conn(ctx, r.db).QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id)
	p, err := scanPet(row)
	if err != nil {
		return pets.Pet{}, notFoundIfNoRows(err, "Pet not found")
	}
	return p, nil
}

func (r *PetsRepo) ListActiveByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, nil
	}

	rows, err := conn(ctx, r.db).QueryContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE owner_id = $1 AND is_active
		ORDER BY created_at DESC, id
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPet(s scanner) (pets.Pet, error) {
	var p pets.Pet
	var petType, size, gender string
	var weight sql.NullFloat64
	var age sql.NullInt64
	if err := s.Scan(
		&p.ID, &p.OwnerID, &p.Name, &petType, &p.Breed, &size,
		&weight, &age, &gender,
		&p.Description, &p.MedicalConditions, &p.Medications,
		&p.DietaryRestrictions, &p.BehavioralNotes,
		&p.EmergencyContact, &p.VeterinarianContact,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return pets.Pet{}, err
	}
	p.PetType = pets.PetType(petType)
	p.Size = pets.Size(size)
	p.Gender = pets.Gender(gender)
	p.Weight = floatPtr(weight)
	if age.Valid {
		v := int(age.Int64)
		p.Age = &v
	}
	return p, nil
}

// petArgs deja created_at al final para que Update lo pueda omitir.
func petArgs(p pets.Pet) []any {
	var age sql.NullInt64
	if p.Age != nil {
		age = sql.NullInt64{Int64: int64(*p.Age), Valid: true}
	}
	return []any{
		p.ID, p.OwnerID, p.Name, string(p.PetType), nullString(p.Breed), nullString(string(p.Size)),
		nullFloat(p.Weight), age, nullString(string(p.Gender)),
		nullString(p.Description), nullString(p.MedicalConditions), nullString(p.Medications),
		nullString(p.DietaryRestrictions), nullString(p.BehavioralNotes),
		nullString(p.EmergencyContact), nullString(p.VeterinarianContact),
		p.IsActive, p.UpdatedAt, p.CreatedAt,
	}
}
