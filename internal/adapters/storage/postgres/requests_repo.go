package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"petcare-marketplace/internal/domain/apperr"
	"petcare-marketplace/internal/domain/providers"
	"petcare-marketplace/internal/domain/requests"
)

type RequestsRepo struct {
	db *sql.DB
}

func NewRequestsRepo(db *sql.DB) *RequestsRepo {
	return &RequestsRepo{db: db}
}

const requestColumns = `
	sr.id, sr.owner_id, sr.provider_id, sp.profile_id, sr.pet_id,
	sr.service_type, sr.start_date::text, sr.end_date::text, sr.start_time, sr.end_time,
	sr.hourly_rate::float8, sr.total_hours, sr.total_amount::float8,
	COALESCE(sr.special_instructions, ''), COALESCE(sr.emergency_contact, ''),
	sr.status, sr.requested_at, sr.accepted_at, sr.started_at, sr.completed_at, sr.cancelled_at,
	COALESCE(sr.provider_notes, ''), COALESCE(sr.owner_notes, ''),
	sr.created_at, sr.updated_at`

const requestFrom = `
	FROM service_requests sr
	JOIN service_providers sp ON sp.id = sr.provider_id`

func (r *RequestsRepo) Create(ctx context.Context, req requests.ServiceRequest) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO service_requests (
			id, owner_id, provider_id, pet_id,
			service_type, start_date, end_date, start_time, end_time,
			hourly_rate, total_hours, total_amount,
			special_instructions, emergency_contact,
			status, requested_at, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
	`,
		req.ID, req.OwnerID, req.ProviderID, req.PetID,
		string(req.ServiceType), req.StartDate, req.EndDate, req.StartTime, req.EndTime,
		nullFloat(req.HourlyRate), req.TotalHours, req.TotalAmount,
		nullString(req.SpecialInstructions), nullString(req.EmergencyContact),
		string(req.Status), req.RequestedAt, req.CreatedAt, req.UpdatedAt,
	)
	return err
}

func (r *RequestsRepo) GetByID(ctx context.Context, id string) (requests.ServiceRequest, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return requests.ServiceRequest{}, apperr.NotFound("Service request not found")
	}

	row := conn(ctx, r.db).QueryRowContext(ctx, `SELECT `+requestColumns+requestFrom+` WHERE sr.id = $1`, id)
	req, err := scanRequest(row)
	if err != nil {
		return requests.ServiceRequest{}, notFoundIfNoRows(err, "Service request not found")
	}
	return req, nil
}

func (r *RequestsRepo) ListForUser(ctx context.Context, userID string, f requests.ListFilter) ([]requests.ServiceRequest, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + requestColumns + requestFrom)
	switch f.Role {
	case "owner":
		sb.WriteString(" WHERE sr.owner_id = $1")
	case "provider":
		sb.WriteString(" WHERE sp.profile_id = $1")
	default:
		sb.WriteString(" WHERE (sr.owner_id = $1 OR sp.profile_id = $1)")
	}

	args := []any{userID}
	if f.Status != "" {
		sb.WriteString(fmt.Sprintf(" AND sr.status = $%d", len(args)+1))
		args = append(args, string(f.Status))
	}
	sb.WriteString(" ORDER BY sr.created_at DESC, sr.id")

	rows, err := conn(ctx, r.db).QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]requests.ServiceRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// UpdateStatus es un compare-and-set sobre status: si otro request ya lo movió, no afecta filas.
func (r *RequestsRepo) UpdateStatus(ctx context.Context, req requests.ServiceRequest, from requests.Status) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `
		UPDATE service_requests
		SET
			status = $3,
			accepted_at = $4,
			started_at = $5,
			completed_at = $6,
			cancelled_at = $7,
			provider_notes = $8,
			owner_notes = $9,
			updated_at = $10
		WHERE id = $1 AND status = $2
	`,
		req.ID, string(from), string(req.Status),
		nullTime(req.AcceptedAt), nullTime(req.StartedAt), nullTime(req.CompletedAt), nullTime(req.CancelledAt),
		nullString(req.ProviderNotes), nullString(req.OwnerNotes),
		req.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.InvalidState("cannot transition from %s to %s", from, req.Status)
	}
	return nil
}

func scanRequest(s scanner) (requests.ServiceRequest, error) {
	var req requests.ServiceRequest
	var serviceType, status string
	var rate sql.NullFloat64
	var accepted, started, completed, cancelled sql.NullTime
	if err := s.Scan(
		&req.ID, &req.OwnerID, &req.ProviderID, &req.ProviderUserID, &req.PetID,
		&serviceType, &req.StartDate, &req.EndDate, &req.StartTime, &req.EndTime,
		&rate, &req.TotalHours, &req.TotalAmount,
		&req.SpecialInstructions, &req.EmergencyContact,
		&status, &req.RequestedAt, &accepted, &started, &completed, &cancelled,
		&req.ProviderNotes, &req.OwnerNotes,
		&req.CreatedAt, &req.UpdatedAt,
	); err != nil {
		return requests.ServiceRequest{}, err
	}
	req.ServiceType = providers.ServiceType(serviceType)
	req.Status = requests.Status(status)
	req.HourlyRate = floatPtr(rate)
	req.AcceptedAt = timePtr(accepted)
	req.StartedAt = timePtr(started)
	req.CompletedAt = timePtr(completed)
	req.CancelledAt = timePtr(cancelled)
	return req, nil
}
