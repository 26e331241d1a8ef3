package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/incident_reporting_service/internal/models"
	"github.com/shenikar/incident_reporting_service/internal/service"
)

const contactUniqueConstraint = "uq_incidents_contact_information"

const incidentColumns = `id, incident_type, description, location, date_time, severity_level, contact_information`

type IncidentRepository struct {
	db       *pgxpool.Pool
	timeout  time.Duration
	maxLimit int
}

func NewIncidentRepository(db *pgxpool.Pool, timeout time.Duration, maxLimit int) service.IncidentRepository {
	return &IncidentRepository{
		db:       db,
		timeout:  timeout,
		maxLimit: maxLimit,
	}
}

// Create создает новую запись об инциденте в бд
func (r *IncidentRepository) Create(ctx context.Context, fields models.IncidentFields) (*models.Incident, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO incidents (incident_type, description, location, date_time, severity_level, contact_information)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + incidentColumns + `;
	`
	var incident *models.Incident
	err := pgx.BeginTxFunc(ctx, r.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		var err error
		incident, err = scanIncident(tx.QueryRow(ctx, query,
			fields.IncidentType,
			fields.Description,
			fields.Location,
			fields.DateTime,
			fields.SeverityLevel,
			fields.ContactInformation,
		))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create incident: %w", mapWriteError(err))
	}
	return incident, nil
}

// GetByID возвращает инцидент по его id
func (r *IncidentRepository) GetByID(ctx context.Context, id int64) (*models.Incident, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE id = $1;`
	incident, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

// List возвращает инциденты по возрастанию id
func (r *IncidentRepository) List(ctx context.Context, offset, limit int) ([]*models.Incident, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}
	if limit > r.maxLimit {
		limit = r.maxLimit
	}

	query := `SELECT ` + incidentColumns + ` FROM incidents ORDER BY id ASC LIMIT $1 OFFSET $2;`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}

// Update применяет только заданные поля патча
func (r *IncidentRepository) Update(ctx context.Context, id int64, patch models.IncidentPatch) (*models.Incident, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE incidents SET
			incident_type = COALESCE($2, incident_type),
			description = COALESCE($3, description),
			location = COALESCE($4, location),
			date_time = COALESCE($5, date_time),
			severity_level = COALESCE($6, severity_level),
			contact_information = CASE WHEN $7::boolean THEN NULLIF($8::varchar, '') ELSE contact_information END
		WHERE id = $1
		RETURNING ` + incidentColumns + `;
	`
	var contact string
	if patch.ContactInformation != nil {
		contact = *patch.ContactInformation
	}

	var incident *models.Incident
	err := pgx.BeginTxFunc(ctx, r.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		var err error
		incident, err = scanIncident(tx.QueryRow(ctx, query,
			id,
			patch.IncidentType,
			patch.Description,
			patch.Location,
			patch.DateTime,
			patch.SeverityLevel,
			patch.ContactInformation != nil,
			contact,
		))
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %d not found for update: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update incident: %w", mapWriteError(err))
	}
	return incident, nil
}

// Delete безвозвратно удаляет инцидент
func (r *IncidentRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var affected int64
	err := pgx.BeginTxFunc(ctx, r.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		cmdTag, err := tx.Exec(ctx, `DELETE FROM incidents WHERE id = $1;`, id)
		if err != nil {
			return err
		}
		affected = cmdTag.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete incident: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("incident with id %d not found for delete: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *IncidentRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// mapWriteError превращает нарушение уникальности контакта в ErrDuplicateContact
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) &&
		pgErr.Code == pgerrcode.UniqueViolation &&
		pgErr.ConstraintName == contactUniqueConstraint {
		return models.ErrDuplicateContact
	}
	return err
}

func scanIncident(row pgx.Row) (*models.Incident, error) {
	incident := &models.Incident{}
	err := row.Scan(
		&incident.ID,
		&incident.IncidentType,
		&incident.Description,
		&incident.Location,
		&incident.DateTime,
		&incident.SeverityLevel,
		&incident.ContactInformation,
	)
	if err != nil {
		return nil, err
	}
	if incident.DateTime != nil {
		utc := incident.DateTime.UTC()
		incident.DateTime = &utc
	}
	return incident, nil
}
