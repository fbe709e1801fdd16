package postgres

import (
	"context"
	"errors"

	"go-clubmatch-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type applicationRepo struct {
	db *pgxpool.Pool
}

func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	query := `INSERT INTO applications (vacancy_id, candidate_id, cover_letter, notes, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, NOW(), NOW()) RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		app.VacancyID, app.CandidateID, app.CoverLetter, app.Notes, app.Status,
	).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
}

func (r *applicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	query := `SELECT id, vacancy_id, candidate_id, cover_letter, notes, status, created_at, updated_at
	          FROM applications WHERE id = $1`
	var app domain.Application
	err := r.db.QueryRow(ctx, query, id).Scan(
		&app.ID, &app.VacancyID, &app.CandidateID, &app.CoverLetter, &app.Notes, &app.Status,
		&app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

// GetByVacancyID lists applications with candidate names for team review.
func (r *applicationRepo) GetByVacancyID(ctx context.Context, vacancyID int64) ([]domain.Application, error) {
	query := `
		SELECT a.id, a.vacancy_id, a.candidate_id, a.cover_letter, a.notes, a.status,
		       a.created_at, a.updated_at, u.full_name
		FROM applications a
		LEFT JOIN users u ON a.candidate_id = u.id
		WHERE a.vacancy_id = $1
		ORDER BY a.created_at DESC`
	rows, err := r.db.Query(ctx, query, vacancyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		var app domain.Application
		if err := rows.Scan(
			&app.ID, &app.VacancyID, &app.CandidateID, &app.CoverLetter, &app.Notes, &app.Status,
			&app.CreatedAt, &app.UpdatedAt, &app.CandidateName,
		); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

// GetByCandidateID lists a candidate's applications with vacancy titles.
func (r *applicationRepo) GetByCandidateID(ctx context.Context, candidateID string) ([]domain.Application, error) {
	query := `
		SELECT a.id, a.vacancy_id, a.candidate_id, a.cover_letter, a.notes, a.status,
		       a.created_at, a.updated_at, v.title
		FROM applications a
		LEFT JOIN vacancies v ON a.vacancy_id = v.id
		WHERE a.candidate_id = $1
		ORDER BY a.created_at DESC`
	rows, err := r.db.Query(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		var app domain.Application
		if err := rows.Scan(
			&app.ID, &app.VacancyID, &app.CandidateID, &app.CoverLetter, &app.Notes, &app.Status,
			&app.CreatedAt, &app.UpdatedAt, &app.VacancyTitle,
		); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

func (r *applicationRepo) CheckExists(ctx context.Context, vacancyID int64, candidateID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE vacancy_id = $1 AND candidate_id = $2 AND status <> $3)`,
		vacancyID, candidateID, domain.ApplicationStatusWithdrawn,
	).Scan(&exists)
	return exists, err
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, id int64, status string, notes *string) error {
	result, err := r.db.Exec(ctx,
		`UPDATE applications SET status = $2, notes = COALESCE($3, notes), updated_at = NOW() WHERE id = $1`,
		id, status, notes)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
