package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-clubmatch-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type vacancyRepo struct {
	db *pgxpool.Pool
}

func NewVacancyRepository(db *pgxpool.Pool) domain.VacancyRepository {
	return &vacancyRepo{db: db}
}

const vacancyColumns = `id, team_id, title, description, requirements, position_type,
	experience_level, location, salary_min, salary_max, status, expires_at, created_at, updated_at`

func (r *vacancyRepo) Create(ctx context.Context, v *domain.Vacancy) error {
	query := `INSERT INTO vacancies (team_id, title, description, requirements, position_type,
	              experience_level, location, salary_min, salary_max, status, expires_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	return r.db.QueryRow(ctx, query,
		v.TeamID, v.Title, v.Description, v.Requirements, v.PositionType,
		v.ExperienceLevel, v.Location, v.SalaryMin, v.SalaryMax, v.Status, v.ExpiresAt,
		v.CreatedAt, v.UpdatedAt,
	).Scan(&v.ID)
}

func (r *vacancyRepo) GetByID(ctx context.Context, id int64) (*domain.Vacancy, error) {
	query := `SELECT ` + vacancyColumns + ` FROM vacancies WHERE id = $1`
	var v domain.Vacancy
	err := r.db.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.TeamID, &v.Title, &v.Description, &v.Requirements, &v.PositionType,
		&v.ExperienceLevel, &v.Location, &v.SalaryMin, &v.SalaryMax, &v.Status, &v.ExpiresAt,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// GetByIDWithTeam retrieves a vacancy with club profile details
func (r *vacancyRepo) GetByIDWithTeam(ctx context.Context, id int64) (*domain.VacancyWithTeam, error) {
	query := `
		SELECT
			v.id, v.team_id, v.title, v.description, v.requirements, v.position_type,
			v.experience_level, v.location, v.salary_min, v.salary_max, v.status, v.expires_at,
			v.created_at, v.updated_at,
			COALESCE(u.club_name, 'Unknown Club') AS club_name,
			u.logo_url
		FROM vacancies v
		LEFT JOIN users u ON v.team_id = u.id
		WHERE v.id = $1`

	var v domain.VacancyWithTeam
	err := r.db.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.TeamID, &v.Title, &v.Description, &v.Requirements, &v.PositionType,
		&v.ExperienceLevel, &v.Location, &v.SalaryMin, &v.SalaryMax, &v.Status, &v.ExpiresAt,
		&v.CreatedAt, &v.UpdatedAt,
		&v.ClubName, &v.ClubLogo,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// FetchActive retrieves only active vacancies with club data, applying the
// optional filter. The 'active' filter is hardcoded server-side.
func (r *vacancyRepo) FetchActive(ctx context.Context, filter domain.VacancyFilter, limit, offset int) ([]domain.VacancyWithTeam, int64, error) {
	where := []string{"v.status = 'active'"}
	args := []interface{}{}
	idx := 1

	addFilter := func(clause string, value interface{}) {
		where = append(where, fmt.Sprintf(clause, idx))
		args = append(args, value)
		idx++
	}

	if filter.Location != "" {
		addFilter("v.location ILIKE '%%' || $%d || '%%'", filter.Location)
	}
	if filter.PositionType != "" {
		addFilter("v.position_type = $%d", filter.PositionType)
	}
	if filter.ExperienceLevel != "" {
		addFilter("v.experience_level = $%d", filter.ExperienceLevel)
	}
	if filter.SalaryMin > 0 {
		addFilter("v.salary_max >= $%d", filter.SalaryMin)
	}
	if filter.SalaryMax > 0 {
		addFilter("v.salary_min <= $%d", filter.SalaryMax)
	}

	whereClause := strings.Join(where, " AND ")

	query := fmt.Sprintf(`
		SELECT
			v.id, v.team_id, v.title, v.description, v.requirements, v.position_type,
			v.experience_level, v.location, v.salary_min, v.salary_max, v.status, v.expires_at,
			v.created_at, v.updated_at,
			COALESCE(u.club_name, 'Unknown Club') AS club_name,
			u.logo_url
		FROM vacancies v
		LEFT JOIN users u ON v.team_id = u.id
		WHERE %s
		ORDER BY v.created_at DESC
		LIMIT $%d OFFSET $%d`, whereClause, idx, idx+1)

	rows, err := r.db.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var vacancies []domain.VacancyWithTeam
	for rows.Next() {
		var v domain.VacancyWithTeam
		if err := rows.Scan(
			&v.ID, &v.TeamID, &v.Title, &v.Description, &v.Requirements, &v.PositionType,
			&v.ExperienceLevel, &v.Location, &v.SalaryMin, &v.SalaryMax, &v.Status, &v.ExpiresAt,
			&v.CreatedAt, &v.UpdatedAt,
			&v.ClubName, &v.ClubLogo,
		); err != nil {
			return nil, 0, err
		}
		vacancies = append(vacancies, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM vacancies v WHERE %s`, whereClause)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return vacancies, total, nil
}

// FetchByTeam retrieves vacancies for a specific team (club's own vacancies)
func (r *vacancyRepo) FetchByTeam(ctx context.Context, teamID string, limit, offset int) ([]domain.Vacancy, int64, error) {
	query := `SELECT ` + vacancyColumns + `
	          FROM vacancies WHERE team_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, teamID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var vacancies []domain.Vacancy
	for rows.Next() {
		var v domain.Vacancy
		if err := rows.Scan(
			&v.ID, &v.TeamID, &v.Title, &v.Description, &v.Requirements, &v.PositionType,
			&v.ExperienceLevel, &v.Location, &v.SalaryMin, &v.SalaryMax, &v.Status, &v.ExpiresAt,
			&v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		vacancies = append(vacancies, v)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM vacancies WHERE team_id = $1`, teamID).Scan(&total); err != nil {
		return nil, 0, err
	}

	return vacancies, total, nil
}

func (r *vacancyRepo) Update(ctx context.Context, v *domain.Vacancy) error {
	query := `UPDATE vacancies SET
		title = $2,
		description = $3,
		requirements = $4,
		position_type = $5,
		experience_level = $6,
		location = $7,
		salary_min = $8,
		salary_max = $9,
		expires_at = $10,
		updated_at = $11
	WHERE id = $1`
	result, err := r.db.Exec(ctx, query,
		v.ID, v.Title, v.Description, v.Requirements, v.PositionType,
		v.ExperienceLevel, v.Location, v.SalaryMin, v.SalaryMax, v.ExpiresAt,
		v.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *vacancyRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	result, err := r.db.Exec(ctx,
		`UPDATE vacancies SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *vacancyRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM vacancies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
