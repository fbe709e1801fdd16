package postgres

import (
	"context"
	"errors"
	"go-clubmatch-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, email, password_hash, role, is_active, is_approved,
	full_name, position, date_of_birth, nationality,
	club_name, contact_phone, logo_url, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.IsApproved,
		&u.FullName, &u.Position, &u.DateOfBirth, &u.Nationality,
		&u.ClubName, &u.ContactPhone, &u.LogoURL, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, email, password_hash, role, is_active, is_approved,
	              full_name, position, date_of_birth, nationality, club_name, contact_phone, logo_url,
	              created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Role, user.IsActive, user.IsApproved,
		user.FullName, user.Position, user.DateOfBirth, user.Nationality,
		user.ClubName, user.ContactPhone, user.LogoURL,
		user.CreatedAt, user.UpdatedAt,
	)
	return err
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET
		email = $2,
		role = $3,
		is_active = $4,
		is_approved = $5,
		full_name = $6,
		position = $7,
		date_of_birth = $8,
		nationality = $9,
		club_name = $10,
		contact_phone = $11,
		updated_at = $12
	WHERE id = $1`
	result, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.Role, user.IsActive, user.IsApproved,
		user.FullName, user.Position, user.DateOfBirth, user.Nationality,
		user.ClubName, user.ContactPhone, user.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepo) UpdateLogoURL(ctx context.Context, id string, logoURL string) error {
	result, err := r.db.Exec(ctx, `UPDATE users SET logo_url = $2, updated_at = NOW() WHERE id = $1`, id, logoURL)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
