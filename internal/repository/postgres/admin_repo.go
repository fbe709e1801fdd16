package postgres

import (
	"context"

	"go-clubmatch-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type adminRepo struct {
	db *pgxpool.Pool
}

func NewAdminRepository(db *pgxpool.Pool) domain.AdminRepository {
	return &adminRepo{db: db}
}

func (r *adminRepo) ListPendingTeams(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
	          WHERE role = $1 AND is_approved = false ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, domain.RoleTeam)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.IsApproved,
			&u.FullName, &u.Position, &u.DateOfBirth, &u.Nationality,
			&u.ClubName, &u.ContactPhone, &u.LogoURL, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		teams = append(teams, u)
	}
	return teams, rows.Err()
}

func (r *adminRepo) ApproveTeam(ctx context.Context, teamID string) error {
	result, err := r.db.Exec(ctx,
		`UPDATE users SET is_approved = true, updated_at = NOW() WHERE id = $1 AND role = $2`,
		teamID, domain.RoleTeam)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *adminRepo) ListUsers(ctx context.Context, role string, limit, offset int) ([]domain.User, int64, error) {
	query := `SELECT ` + userColumns + ` FROM users
	          WHERE ($1 = '' OR role = $1) ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, role, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.IsApproved,
			&u.FullName, &u.Position, &u.DateOfBirth, &u.Nationality,
			&u.ClubName, &u.ContactPhone, &u.LogoURL, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}

	var total int64
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE ($1 = '' OR role = $1)`, role).Scan(&total); err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *adminRepo) SetUserActive(ctx context.Context, userID string, active bool) error {
	result, err := r.db.Exec(ctx,
		`UPDATE users SET is_active = $2, updated_at = NOW() WHERE id = $1`, userID, active)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteUser removes a non-admin user. The role guard lives in the query so
// an admin row can never be deleted even by a buggy caller.
func (r *adminRepo) DeleteUser(ctx context.Context, userID string) error {
	result, err := r.db.Exec(ctx,
		`DELETE FROM users WHERE id = $1 AND role <> $2`, userID, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *adminRepo) RevenueStats(ctx context.Context) (*domain.RevenueStats, error) {
	stats := &domain.RevenueStats{}

	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(price), 0) FROM memberships WHERE status IN ($1, $2)`,
		domain.MembershipStatusActive, domain.MembershipStatusExpired,
	).Scan(&stats.MembershipRevenue)
	if err != nil {
		return nil, err
	}

	// Only settled invoices count as revenue; unpaid ones are outstanding.
	err = r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount) FILTER (WHERE status = $1), 0),
		        COUNT(*) FILTER (WHERE status = $2)
		 FROM invoices`,
		domain.InvoiceStatusPaid, domain.InvoiceStatusUnpaid,
	).Scan(&stats.PlacementRevenue, &stats.UnpaidInvoices)
	if err != nil {
		return nil, err
	}
	stats.TotalRevenue = stats.MembershipRevenue.Add(stats.PlacementRevenue)

	return stats, nil
}

func (r *adminRepo) PlatformStats(ctx context.Context) (*domain.PlatformStats, error) {
	stats := &domain.PlatformStats{}
	query := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE role = 'candidate'),
			(SELECT COUNT(*) FROM users WHERE role = 'team'),
			(SELECT COUNT(*) FROM users WHERE role = 'team' AND is_approved = false),
			(SELECT COUNT(*) FROM memberships WHERE status = 'active'),
			(SELECT COUNT(*) FROM vacancies WHERE status = 'active'),
			(SELECT COUNT(*) FROM applications),
			(SELECT COUNT(*) FROM placements)`
	err := r.db.QueryRow(ctx, query).Scan(
		&stats.TotalCandidates, &stats.TotalTeams, &stats.PendingTeams,
		&stats.ActiveMemberships, &stats.ActiveVacancies,
		&stats.TotalApplications, &stats.TotalPlacements,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
