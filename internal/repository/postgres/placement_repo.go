package postgres

import (
	"context"
	"errors"
	"time"

	"go-clubmatch-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type placementRepo struct {
	db *pgxpool.Pool
}

func NewPlacementRepository(db *pgxpool.Pool) domain.PlacementRepository {
	return &placementRepo{db: db}
}

// CreateWithInvoice inserts the placement and its invoice atomically. The
// unique index on (candidate_id, vacancy_id) turns a duplicate report into
// ErrDuplicatePlacement instead of a second invoice.
func (r *placementRepo) CreateWithInvoice(ctx context.Context, p *domain.Placement, inv *domain.Invoice) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO placements (candidate_id, team_id, vacancy_id, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		p.CandidateID, p.TeamID, p.VacancyID, p.Status, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicatePlacement
		}
		return err
	}

	inv.PlacementID = p.ID
	err = tx.QueryRow(ctx,
		`INSERT INTO invoices (placement_id, team_id, amount, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		inv.PlacementID, inv.TeamID, inv.Amount, inv.Status, inv.CreatedAt, inv.UpdatedAt,
	).Scan(&inv.ID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *placementRepo) GetByID(ctx context.Context, id int64) (*domain.Placement, error) {
	var p domain.Placement
	err := r.db.QueryRow(ctx,
		`SELECT id, candidate_id, team_id, vacancy_id, status, created_at, updated_at
		 FROM placements WHERE id = $1`, id,
	).Scan(&p.ID, &p.CandidateID, &p.TeamID, &p.VacancyID, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *placementRepo) ListByTeam(ctx context.Context, teamID string) ([]domain.Placement, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, candidate_id, team_id, vacancy_id, status, created_at, updated_at
		 FROM placements WHERE team_id = $1 ORDER BY created_at DESC`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var placements []domain.Placement
	for rows.Next() {
		var p domain.Placement
		if err := rows.Scan(&p.ID, &p.CandidateID, &p.TeamID, &p.VacancyID, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		placements = append(placements, p)
	}
	return placements, rows.Err()
}

func (r *placementRepo) GetInvoice(ctx context.Context, invoiceID int64) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.QueryRow(ctx,
		`SELECT id, placement_id, team_id, amount, status, paid_at, created_at, updated_at
		 FROM invoices WHERE id = $1`, invoiceID,
	).Scan(&inv.ID, &inv.PlacementID, &inv.TeamID, &inv.Amount, &inv.Status, &inv.PaidAt, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *placementRepo) ListInvoicesByTeam(ctx context.Context, teamID string) ([]domain.Invoice, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, placement_id, team_id, amount, status, paid_at, created_at, updated_at
		 FROM invoices WHERE team_id = $1 ORDER BY created_at DESC`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		var inv domain.Invoice
		if err := rows.Scan(&inv.ID, &inv.PlacementID, &inv.TeamID, &inv.Amount, &inv.Status, &inv.PaidAt, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// MarkInvoicePaid transitions invoice -> paid and placement -> confirmed in
// one transaction. The locked read makes the check-then-set atomic; a repeat
// call finds the invoice already paid and commits without changes.
func (r *placementRepo) MarkInvoicePaid(ctx context.Context, invoiceID int64, paidAt time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var placementID int64
	var status string
	err = tx.QueryRow(ctx,
		`SELECT placement_id, status FROM invoices WHERE id = $1 FOR UPDATE`, invoiceID,
	).Scan(&placementID, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	switch status {
	case domain.InvoiceStatusPaid:
		// Idempotent: already settled.
		return tx.Commit(ctx)
	case domain.InvoiceStatusVoid:
		return domain.ErrNotFound
	}

	_, err = tx.Exec(ctx,
		`UPDATE invoices SET status = $2, paid_at = $3, updated_at = NOW() WHERE id = $1`,
		invoiceID, domain.InvoiceStatusPaid, paidAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`UPDATE placements SET status = $2, updated_at = NOW() WHERE id = $1`,
		placementID, domain.PlacementStatusConfirmed)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// VoidInvoice is the admin override: only unpaid invoices can be voided.
func (r *placementRepo) VoidInvoice(ctx context.Context, invoiceID int64) error {
	result, err := r.db.Exec(ctx,
		`UPDATE invoices SET status = $2, updated_at = NOW() WHERE id = $1 AND status = $3`,
		invoiceID, domain.InvoiceStatusVoid, domain.InvoiceStatusUnpaid)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *placementRepo) CountUnpaidByTeam(ctx context.Context, teamID string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM invoices WHERE team_id = $1 AND status = $2`,
		teamID, domain.InvoiceStatusUnpaid,
	).Scan(&count)
	return count, err
}
