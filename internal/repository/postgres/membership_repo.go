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

type membershipRepo struct {
	db *pgxpool.Pool
}

func NewMembershipRepository(db *pgxpool.Pool) domain.MembershipRepository {
	return &membershipRepo{db: db}
}

const membershipColumns = `id, candidate_id, plan_type, price, status,
	start_date, renewal_date, payment_intent_id, created_at, updated_at`

func scanMembership(row pgx.Row) (*domain.Membership, error) {
	var m domain.Membership
	err := row.Scan(
		&m.ID, &m.CandidateID, &m.PlanType, &m.Price, &m.Status,
		&m.StartDate, &m.RenewalDate, &m.PaymentIntentID, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *membershipRepo) Create(ctx context.Context, m *domain.Membership) error {
	query := `INSERT INTO memberships (candidate_id, plan_type, price, status, start_date, renewal_date, payment_intent_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	return r.db.QueryRow(ctx, query,
		m.CandidateID, m.PlanType, m.Price, m.Status,
		m.StartDate, m.RenewalDate, m.PaymentIntentID, m.CreatedAt, m.UpdatedAt,
	).Scan(&m.ID)
}

func (r *membershipRepo) GetByID(ctx context.Context, id int64) (*domain.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM memberships WHERE id = $1`
	return scanMembership(r.db.QueryRow(ctx, query, id))
}

func (r *membershipRepo) GetActiveByCandidate(ctx context.Context, candidateID string) (*domain.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM memberships
	          WHERE candidate_id = $1 AND status = $2
	          ORDER BY created_at DESC LIMIT 1`
	return scanMembership(r.db.QueryRow(ctx, query, candidateID, domain.MembershipStatusActive))
}

func (r *membershipRepo) GetByIntentID(ctx context.Context, intentID string) (*domain.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM memberships WHERE payment_intent_id = $1`
	return scanMembership(r.db.QueryRow(ctx, query, intentID))
}

func (r *membershipRepo) HistoryByCandidate(ctx context.Context, candidateID string) ([]domain.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM memberships
	          WHERE candidate_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []domain.Membership
	for rows.Next() {
		var m domain.Membership
		if err := rows.Scan(
			&m.ID, &m.CandidateID, &m.PlanType, &m.Price, &m.Status,
			&m.StartDate, &m.RenewalDate, &m.PaymentIntentID, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		history = append(history, m)
	}
	return history, rows.Err()
}

// activeConflict maps a memberships_one_active unique violation to the
// domain error callers branch on. Any other error passes through.
func activeConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrAlreadyActive
	}
	return err
}

// Activate flips a pending membership to active inside one transaction. The
// memberships_one_active partial unique index enforces the one-active-per-
// candidate invariant: a concurrent activation for the same candidate fails
// the UPDATE with a unique violation, reported as ErrAlreadyActive.
func (r *membershipRepo) Activate(ctx context.Context, id int64, startDate, renewalDate time.Time) error {
	return r.activate(ctx, id, startDate, renewalDate, false)
}

// ActivateReplacing activates a pending membership and cancels whatever
// membership the candidate currently holds, in the same transaction. Used
// for upgrades: the replacement takes over only once its charge succeeded.
func (r *membershipRepo) ActivateReplacing(ctx context.Context, id int64, startDate, renewalDate time.Time) error {
	return r.activate(ctx, id, startDate, renewalDate, true)
}

func (r *membershipRepo) activate(ctx context.Context, id int64, startDate, renewalDate time.Time, cancelCurrent bool) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var candidateID string
	var status string
	err = tx.QueryRow(ctx,
		`SELECT candidate_id, status FROM memberships WHERE id = $1 FOR UPDATE`, id,
	).Scan(&candidateID, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if status == domain.MembershipStatusActive {
		// Already activated by an earlier delivery: idempotent no-op.
		return tx.Commit(ctx)
	}
	if status != domain.MembershipStatusPending {
		return domain.ErrNotFound
	}

	if cancelCurrent {
		_, err = tx.Exec(ctx,
			`UPDATE memberships SET status = $1, updated_at = NOW()
			 WHERE candidate_id = $2 AND status = $3 AND id <> $4`,
			domain.MembershipStatusCancelled, candidateID, domain.MembershipStatusActive, id,
		)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx,
		`UPDATE memberships SET status = $2, start_date = $3, renewal_date = $4, updated_at = NOW() WHERE id = $1`,
		id, domain.MembershipStatusActive, startDate, renewalDate,
	)
	if err != nil {
		return activeConflict(err)
	}

	return tx.Commit(ctx)
}

func (r *membershipRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	result, err := r.db.Exec(ctx,
		`UPDATE memberships SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *membershipRepo) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.Exec(ctx,
		`UPDATE memberships SET status = $1, updated_at = NOW()
		 WHERE status = $2 AND renewal_date < $3`,
		domain.MembershipStatusExpired, domain.MembershipStatusActive, now,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
