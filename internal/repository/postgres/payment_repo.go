package postgres

import (
	"context"
	"errors"
	"go-clubmatch-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type paymentRepo struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) domain.PaymentRepository {
	return &paymentRepo{db: db}
}

// SaveIntent records a created intent for audit. The gateway stays the
// source of truth for charge status.
func (r *paymentRepo) SaveIntent(ctx context.Context, intent *domain.PaymentIntent) error {
	query := `INSERT INTO payment_intents (id, candidate_id, amount, currency, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status`
	_, err := r.db.Exec(ctx, query,
		intent.ID, intent.CandidateID, intent.Amount, intent.Currency, intent.Status, intent.CreatedAt,
	)
	return err
}

func (r *paymentRepo) UpdateIntentStatus(ctx context.Context, intentID, status string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE payment_intents SET status = $2 WHERE id = $1`, intentID, status)
	return err
}

// ClaimEvent claims a webhook event id for processing. The first delivery
// inserts the row. A redelivery re-claims it only when the previous attempt
// never finished or finished with an error, so transient failures get
// another run while successfully processed events stay deduplicated.
func (r *paymentRepo) ClaimEvent(ctx context.Context, event *domain.WebhookEvent) (bool, error) {
	query := `INSERT INTO webhook_events (event_id, event_type, payload, created_at)
	          VALUES ($1, $2, $3, NOW())
	          ON CONFLICT (event_id) DO UPDATE
	              SET process_err = NULL
	              WHERE webhook_events.processed_at IS NULL OR webhook_events.process_err IS NOT NULL
	          RETURNING id`
	err := r.db.QueryRow(ctx, query, event.EventID, event.EventType, event.Payload).Scan(&event.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *paymentRepo) MarkEventProcessed(ctx context.Context, eventID string, processErr *string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE webhook_events SET processed_at = NOW(), process_err = $2 WHERE event_id = $1`,
		eventID, processErr)
	return err
}
