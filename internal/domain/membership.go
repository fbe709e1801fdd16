package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Membership plan types, ordered by tier
const (
	PlanBasic        = "basic"
	PlanPremium      = "premium"
	PlanProfessional = "professional"
)

// Membership status values
const (
	MembershipStatusPending   = "pending"
	MembershipStatusActive    = "active"
	MembershipStatusExpired   = "expired"
	MembershipStatusCancelled = "cancelled"
)

// MembershipPeriodDays is the billing period for every plan.
const MembershipPeriodDays = 30

// Plan describes a purchasable membership tier.
type Plan struct {
	Type     string          `json:"type"`
	Price    decimal.Decimal `json:"price"`
	Tier     int             `json:"tier"`
	Features []string        `json:"features"`
}

// Plans is the static plan catalog. Tier ordering drives the
// equal-or-higher check on purchase and the strictly-higher check on upgrade.
var Plans = map[string]Plan{
	PlanBasic: {
		Type:     PlanBasic,
		Price:    decimal.NewFromFloat(9.99),
		Tier:     1,
		Features: []string{"Apply to vacancies", "Direct messaging"},
	},
	PlanPremium: {
		Type:     PlanPremium,
		Price:    decimal.NewFromFloat(19.99),
		Tier:     2,
		Features: []string{"Apply to vacancies", "Direct messaging", "Profile highlighted in search"},
	},
	PlanProfessional: {
		Type:     PlanProfessional,
		Price:    decimal.NewFromFloat(29.99),
		Tier:     3,
		Features: []string{"Apply to vacancies", "Direct messaging", "Profile highlighted in search", "Priority support"},
	},
}

type Membership struct {
	ID              int64           `json:"id"`
	CandidateID     string          `json:"candidate_id"`
	PlanType        string          `json:"plan_type"`
	Price           decimal.Decimal `json:"price"`
	Status          string          `json:"status"`
	StartDate       *time.Time      `json:"start_date,omitempty"`
	RenewalDate     *time.Time      `json:"renewal_date,omitempty"`
	PaymentIntentID *string         `json:"payment_intent_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// IsCurrent reports whether the membership is active and not past its renewal
// date. Status alone is not enough: the expiry sweep may not have run yet.
func (m *Membership) IsCurrent(now time.Time) bool {
	return m.Status == MembershipStatusActive && m.RenewalDate != nil && now.Before(*m.RenewalDate)
}

type MembershipRepository interface {
	Create(ctx context.Context, m *Membership) error
	GetByID(ctx context.Context, id int64) (*Membership, error)
	GetActiveByCandidate(ctx context.Context, candidateID string) (*Membership, error)
	GetByIntentID(ctx context.Context, intentID string) (*Membership, error)
	HistoryByCandidate(ctx context.Context, candidateID string) ([]Membership, error)
	// Activate transitions a pending membership to active inside a single
	// transaction. Returns ErrAlreadyActive when another membership is
	// already active for the candidate.
	Activate(ctx context.Context, id int64, startDate, renewalDate time.Time) error
	// ActivateReplacing activates a pending membership and cancels the
	// candidate's current one atomically. Used when an upgrade charge lands.
	ActivateReplacing(ctx context.Context, id int64, startDate, renewalDate time.Time) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	// ExpireDue marks active memberships past their renewal date as expired
	// and returns how many rows changed.
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}

type MembershipUsecase interface {
	CreatePaymentIntent(ctx context.Context, candidateID, planType string) (*PaymentIntent, error)
	ConfirmPayment(ctx context.Context, candidateID, intentID string) (*Membership, error)
	// ActivateByIntent and CancelPendingByIntent are the webhook-driven
	// paths; they trust the verified gateway event instead of a caller.
	ActivateByIntent(ctx context.Context, intentID string) (*Membership, error)
	CancelPendingByIntent(ctx context.Context, intentID string) error
	// Upgrade creates a prorated payment intent for a strictly higher tier.
	// The plan switch happens when the charge succeeds, through the same
	// activation paths as a purchase.
	Upgrade(ctx context.Context, candidateID, newPlan string) (*PaymentIntent, error)
	IsActive(ctx context.Context, candidateID string) (bool, error)
	MyMembership(ctx context.Context, candidateID string) (*Membership, error)
	History(ctx context.Context, candidateID string) ([]Membership, error)
	ListPlans(ctx context.Context) []Plan
	ExpireDue(ctx context.Context) (int64, error)
}
