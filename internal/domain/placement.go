package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Placement status values
const (
	PlacementStatusPending   = "pending"
	PlacementStatusConfirmed = "confirmed"
)

// Invoice status values. Unpaid -> Paid is terminal; Unpaid -> Void is an
// admin-only override. No reverse transitions.
const (
	InvoiceStatusUnpaid = "unpaid"
	InvoiceStatusPaid   = "paid"
	InvoiceStatusVoid   = "void"
)

// PlacementFee is the fixed fee invoiced to a team for every successful hire.
var PlacementFee = decimal.NewFromInt(50)

// Placement is a reported hire connecting candidate, team and vacancy.
type Placement struct {
	ID          int64     `json:"id"`
	CandidateID string    `json:"candidate_id"`
	TeamID      string    `json:"team_id"`
	VacancyID   int64     `json:"vacancy_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Invoice is the fixed-fee billing record tied 1:1 to a placement.
type Invoice struct {
	ID          int64           `json:"id"`
	PlacementID int64           `json:"placement_id"`
	TeamID      string          `json:"team_id"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type PlacementRepository interface {
	// CreateWithInvoice inserts the placement and its unpaid invoice in one
	// transaction. Returns ErrDuplicatePlacement when a placement for the
	// (candidate, vacancy) pair already exists.
	CreateWithInvoice(ctx context.Context, p *Placement, inv *Invoice) error
	GetByID(ctx context.Context, id int64) (*Placement, error)
	ListByTeam(ctx context.Context, teamID string) ([]Placement, error)
	GetInvoice(ctx context.Context, invoiceID int64) (*Invoice, error)
	ListInvoicesByTeam(ctx context.Context, teamID string) ([]Invoice, error)
	// MarkInvoicePaid transitions invoice -> paid and its placement ->
	// confirmed in one transaction. A second call is a no-op.
	MarkInvoicePaid(ctx context.Context, invoiceID int64, paidAt time.Time) error
	VoidInvoice(ctx context.Context, invoiceID int64) error
	CountUnpaidByTeam(ctx context.Context, teamID string) (int64, error)
}

type PlacementUsecase interface {
	RecordPlacement(ctx context.Context, teamID, candidateID string, vacancyID int64) (*Placement, error)
	MarkInvoicePaid(ctx context.Context, invoiceID int64) error
	VoidInvoice(ctx context.Context, invoiceID int64) error
	CanCreateVacancy(ctx context.Context, teamID string) (bool, error)
	ListTeamInvoices(ctx context.Context, teamID string) ([]Invoice, error)
	ListTeamPlacements(ctx context.Context, teamID string) ([]Placement, error)
}
