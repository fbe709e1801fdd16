package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// RevenueStats aggregates platform earnings for the admin dashboard.
type RevenueStats struct {
	MembershipRevenue decimal.Decimal `json:"membership_revenue"`
	PlacementRevenue  decimal.Decimal `json:"placement_revenue"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	UnpaidInvoices    int64           `json:"unpaid_invoices"`
}

// PlatformStats aggregates entity counts for the admin dashboard.
type PlatformStats struct {
	TotalCandidates   int64 `json:"total_candidates"`
	TotalTeams        int64 `json:"total_teams"`
	PendingTeams      int64 `json:"pending_teams"`
	ActiveMemberships int64 `json:"active_memberships"`
	ActiveVacancies   int64 `json:"active_vacancies"`
	TotalApplications int64 `json:"total_applications"`
	TotalPlacements   int64 `json:"total_placements"`
}

type AdminRepository interface {
	ListPendingTeams(ctx context.Context) ([]User, error)
	ApproveTeam(ctx context.Context, teamID string) error
	ListUsers(ctx context.Context, role string, limit, offset int) ([]User, int64, error)
	SetUserActive(ctx context.Context, userID string, active bool) error
	DeleteUser(ctx context.Context, userID string) error
	RevenueStats(ctx context.Context) (*RevenueStats, error)
	PlatformStats(ctx context.Context) (*PlatformStats, error)
}

type AdminUsecase interface {
	ListPendingTeams(ctx context.Context) ([]User, error)
	ApproveTeam(ctx context.Context, teamID string) error
	ListUsers(ctx context.Context, role string, page, pageSize int) ([]User, int64, error)
	SetUserActive(ctx context.Context, userID string, active bool) error
	DeleteUser(ctx context.Context, userID string) error
	RevenueStats(ctx context.Context) (*RevenueStats, error)
	PlatformStats(ctx context.Context) (*PlatformStats, error)
}
