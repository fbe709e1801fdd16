package usecase

import (
	"context"
	"errors"

	"go-clubmatch-backend/internal/domain"
	"go-clubmatch-backend/pkg/apperror"
	"go-clubmatch-backend/pkg/audit"

	"go.uber.org/zap"
)

type adminUsecase struct {
	adminRepo domain.AdminRepository
	auditLog  *audit.Logger
}

func NewAdminUsecase(adminRepo domain.AdminRepository, auditLog *audit.Logger) domain.AdminUsecase {
	return &adminUsecase{
		adminRepo: adminRepo,
		auditLog:  auditLog,
	}
}

func (u *adminUsecase) ListPendingTeams(ctx context.Context) ([]domain.User, error) {
	return u.adminRepo.ListPendingTeams(ctx)
}

func (u *adminUsecase) ApproveTeam(ctx context.Context, teamID string) error {
	if err := u.adminRepo.ApproveTeam(ctx, teamID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Team not found")
		}
		return apperror.Internal(err)
	}
	u.auditLog.Event(audit.EventTeamApproved, zap.String("team_id", teamID))
	return nil
}

func (u *adminUsecase) ListUsers(ctx context.Context, role string, page, pageSize int) ([]domain.User, int64, error) {
	limit, offset := paginate(page, pageSize)
	return u.adminRepo.ListUsers(ctx, role, limit, offset)
}

func (u *adminUsecase) SetUserActive(ctx context.Context, userID string, active bool) error {
	if err := u.adminRepo.SetUserActive(ctx, userID, active); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("User not found")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (u *adminUsecase) DeleteUser(ctx context.Context, userID string) error {
	if err := u.adminRepo.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Also hit when the target is an admin: the repository refuses
			// to delete admin rows.
			return apperror.NotFound("User not found or cannot be deleted")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (u *adminUsecase) RevenueStats(ctx context.Context) (*domain.RevenueStats, error) {
	return u.adminRepo.RevenueStats(ctx)
}

func (u *adminUsecase) PlatformStats(ctx context.Context) (*domain.PlatformStats, error) {
	return u.adminRepo.PlatformStats(ctx)
}
