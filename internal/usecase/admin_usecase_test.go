package usecase_test

import (
	"context"
	"testing"

	"go-clubmatch-backend/internal/domain"
	"go-clubmatch-backend/internal/usecase"
	"go-clubmatch-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAdminRepo struct {
	mock.Mock
}

func (m *MockAdminRepo) ListPendingTeams(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockAdminRepo) ApproveTeam(ctx context.Context, teamID string) error {
	return m.Called(ctx, teamID).Error(0)
}
func (m *MockAdminRepo) ListUsers(ctx context.Context, role string, limit, offset int) ([]domain.User, int64, error) {
	args := m.Called(ctx, role, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}
func (m *MockAdminRepo) SetUserActive(ctx context.Context, userID string, active bool) error {
	return m.Called(ctx, userID, active).Error(0)
}
func (m *MockAdminRepo) DeleteUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}
func (m *MockAdminRepo) RevenueStats(ctx context.Context) (*domain.RevenueStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RevenueStats), args.Error(1)
}
func (m *MockAdminRepo) PlatformStats(ctx context.Context) (*domain.PlatformStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PlatformStats), args.Error(1)
}

func TestApproveTeam(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown team", func(t *testing.T) {
		adminRepo := new(MockAdminRepo)
		adminRepo.On("ApproveTeam", ctx, "ghost").Return(domain.ErrNotFound)

		uc := usecase.NewAdminUsecase(adminRepo, testAudit())
		err := uc.ApproveTeam(ctx, "ghost")

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 404, appErr.Code)
	})

	t.Run("pending team approved", func(t *testing.T) {
		adminRepo := new(MockAdminRepo)
		adminRepo.On("ApproveTeam", ctx, "team-1").Return(nil)

		uc := usecase.NewAdminUsecase(adminRepo, testAudit())
		assert.NoError(t, uc.ApproveTeam(ctx, "team-1"))
		adminRepo.AssertExpectations(t)
	})
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("admin rows are not deletable", func(t *testing.T) {
		adminRepo := new(MockAdminRepo)
		adminRepo.On("DeleteUser", ctx, "admin-1").Return(domain.ErrNotFound)

		uc := usecase.NewAdminUsecase(adminRepo, testAudit())
		err := uc.DeleteUser(ctx, "admin-1")

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 404, appErr.Code)
	})

	t.Run("regular user deleted", func(t *testing.T) {
		adminRepo := new(MockAdminRepo)
		adminRepo.On("DeleteUser", ctx, "u1").Return(nil)

		uc := usecase.NewAdminUsecase(adminRepo, testAudit())
		assert.NoError(t, uc.DeleteUser(ctx, "u1"))
	})
}

func TestListUsersPagination(t *testing.T) {
	ctx := context.Background()

	adminRepo := new(MockAdminRepo)
	adminRepo.On("ListUsers", ctx, domain.RoleCandidate, 10, 10).
		Return([]domain.User{{ID: "u1"}}, int64(11), nil)

	uc := usecase.NewAdminUsecase(adminRepo, testAudit())
	users, total, err := uc.ListUsers(ctx, domain.RoleCandidate, 2, 10)

	assert.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, int64(11), total)
	adminRepo.AssertExpectations(t)
}
