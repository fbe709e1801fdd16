package usecase_test

import (
	"context"
	"errors"
	"testing"

	"go-clubmatch-backend/internal/domain"
	"go-clubmatch-backend/internal/usecase"
	"go-clubmatch-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func approvedTeam(id string) *domain.User {
	return &domain.User{ID: id, Role: domain.RoleTeam, IsActive: true, IsApproved: true}
}

func TestCreateVacancy(t *testing.T) {
	ctx := context.Background()

	t.Run("unapproved club cannot publish", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		userRepo.On("GetByID", ctx, "team-1").Return(&domain.User{ID: "team-1", Role: domain.RoleTeam, IsApproved: false}, nil)

		uc := usecase.NewVacancyUsecase(new(MockVacancyRepo), userRepo, new(MockPlacementUC))
		err := uc.CreateVacancy(ctx, "team-1", &domain.Vacancy{Title: "Goalkeeper"})

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 403, appErr.Code)
		assert.Contains(t, appErr.Message, "approved")
	})

	t.Run("unpaid invoices block creation", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		userRepo.On("GetByID", ctx, "team-1").Return(approvedTeam("team-1"), nil)

		plUC := new(MockPlacementUC)
		plUC.On("CanCreateVacancy", ctx, "team-1").Return(false, nil)

		vacRepo := new(MockVacancyRepo)
		uc := usecase.NewVacancyUsecase(vacRepo, userRepo, plUC)
		err := uc.CreateVacancy(ctx, "team-1", &domain.Vacancy{Title: "Goalkeeper"})

		assert.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrUnpaidInvoiceExists))
		vacRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("salary range validated", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		userRepo.On("GetByID", ctx, "team-1").Return(approvedTeam("team-1"), nil)

		plUC := new(MockPlacementUC)
		plUC.On("CanCreateVacancy", ctx, "team-1").Return(true, nil)

		uc := usecase.NewVacancyUsecase(new(MockVacancyRepo), userRepo, plUC)
		err := uc.CreateVacancy(ctx, "team-1", &domain.Vacancy{Title: "Goalkeeper", SalaryMin: 5000, SalaryMax: 1000})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "SalaryMin")
	})

	t.Run("created vacancy defaults to active", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		userRepo.On("GetByID", ctx, "team-1").Return(approvedTeam("team-1"), nil)

		plUC := new(MockPlacementUC)
		plUC.On("CanCreateVacancy", ctx, "team-1").Return(true, nil)

		vacRepo := new(MockVacancyRepo)
		vacRepo.On("Create", ctx, mock.MatchedBy(func(v *domain.Vacancy) bool {
			return v.TeamID == "team-1" && v.Status == domain.VacancyStatusActive
		})).Return(nil)

		uc := usecase.NewVacancyUsecase(vacRepo, userRepo, plUC)
		err := uc.CreateVacancy(ctx, "team-1", &domain.Vacancy{
			Title:     "Goalkeeper",
			Location:  "Madrid",
			SalaryMin: 1000,
			SalaryMax: 5000,
		})

		assert.NoError(t, err)
		vacRepo.AssertExpectations(t)
	})

	t.Run("explicit draft status preserved", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		userRepo.On("GetByID", ctx, "team-1").Return(approvedTeam("team-1"), nil)

		plUC := new(MockPlacementUC)
		plUC.On("CanCreateVacancy", ctx, "team-1").Return(true, nil)

		vacRepo := new(MockVacancyRepo)
		vacRepo.On("Create", ctx, mock.MatchedBy(func(v *domain.Vacancy) bool {
			return v.Status == domain.VacancyStatusDraft
		})).Return(nil)

		uc := usecase.NewVacancyUsecase(vacRepo, userRepo, plUC)
		err := uc.CreateVacancy(ctx, "team-1", &domain.Vacancy{Title: "Physio", Status: domain.VacancyStatusDraft})

		assert.NoError(t, err)
	})
}

func TestVacancyOwnership(t *testing.T) {
	ctx := context.Background()

	vacRepo := new(MockVacancyRepo)
	vacRepo.On("GetByID", ctx, int64(9)).Return(&domain.Vacancy{ID: 9, TeamID: "owner-team"}, nil)

	uc := usecase.NewVacancyUsecase(vacRepo, new(MockUserRepo), new(MockPlacementUC))

	t.Run("update by non-owner forbidden", func(t *testing.T) {
		err := uc.UpdateVacancy(ctx, "intruder", &domain.Vacancy{ID: 9, Title: "Coach"})

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 403, appErr.Code)
	})

	t.Run("close by non-owner forbidden", func(t *testing.T) {
		err := uc.CloseVacancy(ctx, "intruder", 9)
		assert.Error(t, err)
	})

	t.Run("delete by non-owner forbidden", func(t *testing.T) {
		err := uc.DeleteVacancy(ctx, "intruder", 9)
		assert.Error(t, err)
	})
}

func TestCloseVacancy(t *testing.T) {
	ctx := context.Background()

	vacRepo := new(MockVacancyRepo)
	vacRepo.On("GetByID", ctx, int64(9)).Return(&domain.Vacancy{ID: 9, TeamID: "team-1"}, nil)
	vacRepo.On("UpdateStatus", ctx, int64(9), domain.VacancyStatusClosed).Return(nil)

	uc := usecase.NewVacancyUsecase(vacRepo, new(MockUserRepo), new(MockPlacementUC))

	assert.NoError(t, uc.CloseVacancy(ctx, "team-1", 9))
	vacRepo.AssertExpectations(t)
}

func TestListActivePagination(t *testing.T) {
	ctx := context.Background()

	vacRepo := new(MockVacancyRepo)
	// Page 3 of 20 per page translates to limit 20, offset 40.
	vacRepo.On("FetchActive", ctx, domain.VacancyFilter{}, 20, 40).
		Return([]domain.VacancyWithTeam{}, int64(0), nil)
	// Out-of-range values fall back to the first page of 10.
	vacRepo.On("FetchActive", ctx, domain.VacancyFilter{}, 10, 0).
		Return([]domain.VacancyWithTeam{}, int64(0), nil)

	uc := usecase.NewVacancyUsecase(vacRepo, new(MockUserRepo), new(MockPlacementUC))

	_, _, err := uc.ListActive(ctx, domain.VacancyFilter{}, 3, 20)
	assert.NoError(t, err)

	_, _, err = uc.ListActive(ctx, domain.VacancyFilter{}, 0, -5)
	assert.NoError(t, err)

	vacRepo.AssertExpectations(t)
}
