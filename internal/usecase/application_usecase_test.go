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

func activeVacancy(id int64, teamID string) *domain.Vacancy {
	return &domain.Vacancy{ID: id, TeamID: teamID, Status: domain.VacancyStatusActive}
}

func TestApply(t *testing.T) {
	ctx := context.Background()

	t.Run("inactive vacancy rejected", func(t *testing.T) {
		vacRepo := new(MockVacancyRepo)
		vacRepo.On("GetByID", ctx, int64(1)).Return(&domain.Vacancy{ID: 1, Status: domain.VacancyStatusClosed}, nil)

		uc := usecase.NewApplicationUsecase(new(MockApplicationRepo), vacRepo, new(MockMembershipUC), new(MockPlacementUC))
		_, err := uc.Apply(ctx, "cand-1", 1, "")

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.Code)
		assert.Contains(t, appErr.Message, "inactive")
	})

	t.Run("membership required", func(t *testing.T) {
		vacRepo := new(MockVacancyRepo)
		vacRepo.On("GetByID", ctx, int64(1)).Return(activeVacancy(1, "team-1"), nil)

		msUC := new(MockMembershipUC)
		msUC.On("IsActive", ctx, "cand-1").Return(false, nil)

		appRepo := new(MockApplicationRepo)
		uc := usecase.NewApplicationUsecase(appRepo, vacRepo, msUC, new(MockPlacementUC))
		_, err := uc.Apply(ctx, "cand-1", 1, "")

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 403, appErr.Code)
		assert.Contains(t, appErr.Message, "membership")
		appRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate application rejected", func(t *testing.T) {
		vacRepo := new(MockVacancyRepo)
		vacRepo.On("GetByID", ctx, int64(1)).Return(activeVacancy(1, "team-1"), nil)

		msUC := new(MockMembershipUC)
		msUC.On("IsActive", ctx, "cand-1").Return(true, nil)

		appRepo := new(MockApplicationRepo)
		appRepo.On("CheckExists", ctx, int64(1), "cand-1").Return(true, nil)

		uc := usecase.NewApplicationUsecase(appRepo, vacRepo, msUC, new(MockPlacementUC))
		_, err := uc.Apply(ctx, "cand-1", 1, "")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already applied")
	})

	t.Run("successful application is pending", func(t *testing.T) {
		vacRepo := new(MockVacancyRepo)
		vacRepo.On("GetByID", ctx, int64(1)).Return(activeVacancy(1, "team-1"), nil)

		msUC := new(MockMembershipUC)
		msUC.On("IsActive", ctx, "cand-1").Return(true, nil)

		appRepo := new(MockApplicationRepo)
		appRepo.On("CheckExists", ctx, int64(1), "cand-1").Return(false, nil)
		appRepo.On("Create", ctx, mock.MatchedBy(func(a *domain.Application) bool {
			return a.VacancyID == 1 && a.CandidateID == "cand-1" &&
				a.Status == domain.ApplicationStatusPending &&
				a.CoverLetter != nil && *a.CoverLetter == "I am keen"
		})).Return(nil)

		uc := usecase.NewApplicationUsecase(appRepo, vacRepo, msUC, new(MockPlacementUC))
		app, err := uc.Apply(ctx, "cand-1", 1, "I am keen")

		assert.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusPending, app.Status)
		appRepo.AssertExpectations(t)
	})

	t.Run("empty cover letter stored as null", func(t *testing.T) {
		vacRepo := new(MockVacancyRepo)
		vacRepo.On("GetByID", ctx, int64(1)).Return(activeVacancy(1, "team-1"), nil)

		msUC := new(MockMembershipUC)
		msUC.On("IsActive", ctx, "cand-1").Return(true, nil)

		appRepo := new(MockApplicationRepo)
		appRepo.On("CheckExists", ctx, int64(1), "cand-1").Return(false, nil)
		appRepo.On("Create", ctx, mock.MatchedBy(func(a *domain.Application) bool {
			return a.CoverLetter == nil
		})).Return(nil)

		uc := usecase.NewApplicationUsecase(appRepo, vacRepo, msUC, new(MockPlacementUC))
		_, err := uc.Apply(ctx, "cand-1", 1, "")

		assert.NoError(t, err)
	})
}

func TestWithdraw(t *testing.T) {
	ctx := context.Background()

	t.Run("only own applications", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		appRepo.On("GetByID", ctx, int64(3)).Return(&domain.Application{
			ID: 3, CandidateID: "someone-else", Status: domain.ApplicationStatusPending,
		}, nil)

		uc := usecase.NewApplicationUsecase(appRepo, new(MockVacancyRepo), new(MockMembershipUC), new(MockPlacementUC))
		err := uc.Withdraw(ctx, "cand-1", 3)

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 403, appErr.Code)
	})

	t.Run("only pending applications", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		appRepo.On("GetByID", ctx, int64(3)).Return(&domain.Application{
			ID: 3, CandidateID: "cand-1", Status: domain.ApplicationStatusAccepted,
		}, nil)

		uc := usecase.NewApplicationUsecase(appRepo, new(MockVacancyRepo), new(MockMembershipUC), new(MockPlacementUC))
		err := uc.Withdraw(ctx, "cand-1", 3)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "pending")
	})

	t.Run("pending application withdrawn", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		appRepo.On("GetByID", ctx, int64(3)).Return(&domain.Application{
			ID: 3, CandidateID: "cand-1", Status: domain.ApplicationStatusPending,
		}, nil)
		appRepo.On("UpdateStatus", ctx, int64(3), domain.ApplicationStatusWithdrawn, (*string)(nil)).Return(nil)

		uc := usecase.NewApplicationUsecase(appRepo, new(MockVacancyRepo), new(MockMembershipUC), new(MockPlacementUC))
		assert.NoError(t, uc.Withdraw(ctx, "cand-1", 3))
		appRepo.AssertExpectations(t)
	})
}

func TestDecide(t *testing.T) {
	ctx := context.Background()

	t.Run("status restricted to accepted or declined", func(t *testing.T) {
		uc := usecase.NewApplicationUsecase(new(MockApplicationRepo), new(MockVacancyRepo), new(MockMembershipUC), new(MockPlacementUC))
		err := uc.Decide(ctx, "team-1", 3, "maybe", "")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "accepted or declined")
	})

	t.Run("already decided application", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		appRepo.On("GetByID", ctx, int64(3)).Return(&domain.Application{
			ID: 3, VacancyID: 1, CandidateID: "cand-1", Status: domain.ApplicationStatusDeclined,
		}, nil)

		uc := usecase.NewApplicationUsecase(appRepo, new(MockVacancyRepo), new(MockMembershipUC), new(MockPlacementUC))
		err := uc.Decide(ctx, "team-1", 3, domain.ApplicationStatusAccepted, "")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already been decided")
	})

	t.Run("vacancy of another team forbidden", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		appRepo.On("GetByID", ctx, int64(3)).Return(&domain.Application{
			ID: 3, VacancyID: 1, CandidateID: "cand-1", Status: domain.ApplicationStatusPending,
		}, nil)

		vacRepo := new(MockVacancyRepo)
		vacRepo.On("GetByID", ctx, int64(1)).Return(activeVacancy(1, "owner-team"), nil)

		uc := usecase.NewApplicationUsecase(appRepo, vacRepo, new(MockMembershipUC), new(MockPlacementUC))
		err := uc.Decide(ctx, "intruder", 3, domain.ApplicationStatusDeclined, "")

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 403, appErr.Code)
	})

	t.Run("declining records notes without a placement", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		appRepo.On("GetByID", ctx, int64(3)).Return(&domain.Application{
			ID: 3, VacancyID: 1, CandidateID: "cand-1", Status: domain.ApplicationStatusPending,
		}, nil)
		appRepo.On("UpdateStatus", ctx, int64(3), domain.ApplicationStatusDeclined, strPtr("not a fit")).Return(nil)

		vacRepo := new(MockVacancyRepo)
		vacRepo.On("GetByID", ctx, int64(1)).Return(activeVacancy(1, "team-1"), nil)

		plUC := new(MockPlacementUC)
		uc := usecase.NewApplicationUsecase(appRepo, vacRepo, new(MockMembershipUC), plUC)
		err := uc.Decide(ctx, "team-1", 3, domain.ApplicationStatusDeclined, "not a fit")

		assert.NoError(t, err)
		plUC.AssertNotCalled(t, "RecordPlacement", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("accepting reports the hire to the placement tracker", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		appRepo.On("GetByID", ctx, int64(3)).Return(&domain.Application{
			ID: 3, VacancyID: 1, CandidateID: "cand-1", Status: domain.ApplicationStatusPending,
		}, nil)
		appRepo.On("UpdateStatus", ctx, int64(3), domain.ApplicationStatusAccepted, (*string)(nil)).Return(nil)

		vacRepo := new(MockVacancyRepo)
		vacRepo.On("GetByID", ctx, int64(1)).Return(activeVacancy(1, "team-1"), nil)

		plUC := new(MockPlacementUC)
		plUC.On("RecordPlacement", ctx, "team-1", "cand-1", int64(1)).Return(&domain.Placement{ID: 10}, nil)

		uc := usecase.NewApplicationUsecase(appRepo, vacRepo, new(MockMembershipUC), plUC)
		err := uc.Decide(ctx, "team-1", 3, domain.ApplicationStatusAccepted, "")

		assert.NoError(t, err)
		plUC.AssertExpectations(t)
	})
}
