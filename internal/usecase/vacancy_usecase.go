package usecase

import (
	"context"
	"net/http"
	"time"

	"go-clubmatch-backend/internal/domain"
	"go-clubmatch-backend/pkg/apperror"
)

type vacancyUsecase struct {
	vacancyRepo domain.VacancyRepository
	userRepo    domain.UserRepository
	placementUC domain.PlacementUsecase
}

func NewVacancyUsecase(
	vacancyRepo domain.VacancyRepository,
	userRepo domain.UserRepository,
	placementUC domain.PlacementUsecase,
) domain.VacancyUsecase {
	return &vacancyUsecase{
		vacancyRepo: vacancyRepo,
		userRepo:    userRepo,
		placementUC: placementUC,
	}
}

// CreateVacancy persists a new vacancy after the approval and billing gates.
// The unpaid-invoice check runs at creation time, never from a cache.
func (u *vacancyUsecase) CreateVacancy(ctx context.Context, teamID string, v *domain.Vacancy) error {
	team, err := u.userRepo.GetByID(ctx, teamID)
	if err != nil {
		return apperror.NotFound("Team profile not found")
	}
	if !team.IsApproved {
		return apperror.Forbidden("Your club must be approved before publishing vacancies")
	}

	allowed, err := u.placementUC.CanCreateVacancy(ctx, teamID)
	if err != nil {
		return apperror.Internal(err)
	}
	if !allowed {
		return apperror.New(http.StatusConflict,
			"Outstanding placement invoices must be paid before creating new vacancies",
			domain.ErrUnpaidInvoiceExists)
	}

	// Business Validation
	if v.SalaryMin > v.SalaryMax {
		return apperror.BadRequest("SalaryMin cannot be greater than SalaryMax")
	}
	if v.Title == "" {
		return apperror.BadRequest("Title is required")
	}

	v.TeamID = teamID
	if v.Status == "" {
		v.Status = domain.VacancyStatusActive
	}
	v.CreatedAt = time.Now()
	v.UpdatedAt = time.Now()

	return u.vacancyRepo.Create(ctx, v)
}

func (u *vacancyUsecase) GetVacancy(ctx context.Context, id int64) (*domain.VacancyWithTeam, error) {
	return u.vacancyRepo.GetByIDWithTeam(ctx, id)
}

// ListActive returns only active vacancies; the filter is applied
// server-side so clients cannot bypass it.
func (u *vacancyUsecase) ListActive(ctx context.Context, filter domain.VacancyFilter, page, pageSize int) ([]domain.VacancyWithTeam, int64, error) {
	limit, offset := paginate(page, pageSize)
	return u.vacancyRepo.FetchActive(ctx, filter, limit, offset)
}

func (u *vacancyUsecase) ListByTeam(ctx context.Context, teamID string, page, pageSize int) ([]domain.Vacancy, int64, error) {
	limit, offset := paginate(page, pageSize)
	return u.vacancyRepo.FetchByTeam(ctx, teamID, limit, offset)
}

func (u *vacancyUsecase) UpdateVacancy(ctx context.Context, teamID string, v *domain.Vacancy) error {
	if err := u.requireOwnership(ctx, teamID, v.ID); err != nil {
		return err
	}

	if v.SalaryMin > v.SalaryMax {
		return apperror.BadRequest("SalaryMin cannot be greater than SalaryMax")
	}
	if v.Title == "" {
		return apperror.BadRequest("Title is required")
	}

	v.TeamID = teamID
	v.UpdatedAt = time.Now()
	return u.vacancyRepo.Update(ctx, v)
}

func (u *vacancyUsecase) ActivateVacancy(ctx context.Context, teamID string, id int64) error {
	if err := u.requireOwnership(ctx, teamID, id); err != nil {
		return err
	}
	return u.vacancyRepo.UpdateStatus(ctx, id, domain.VacancyStatusActive)
}

func (u *vacancyUsecase) CloseVacancy(ctx context.Context, teamID string, id int64) error {
	if err := u.requireOwnership(ctx, teamID, id); err != nil {
		return err
	}
	return u.vacancyRepo.UpdateStatus(ctx, id, domain.VacancyStatusClosed)
}

func (u *vacancyUsecase) DeleteVacancy(ctx context.Context, teamID string, id int64) error {
	if err := u.requireOwnership(ctx, teamID, id); err != nil {
		return err
	}
	return u.vacancyRepo.Delete(ctx, id)
}

func (u *vacancyUsecase) requireOwnership(ctx context.Context, teamID string, vacancyID int64) error {
	vacancy, err := u.vacancyRepo.GetByID(ctx, vacancyID)
	if err != nil {
		return apperror.NotFound("Vacancy not found")
	}
	if vacancy.TeamID != teamID {
		return apperror.Forbidden("You can only manage your own vacancies")
	}
	return nil
}

func paginate(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return pageSize, (page - 1) * pageSize
}
