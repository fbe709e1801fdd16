package usecase

import (
	"context"

	"go-clubmatch-backend/internal/domain"
	"go-clubmatch-backend/pkg/apperror"
)

type applicationUsecase struct {
	applicationRepo domain.ApplicationRepository
	vacancyRepo     domain.VacancyRepository
	membershipUC    domain.MembershipUsecase
	placementUC     domain.PlacementUsecase
}

// NewApplicationUsecase creates a new application usecase
func NewApplicationUsecase(
	applicationRepo domain.ApplicationRepository,
	vacancyRepo domain.VacancyRepository,
	membershipUC domain.MembershipUsecase,
	placementUC domain.PlacementUsecase,
) domain.ApplicationUsecase {
	return &applicationUsecase{
		applicationRepo: applicationRepo,
		vacancyRepo:     vacancyRepo,
		membershipUC:    membershipUC,
		placementUC:     placementUC,
	}
}

// Apply lets a candidate with an active membership apply to an active
// vacancy. Membership status is always queried live via the membership
// manager, never cached on the caller side.
func (uc *applicationUsecase) Apply(ctx context.Context, candidateID string, vacancyID int64, coverLetter string) (*domain.Application, error) {
	vacancy, err := uc.vacancyRepo.GetByID(ctx, vacancyID)
	if err != nil {
		return nil, apperror.NotFound("Vacancy not found")
	}
	if vacancy.Status != domain.VacancyStatusActive {
		return nil, apperror.BadRequest("Cannot apply to an inactive vacancy")
	}

	active, err := uc.membershipUC.IsActive(ctx, candidateID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !active {
		return nil, apperror.Forbidden("An active membership is required to apply")
	}

	exists, err := uc.applicationRepo.CheckExists(ctx, vacancyID, candidateID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.BadRequest("You have already applied to this vacancy")
	}

	var coverLetterPtr *string
	if coverLetter != "" {
		coverLetterPtr = &coverLetter
	}

	app := &domain.Application{
		VacancyID:   vacancyID,
		CandidateID: candidateID,
		CoverLetter: coverLetterPtr,
		Status:      domain.ApplicationStatusPending,
	}

	if err := uc.applicationRepo.Create(ctx, app); err != nil {
		return nil, apperror.Internal(err)
	}

	return app, nil
}

// MyApplications returns all applications for the current candidate
func (uc *applicationUsecase) MyApplications(ctx context.Context, candidateID string) ([]domain.Application, error) {
	return uc.applicationRepo.GetByCandidateID(ctx, candidateID)
}

// Withdraw lets a candidate withdraw their own pending application
func (uc *applicationUsecase) Withdraw(ctx context.Context, candidateID string, applicationID int64) error {
	app, err := uc.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return apperror.NotFound("Application not found")
	}
	if app.CandidateID != candidateID {
		return apperror.Forbidden("You can only withdraw your own applications")
	}
	if app.Status != domain.ApplicationStatusPending {
		return apperror.BadRequest("Only pending applications can be withdrawn")
	}
	return uc.applicationRepo.UpdateStatus(ctx, applicationID, domain.ApplicationStatusWithdrawn, nil)
}

// ListByVacancy returns all applications for a vacancy (owning team only)
func (uc *applicationUsecase) ListByVacancy(ctx context.Context, teamID string, vacancyID int64) ([]domain.Application, error) {
	if err := uc.requireVacancyOwnership(ctx, teamID, vacancyID); err != nil {
		return nil, err
	}
	return uc.applicationRepo.GetByVacancyID(ctx, vacancyID)
}

// Decide accepts or declines an application. Accepting reports the hire to
// the placement tracker, which raises the placement fee invoice.
func (uc *applicationUsecase) Decide(ctx context.Context, teamID string, applicationID int64, status string, notes string) error {
	if status != domain.ApplicationStatusAccepted && status != domain.ApplicationStatusDeclined {
		return apperror.BadRequest("Invalid status. Must be: accepted or declined")
	}

	app, err := uc.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return apperror.NotFound("Application not found")
	}
	if app.Status != domain.ApplicationStatusPending {
		return apperror.BadRequest("Application has already been decided")
	}

	if err := uc.requireVacancyOwnership(ctx, teamID, app.VacancyID); err != nil {
		return err
	}

	var notesPtr *string
	if notes != "" {
		notesPtr = &notes
	}
	if err := uc.applicationRepo.UpdateStatus(ctx, applicationID, status, notesPtr); err != nil {
		return apperror.Internal(err)
	}

	if status == domain.ApplicationStatusAccepted {
		if _, err := uc.placementUC.RecordPlacement(ctx, teamID, app.CandidateID, app.VacancyID); err != nil {
			return err
		}
	}

	return nil
}

func (uc *applicationUsecase) requireVacancyOwnership(ctx context.Context, teamID string, vacancyID int64) error {
	vacancy, err := uc.vacancyRepo.GetByID(ctx, vacancyID)
	if err != nil {
		return apperror.NotFound("Vacancy not found")
	}
	if vacancy.TeamID != teamID {
		return apperror.Forbidden("You can only manage applications for your own vacancies")
	}
	return nil
}
