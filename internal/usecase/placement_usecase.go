package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go-clubmatch-backend/internal/domain"
	"go-clubmatch-backend/pkg/apperror"
	"go-clubmatch-backend/pkg/audit"
	"go-clubmatch-backend/pkg/email"
	"go-clubmatch-backend/pkg/logger"

	"go.uber.org/zap"
)

type placementUsecase struct {
	placementRepo domain.PlacementRepository
	vacancyRepo   domain.VacancyRepository
	userRepo      domain.UserRepository
	emailSvc      *email.EmailService
	auditLog      *audit.Logger
}

func NewPlacementUsecase(
	placementRepo domain.PlacementRepository,
	vacancyRepo domain.VacancyRepository,
	userRepo domain.UserRepository,
	emailSvc *email.EmailService,
	auditLog *audit.Logger,
) domain.PlacementUsecase {
	return &placementUsecase{
		placementRepo: placementRepo,
		vacancyRepo:   vacancyRepo,
		userRepo:      userRepo,
		emailSvc:      emailSvc,
		auditLog:      auditLog,
	}
}

// RecordPlacement registers a successful hire and raises the fixed placement
// fee invoice in the same transaction.
func (u *placementUsecase) RecordPlacement(ctx context.Context, teamID, candidateID string, vacancyID int64) (*domain.Placement, error) {
	vacancy, err := u.vacancyRepo.GetByID(ctx, vacancyID)
	if err != nil {
		return nil, apperror.NotFound("Vacancy not found")
	}
	if vacancy.TeamID != teamID {
		return nil, apperror.Forbidden("You can only report hires for your own vacancies")
	}

	candidate, err := u.userRepo.GetByID(ctx, candidateID)
	if err != nil || candidate.Role != domain.RoleCandidate {
		return nil, apperror.NotFound("Candidate not found")
	}

	now := time.Now()
	placement := &domain.Placement{
		CandidateID: candidateID,
		TeamID:      teamID,
		VacancyID:   vacancyID,
		Status:      domain.PlacementStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	invoice := &domain.Invoice{
		TeamID:    teamID,
		Amount:    domain.PlacementFee,
		Status:    domain.InvoiceStatusUnpaid,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := u.placementRepo.CreateWithInvoice(ctx, placement, invoice); err != nil {
		if errors.Is(err, domain.ErrDuplicatePlacement) {
			return nil, apperror.Conflict("A placement for this candidate and vacancy already exists", domain.ErrDuplicatePlacement)
		}
		return nil, apperror.Internal(err)
	}

	u.auditLog.Event(audit.EventInvoiceIssued,
		zap.Int64("invoice_id", invoice.ID),
		zap.Int64("placement_id", placement.ID),
		zap.String("team_id", teamID),
		zap.String("amount", invoice.Amount.StringFixed(2)),
	)
	u.notifyInvoice(ctx, invoice, candidate)

	return placement, nil
}

// MarkInvoicePaid settles an invoice. Safe to call twice: the repository
// treats an already-paid invoice as a no-op.
func (u *placementUsecase) MarkInvoicePaid(ctx context.Context, invoiceID int64) error {
	if err := u.placementRepo.MarkInvoicePaid(ctx, invoiceID, time.Now()); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.New(http.StatusNotFound, "Invoice not found or not payable", domain.ErrNotFound)
		}
		return apperror.Internal(err)
	}
	u.auditLog.Event(audit.EventInvoicePaid, zap.Int64("invoice_id", invoiceID))
	return nil
}

// VoidInvoice is the admin override for disputed or mistaken invoices.
func (u *placementUsecase) VoidInvoice(ctx context.Context, invoiceID int64) error {
	if err := u.placementRepo.VoidInvoice(ctx, invoiceID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Invoice not found or not voidable")
		}
		return apperror.Internal(err)
	}
	u.auditLog.Event(audit.EventInvoiceVoided, zap.Int64("invoice_id", invoiceID))
	return nil
}

// CanCreateVacancy is the billing gate the vacancy flow consults before
// persisting anything: false iff the team has at least one unpaid invoice.
func (u *placementUsecase) CanCreateVacancy(ctx context.Context, teamID string) (bool, error) {
	unpaid, err := u.placementRepo.CountUnpaidByTeam(ctx, teamID)
	if err != nil {
		return false, err
	}
	return unpaid == 0, nil
}

func (u *placementUsecase) ListTeamInvoices(ctx context.Context, teamID string) ([]domain.Invoice, error) {
	return u.placementRepo.ListInvoicesByTeam(ctx, teamID)
}

func (u *placementUsecase) ListTeamPlacements(ctx context.Context, teamID string) ([]domain.Placement, error) {
	return u.placementRepo.ListByTeam(ctx, teamID)
}

func (u *placementUsecase) notifyInvoice(ctx context.Context, inv *domain.Invoice, candidate *domain.User) {
	if !u.emailSvc.IsConfigured() {
		return
	}
	team, err := u.userRepo.GetByID(ctx, inv.TeamID)
	if err != nil {
		return
	}
	clubName := team.Email
	if team.ClubName != nil {
		clubName = *team.ClubName
	}
	candidateName := candidate.Email
	if candidate.FullName != nil {
		candidateName = *candidate.FullName
	}
	data := email.InvoiceEmailData{
		ClubName:      clubName,
		CandidateName: candidateName,
		Amount:        "$" + inv.Amount.StringFixed(2),
		InvoiceID:     inv.ID,
	}
	if err := u.emailSvc.SendInvoiceIssued(team.Email, data); err != nil {
		logger.Log.Warn("Failed to send invoice notification", "invoice_id", inv.ID, "error", err)
	}
}
