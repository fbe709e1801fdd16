package usecase_test

import (
	"context"
	"os"
	"testing"
	"time"

	"go-clubmatch-backend/config"
	"go-clubmatch-backend/internal/domain"
	"go-clubmatch-backend/pkg/audit"
	"go-clubmatch-backend/pkg/email"
	"go-clubmatch-backend/pkg/logger"

	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// testAudit returns an audit logger writing to stdout; fine for tests.
func testAudit() *audit.Logger { return audit.New("test") }

// testEmail returns an unconfigured email service so no mail is ever sent.
func testEmail() *email.EmailService { return email.NewEmailService(&config.Config{}) }

func strPtr(s string) *string { return &s }

// Mock Repositories

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) UpdateLogoURL(ctx context.Context, id string, logoURL string) error {
	return m.Called(ctx, id, logoURL).Error(0)
}

type MockMembershipRepo struct {
	mock.Mock
}

func (m *MockMembershipRepo) Create(ctx context.Context, ms *domain.Membership) error {
	return m.Called(ctx, ms).Error(0)
}
func (m *MockMembershipRepo) GetByID(ctx context.Context, id int64) (*domain.Membership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}
func (m *MockMembershipRepo) GetActiveByCandidate(ctx context.Context, candidateID string) (*domain.Membership, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}
func (m *MockMembershipRepo) GetByIntentID(ctx context.Context, intentID string) (*domain.Membership, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}
func (m *MockMembershipRepo) HistoryByCandidate(ctx context.Context, candidateID string) ([]domain.Membership, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Membership), args.Error(1)
}
func (m *MockMembershipRepo) Activate(ctx context.Context, id int64, startDate, renewalDate time.Time) error {
	return m.Called(ctx, id, startDate, renewalDate).Error(0)
}
func (m *MockMembershipRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	return m.Called(ctx, id, status).Error(0)
}
func (m *MockMembershipRepo) ActivateReplacing(ctx context.Context, id int64, startDate, renewalDate time.Time) error {
	return m.Called(ctx, id, startDate, renewalDate).Error(0)
}
func (m *MockMembershipRepo) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) SaveIntent(ctx context.Context, intent *domain.PaymentIntent) error {
	return m.Called(ctx, intent).Error(0)
}
func (m *MockPaymentRepo) UpdateIntentStatus(ctx context.Context, intentID, status string) error {
	return m.Called(ctx, intentID, status).Error(0)
}
func (m *MockPaymentRepo) ClaimEvent(ctx context.Context, event *domain.WebhookEvent) (bool, error) {
	args := m.Called(ctx, event)
	return args.Bool(0), args.Error(1)
}
func (m *MockPaymentRepo) MarkEventProcessed(ctx context.Context, eventID string, processErr *string) error {
	return m.Called(ctx, eventID, processErr).Error(0)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateIntent(ctx context.Context, req domain.CreateIntentRequest) (*domain.PaymentIntent, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentIntent), args.Error(1)
}
func (m *MockGateway) GetIntent(ctx context.Context, intentID string) (*domain.PaymentIntent, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentIntent), args.Error(1)
}

type MockPlacementRepo struct {
	mock.Mock
}

func (m *MockPlacementRepo) CreateWithInvoice(ctx context.Context, p *domain.Placement, inv *domain.Invoice) error {
	return m.Called(ctx, p, inv).Error(0)
}
func (m *MockPlacementRepo) GetByID(ctx context.Context, id int64) (*domain.Placement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Placement), args.Error(1)
}
func (m *MockPlacementRepo) ListByTeam(ctx context.Context, teamID string) ([]domain.Placement, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Placement), args.Error(1)
}
func (m *MockPlacementRepo) GetInvoice(ctx context.Context, invoiceID int64) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockPlacementRepo) ListInvoicesByTeam(ctx context.Context, teamID string) ([]domain.Invoice, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}
func (m *MockPlacementRepo) MarkInvoicePaid(ctx context.Context, invoiceID int64, paidAt time.Time) error {
	return m.Called(ctx, invoiceID, paidAt).Error(0)
}
func (m *MockPlacementRepo) VoidInvoice(ctx context.Context, invoiceID int64) error {
	return m.Called(ctx, invoiceID).Error(0)
}
func (m *MockPlacementRepo) CountUnpaidByTeam(ctx context.Context, teamID string) (int64, error) {
	args := m.Called(ctx, teamID)
	return args.Get(0).(int64), args.Error(1)
}

type MockVacancyRepo struct {
	mock.Mock
}

func (m *MockVacancyRepo) Create(ctx context.Context, v *domain.Vacancy) error {
	return m.Called(ctx, v).Error(0)
}
func (m *MockVacancyRepo) GetByID(ctx context.Context, id int64) (*domain.Vacancy, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vacancy), args.Error(1)
}
func (m *MockVacancyRepo) GetByIDWithTeam(ctx context.Context, id int64) (*domain.VacancyWithTeam, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VacancyWithTeam), args.Error(1)
}
func (m *MockVacancyRepo) FetchActive(ctx context.Context, filter domain.VacancyFilter, limit, offset int) ([]domain.VacancyWithTeam, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.VacancyWithTeam), args.Get(1).(int64), args.Error(2)
}
func (m *MockVacancyRepo) FetchByTeam(ctx context.Context, teamID string, limit, offset int) ([]domain.Vacancy, int64, error) {
	args := m.Called(ctx, teamID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Vacancy), args.Get(1).(int64), args.Error(2)
}
func (m *MockVacancyRepo) Update(ctx context.Context, v *domain.Vacancy) error {
	return m.Called(ctx, v).Error(0)
}
func (m *MockVacancyRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	return m.Called(ctx, id, status).Error(0)
}
func (m *MockVacancyRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	return m.Called(ctx, app).Error(0)
}
func (m *MockApplicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) GetByVacancyID(ctx context.Context, vacancyID int64) ([]domain.Application, error) {
	args := m.Called(ctx, vacancyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) GetByCandidateID(ctx context.Context, candidateID string) ([]domain.Application, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) CheckExists(ctx context.Context, vacancyID int64, candidateID string) (bool, error) {
	args := m.Called(ctx, vacancyID, candidateID)
	return args.Bool(0), args.Error(1)
}
func (m *MockApplicationRepo) UpdateStatus(ctx context.Context, id int64, status string, notes *string) error {
	return m.Called(ctx, id, status, notes).Error(0)
}

// Mock Usecases (for wiring into other usecases under test)

type MockMembershipUC struct {
	mock.Mock
}

func (m *MockMembershipUC) CreatePaymentIntent(ctx context.Context, candidateID, planType string) (*domain.PaymentIntent, error) {
	args := m.Called(ctx, candidateID, planType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentIntent), args.Error(1)
}
func (m *MockMembershipUC) ConfirmPayment(ctx context.Context, candidateID, intentID string) (*domain.Membership, error) {
	args := m.Called(ctx, candidateID, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}
func (m *MockMembershipUC) ActivateByIntent(ctx context.Context, intentID string) (*domain.Membership, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}
func (m *MockMembershipUC) CancelPendingByIntent(ctx context.Context, intentID string) error {
	return m.Called(ctx, intentID).Error(0)
}
func (m *MockMembershipUC) Upgrade(ctx context.Context, candidateID, newPlan string) (*domain.PaymentIntent, error) {
	args := m.Called(ctx, candidateID, newPlan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentIntent), args.Error(1)
}
func (m *MockMembershipUC) IsActive(ctx context.Context, candidateID string) (bool, error) {
	args := m.Called(ctx, candidateID)
	return args.Bool(0), args.Error(1)
}
func (m *MockMembershipUC) MyMembership(ctx context.Context, candidateID string) (*domain.Membership, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}
func (m *MockMembershipUC) History(ctx context.Context, candidateID string) ([]domain.Membership, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Membership), args.Error(1)
}
func (m *MockMembershipUC) ListPlans(ctx context.Context) []domain.Plan {
	return m.Called(ctx).Get(0).([]domain.Plan)
}
func (m *MockMembershipUC) ExpireDue(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockPlacementUC struct {
	mock.Mock
}

func (m *MockPlacementUC) RecordPlacement(ctx context.Context, teamID, candidateID string, vacancyID int64) (*domain.Placement, error) {
	args := m.Called(ctx, teamID, candidateID, vacancyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Placement), args.Error(1)
}
func (m *MockPlacementUC) MarkInvoicePaid(ctx context.Context, invoiceID int64) error {
	return m.Called(ctx, invoiceID).Error(0)
}
func (m *MockPlacementUC) VoidInvoice(ctx context.Context, invoiceID int64) error {
	return m.Called(ctx, invoiceID).Error(0)
}
func (m *MockPlacementUC) CanCreateVacancy(ctx context.Context, teamID string) (bool, error) {
	args := m.Called(ctx, teamID)
	return args.Bool(0), args.Error(1)
}
func (m *MockPlacementUC) ListTeamInvoices(ctx context.Context, teamID string) ([]domain.Invoice, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}
func (m *MockPlacementUC) ListTeamPlacements(ctx context.Context, teamID string) ([]domain.Placement, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Placement), args.Error(1)
}
