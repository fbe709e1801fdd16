package usecase

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"go-clubmatch-backend/internal/domain"
	"go-clubmatch-backend/pkg/apperror"
	"go-clubmatch-backend/pkg/audit"
	"go-clubmatch-backend/pkg/email"
	"go-clubmatch-backend/pkg/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type membershipUsecase struct {
	membershipRepo domain.MembershipRepository
	paymentRepo    domain.PaymentRepository
	userRepo       domain.UserRepository
	gateway        domain.PaymentGateway
	emailSvc       *email.EmailService
	auditLog       *audit.Logger
}

func NewMembershipUsecase(
	membershipRepo domain.MembershipRepository,
	paymentRepo domain.PaymentRepository,
	userRepo domain.UserRepository,
	gateway domain.PaymentGateway,
	emailSvc *email.EmailService,
	auditLog *audit.Logger,
) domain.MembershipUsecase {
	return &membershipUsecase{
		membershipRepo: membershipRepo,
		paymentRepo:    paymentRepo,
		userRepo:       userRepo,
		gateway:        gateway,
		emailSvc:       emailSvc,
		auditLog:       auditLog,
	}
}

// CreatePaymentIntent starts a membership purchase: a pending membership row
// plus a gateway intent carrying routing metadata.
func (u *membershipUsecase) CreatePaymentIntent(ctx context.Context, candidateID, planType string) (*domain.PaymentIntent, error) {
	plan, ok := domain.Plans[planType]
	if !ok {
		return nil, apperror.New(http.StatusBadRequest, "Unknown membership plan", domain.ErrInvalidPlan)
	}

	current, err := u.membershipRepo.GetActiveByCandidate(ctx, candidateID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}
	if current != nil && current.IsCurrent(time.Now()) {
		if domain.Plans[current.PlanType].Tier >= plan.Tier {
			return nil, apperror.Conflict("You already have an active membership of this tier or higher", domain.ErrAlreadyActive)
		}
		// Lower-tier active membership: the candidate should use Upgrade.
		return nil, apperror.Conflict("You already have an active membership. Use the upgrade endpoint to change plans.", domain.ErrAlreadyActive)
	}

	intent, err := u.gateway.CreateIntent(ctx, domain.CreateIntentRequest{
		AmountCents: plan.Price.Mul(decimal.NewFromInt(100)).IntPart(),
		Currency:    "usd",
		Metadata: map[string]string{
			"purpose":      domain.IntentPurposeMembership,
			"candidate_id": candidateID,
			"plan_type":    planType,
		},
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}

	now := time.Now()
	membership := &domain.Membership{
		CandidateID:     candidateID,
		PlanType:        planType,
		Price:           plan.Price,
		Status:          domain.MembershipStatusPending,
		PaymentIntentID: &intent.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := u.membershipRepo.Create(ctx, membership); err != nil {
		return nil, apperror.Internal(err)
	}

	// Intent rows are audit only; a failure here must not lose the purchase.
	if err := u.paymentRepo.SaveIntent(ctx, intent); err != nil {
		logger.Log.Warn("Failed to persist payment intent audit row", "intent_id", intent.ID, "error", err)
	}

	return intent, nil
}

// ConfirmPayment is the synchronous confirmation path: the frontend calls it
// after the gateway reports success client-side. The webhook path remains
// authoritative; this simply verifies with the gateway and activates early.
func (u *membershipUsecase) ConfirmPayment(ctx context.Context, candidateID, intentID string) (*domain.Membership, error) {
	intent, err := u.gateway.GetIntent(ctx, intentID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if intent.Metadata["candidate_id"] != candidateID {
		return nil, apperror.Forbidden("Payment intent does not belong to you")
	}
	if intent.Status != domain.IntentStatusSucceeded {
		return nil, apperror.BadRequest("Payment has not succeeded yet")
	}

	return u.activate(ctx, intentID)
}

// ActivateByIntent is the webhook-driven activation path.
func (u *membershipUsecase) ActivateByIntent(ctx context.Context, intentID string) (*domain.Membership, error) {
	return u.activate(ctx, intentID)
}

func (u *membershipUsecase) activate(ctx context.Context, intentID string) (*domain.Membership, error) {
	membership, err := u.membershipRepo.GetByIntentID(ctx, intentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.New(http.StatusNotFound, "No membership found for this payment", domain.ErrNotFound)
		}
		return nil, apperror.Internal(err)
	}

	if membership.Status == domain.MembershipStatusActive {
		// Repeated confirmation of an already-active membership is a no-op.
		return membership, nil
	}

	start := time.Now()
	renewal := start.AddDate(0, 0, domain.MembershipPeriodDays)
	if membership.RenewalDate != nil {
		// A pending row carrying a renewal date is an upgrade replacement: it
		// was prorated against the remainder of the current period, so it
		// inherits that period's renewal date and displaces the current plan.
		renewal = *membership.RenewalDate
		err = u.membershipRepo.ActivateReplacing(ctx, membership.ID, start, renewal)
	} else {
		err = u.membershipRepo.Activate(ctx, membership.ID, start, renewal)
	}
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyActive) {
			return nil, apperror.Conflict("Another membership is already active", domain.ErrAlreadyActive)
		}
		return nil, apperror.Internal(err)
	}
	_ = u.paymentRepo.UpdateIntentStatus(ctx, intentID, domain.IntentStatusSucceeded)

	membership.Status = domain.MembershipStatusActive
	membership.StartDate = &start
	membership.RenewalDate = &renewal

	u.auditLog.Event(audit.EventMembershipActivated,
		zap.String("candidate_id", membership.CandidateID),
		zap.String("plan", membership.PlanType),
		zap.String("intent_id", intentID),
	)
	u.sendReceipt(ctx, membership)

	return membership, nil
}

// CancelPendingByIntent marks the pending membership cancelled after a
// failed charge. Already-active memberships are left untouched.
func (u *membershipUsecase) CancelPendingByIntent(ctx context.Context, intentID string) error {
	membership, err := u.membershipRepo.GetByIntentID(ctx, intentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if membership.Status != domain.MembershipStatusPending {
		return nil
	}
	_ = u.paymentRepo.UpdateIntentStatus(ctx, intentID, domain.IntentStatusFailed)
	return u.membershipRepo.UpdateStatus(ctx, membership.ID, domain.MembershipStatusCancelled)
}

// Upgrade starts a move to a strictly higher tier. The prorated difference
// is charged against the remaining days of the current period:
// (dailyNew - dailyCurrent) * daysRemaining. The current plan stays active
// until that charge succeeds; the replacement is stored pending and swapped
// in by the webhook or confirm path.
func (u *membershipUsecase) Upgrade(ctx context.Context, candidateID, newPlan string) (*domain.PaymentIntent, error) {
	plan, ok := domain.Plans[newPlan]
	if !ok {
		return nil, apperror.New(http.StatusBadRequest, "Unknown membership plan", domain.ErrInvalidPlan)
	}

	current, err := u.membershipRepo.GetActiveByCandidate(ctx, candidateID)
	if err != nil || !current.IsCurrent(time.Now()) {
		return nil, apperror.New(http.StatusBadRequest, "You have no active membership to upgrade", domain.ErrNoActiveMembership)
	}
	currentPlan := domain.Plans[current.PlanType]
	if plan.Tier <= currentPlan.Tier {
		return nil, apperror.BadRequest("New plan must be a higher tier than your current plan")
	}

	now := time.Now()
	daysRemaining := int64(current.RenewalDate.Sub(now).Hours() / 24)
	if daysRemaining < 0 {
		daysRemaining = 0
	}
	period := decimal.NewFromInt(domain.MembershipPeriodDays)
	dailyDiff := plan.Price.Div(period).Sub(currentPlan.Price.Div(period))
	proratedCharge := dailyDiff.Mul(decimal.NewFromInt(daysRemaining)).Round(2)

	intent, err := u.gateway.CreateIntent(ctx, domain.CreateIntentRequest{
		AmountCents: proratedCharge.Mul(decimal.NewFromInt(100)).IntPart(),
		Currency:    "usd",
		Metadata: map[string]string{
			"purpose":      domain.IntentPurposeMembership,
			"candidate_id": candidateID,
			"plan_type":    newPlan,
			"upgrade_from": current.PlanType,
		},
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if err := u.paymentRepo.SaveIntent(ctx, intent); err != nil {
		logger.Log.Warn("Failed to persist payment intent audit row", "intent_id", intent.ID, "error", err)
	}

	// The replacement inherits the current renewal date, so the candidate
	// pays only the tier difference. It stays pending until the charge
	// lands; a failed charge cancels it and leaves the current plan alone.
	next := &domain.Membership{
		CandidateID:     candidateID,
		PlanType:        newPlan,
		Price:           plan.Price,
		Status:          domain.MembershipStatusPending,
		RenewalDate:     current.RenewalDate,
		PaymentIntentID: &intent.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := u.membershipRepo.Create(ctx, next); err != nil {
		return nil, apperror.Internal(err)
	}

	return intent, nil
}

// IsActive is the single authoritative membership check. Other components
// must call this instead of caching status.
func (u *membershipUsecase) IsActive(ctx context.Context, candidateID string) (bool, error) {
	membership, err := u.membershipRepo.GetActiveByCandidate(ctx, candidateID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return membership.IsCurrent(time.Now()), nil
}

func (u *membershipUsecase) MyMembership(ctx context.Context, candidateID string) (*domain.Membership, error) {
	membership, err := u.membershipRepo.GetActiveByCandidate(ctx, candidateID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("You have no active membership")
		}
		return nil, apperror.Internal(err)
	}
	return membership, nil
}

func (u *membershipUsecase) History(ctx context.Context, candidateID string) ([]domain.Membership, error) {
	return u.membershipRepo.HistoryByCandidate(ctx, candidateID)
}

func (u *membershipUsecase) ListPlans(ctx context.Context) []domain.Plan {
	plans := make([]domain.Plan, 0, len(domain.Plans))
	for _, p := range domain.Plans {
		plans = append(plans, p)
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].Tier < plans[j].Tier })
	return plans
}

// ExpireDue is called by the sweeper binary, not by request handlers.
func (u *membershipUsecase) ExpireDue(ctx context.Context) (int64, error) {
	expired, err := u.membershipRepo.ExpireDue(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		u.auditLog.Event(audit.EventMembershipExpired, zap.Int64("count", expired))
	}
	return expired, nil
}

func (u *membershipUsecase) sendReceipt(ctx context.Context, m *domain.Membership) {
	if !u.emailSvc.IsConfigured() {
		return
	}
	user, err := u.userRepo.GetByID(ctx, m.CandidateID)
	if err != nil {
		return
	}
	name := user.Email
	if user.FullName != nil {
		name = *user.FullName
	}
	data := email.ReceiptEmailData{
		Name:        name,
		PlanType:    m.PlanType,
		Price:       "$" + m.Price.StringFixed(2),
		RenewalDate: m.RenewalDate.Format("2 January 2006"),
	}
	if err := u.emailSvc.SendMembershipReceipt(user.Email, data); err != nil {
		logger.Log.Warn("Failed to send membership receipt", "candidate_id", m.CandidateID, "error", err)
	}
}
