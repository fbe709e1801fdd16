package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-clubmatch-backend/internal/domain"
	"go-clubmatch-backend/pkg/apperror"
	"go-clubmatch-backend/pkg/auth"

	"github.com/google/uuid"
)

type authUsecase struct {
	userRepo domain.UserRepository
	tokens   *auth.Manager
}

func NewAuthUsecase(userRepo domain.UserRepository, tokens *auth.Manager) domain.AuthUsecase {
	return &authUsecase{userRepo: userRepo, tokens: tokens}
}

func (u *authUsecase) RegisterCandidate(ctx context.Context, user *domain.User, password string) error {
	user.Role = domain.RoleCandidate
	user.IsApproved = true // candidates need no approval
	return u.register(ctx, user, password)
}

func (u *authUsecase) RegisterTeam(ctx context.Context, user *domain.User, password string) error {
	user.Role = domain.RoleTeam
	user.IsApproved = false // teams wait for admin approval
	return u.register(ctx, user, password)
}

func (u *authUsecase) register(ctx context.Context, user *domain.User, password string) error {
	email := strings.ToLower(strings.TrimSpace(user.Email))

	existing, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return apperror.Internal(err)
	}
	if existing != nil {
		return apperror.BadRequest("An account with this email already exists")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return apperror.Internal(err)
	}

	now := time.Now()
	user.ID = uuid.NewString()
	user.Email = email
	user.PasswordHash = hash
	user.IsActive = true
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := u.userRepo.Create(ctx, user); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (u *authUsecase) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := u.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		// Same message for unknown email and wrong password.
		return "", nil, apperror.Unauthorized("Invalid email or password")
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", nil, apperror.Unauthorized("Invalid email or password")
	}
	if !user.IsActive {
		return "", nil, apperror.Forbidden("Your account has been deactivated")
	}

	token, err := u.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return "", nil, apperror.Internal(err)
	}
	return token, user, nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

func (u *authUsecase) UpdateTeamLogo(ctx context.Context, userID string, logoURL string) error {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return apperror.NotFound("User not found")
	}
	if user.Role != domain.RoleTeam {
		return apperror.Forbidden("Only clubs can upload a logo")
	}
	return u.userRepo.UpdateLogoURL(ctx, userID, logoURL)
}
