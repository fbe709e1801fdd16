package domain

import (
	"context"
	"time"
)

// User roles
const (
	RoleCandidate = "candidate"
	RoleTeam      = "team"
	RoleAdmin     = "admin"
)

type User struct {
	ID           string    `json:"id"` // UUID
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	IsApproved   bool      `json:"is_approved"` // teams start unapproved, admin approves
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Candidate profile fields
	FullName    *string    `json:"full_name,omitempty"`
	Position    *string    `json:"position,omitempty"` // e.g. goalkeeper, striker, physio
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Nationality *string    `json:"nationality,omitempty"`

	// Team (football club) profile fields
	ClubName     *string `json:"club_name,omitempty"`
	ContactPhone *string `json:"contact_phone,omitempty"`
	LogoURL      *string `json:"logo_url,omitempty"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdateLogoURL(ctx context.Context, id string, logoURL string) error
}

type AuthUsecase interface {
	RegisterCandidate(ctx context.Context, user *User, password string) error
	RegisterTeam(ctx context.Context, user *User, password string) error
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
	GetCurrentUser(ctx context.Context, id string) (*User, error)
	UpdateTeamLogo(ctx context.Context, userID string, logoURL string) error
}
