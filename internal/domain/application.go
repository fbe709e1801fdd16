package domain

import (
	"context"
	"time"
)

// Application status constants
const (
	ApplicationStatusPending   = "pending"
	ApplicationStatusAccepted  = "accepted"
	ApplicationStatusDeclined  = "declined"
	ApplicationStatusWithdrawn = "withdrawn"
)

// Application represents a candidate applying to a vacancy
type Application struct {
	ID          int64     `json:"id"`
	VacancyID   int64     `json:"vacancy_id"`
	CandidateID string    `json:"candidate_id"`
	CoverLetter *string   `json:"cover_letter,omitempty"`
	Notes       *string   `json:"notes,omitempty"` // team-side notes
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Joined data for list responses
	CandidateName *string `json:"candidate_name,omitempty"`
	VacancyTitle  *string `json:"vacancy_title,omitempty"`
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id int64) (*Application, error)
	GetByVacancyID(ctx context.Context, vacancyID int64) ([]Application, error)
	GetByCandidateID(ctx context.Context, candidateID string) ([]Application, error)
	CheckExists(ctx context.Context, vacancyID int64, candidateID string) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status string, notes *string) error
}

type ApplicationUsecase interface {
	// Candidate operations
	Apply(ctx context.Context, candidateID string, vacancyID int64, coverLetter string) (*Application, error)
	MyApplications(ctx context.Context, candidateID string) ([]Application, error)
	Withdraw(ctx context.Context, candidateID string, applicationID int64) error

	// Team operations
	ListByVacancy(ctx context.Context, teamID string, vacancyID int64) ([]Application, error)
	// Decide accepts or declines; accepting records a placement and raises
	// the $50 invoice through the placement tracker.
	Decide(ctx context.Context, teamID string, applicationID int64, status string, notes string) error
}
