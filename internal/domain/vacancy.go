package domain

import (
	"context"
	"time"
)

// Vacancy status values
const (
	VacancyStatusDraft  = "draft"
	VacancyStatusActive = "active"
	VacancyStatusClosed = "closed"
)

type Vacancy struct {
	ID              int64      `json:"id"`
	TeamID          string     `json:"team_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Requirements    *string    `json:"requirements,omitempty"`
	PositionType    *string    `json:"position_type,omitempty"` // player, coach, staff
	ExperienceLevel *string    `json:"experience_level,omitempty"`
	Location        string     `json:"location"`
	SalaryMin       float64    `json:"salary_min"`
	SalaryMax       float64    `json:"salary_max"`
	Status          string     `json:"status"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// VacancyWithTeam extends Vacancy with club profile information for listings.
type VacancyWithTeam struct {
	Vacancy
	ClubName string  `json:"club_name"`
	ClubLogo *string `json:"club_logo,omitempty"`
}

// VacancyFilter narrows listing queries. Zero values mean "no filter".
type VacancyFilter struct {
	Location        string
	PositionType    string
	ExperienceLevel string
	SalaryMin       float64
	SalaryMax       float64
}

type VacancyRepository interface {
	Create(ctx context.Context, v *Vacancy) error
	GetByID(ctx context.Context, id int64) (*Vacancy, error)
	GetByIDWithTeam(ctx context.Context, id int64) (*VacancyWithTeam, error)
	FetchActive(ctx context.Context, filter VacancyFilter, limit, offset int) ([]VacancyWithTeam, int64, error)
	FetchByTeam(ctx context.Context, teamID string, limit, offset int) ([]Vacancy, int64, error)
	Update(ctx context.Context, v *Vacancy) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
}

type VacancyUsecase interface {
	CreateVacancy(ctx context.Context, teamID string, v *Vacancy) error
	GetVacancy(ctx context.Context, id int64) (*VacancyWithTeam, error)
	ListActive(ctx context.Context, filter VacancyFilter, page, pageSize int) ([]VacancyWithTeam, int64, error)
	ListByTeam(ctx context.Context, teamID string, page, pageSize int) ([]Vacancy, int64, error)
	UpdateVacancy(ctx context.Context, teamID string, v *Vacancy) error
	ActivateVacancy(ctx context.Context, teamID string, id int64) error
	CloseVacancy(ctx context.Context, teamID string, id int64) error
	DeleteVacancy(ctx context.Context, teamID string, id int64) error
}
