package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxProfileSkills is the largest skill list accepted from a manual edit.
	MaxProfileSkills = 20
	// MaxNameLength and MaxSkillLength match the VARCHAR(100) columns.
	MaxNameLength  = 100
	MaxSkillLength = 100
)

// ProfileSnapshot is a profile as seen at reconciliation time.
// Empty strings mean the field is absent.
type ProfileSnapshot struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Username   string    `json:"username"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Country    string    `json:"country"`
	State      string    `json:"state"`
	City       string    `json:"city"`
	Education  string    `json:"education"`
	Experience string    `json:"experience"`
	CVKey      string    `json:"cv_key,omitempty"`
	Skills     []string  `json:"skills"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Clone returns a deep copy so callers never share the skill slice.
func (p ProfileSnapshot) Clone() ProfileSnapshot {
	out := p
	if p.Skills != nil {
		out.Skills = append([]string(nil), p.Skills...)
	}
	return out
}

// Location returns the profile's stored location triple.
func (p ProfileSnapshot) Location() CanonicalLocation {
	return CanonicalLocation{Country: p.Country, State: p.State, City: p.City}
}

// EditProfileRequest is a manual edit. Every scalar replaces the stored value,
// an empty value clears the field. Skills == nil leaves skills untouched.
// CVText == nil leaves the stored CV alone, a blank value deletes it and any
// other value replaces it.
type EditProfileRequest struct {
	FirstName  string   `json:"first_name" validate:"max=100,valid_name,no_emoji"`
	LastName   string   `json:"last_name" validate:"max=100,valid_name,no_emoji"`
	Country    string   `json:"country" validate:"max=100"`
	State      string   `json:"state" validate:"max=100"`
	City       string   `json:"city" validate:"max=100"`
	Education  string   `json:"education" validate:"max=4000"`
	Experience string   `json:"experience" validate:"max=4000"`
	Skills     []string `json:"skills" validate:"omitempty,dive,max=100"`
	CVText     *string  `json:"cv_text,omitempty"`
}

type UploadCVRequest struct {
	CVText string `json:"cv_text" validate:"required"`
}

// ProfileRepository is the keyed profile store.
type ProfileRepository interface {
	// GetByID returns nil, nil when the profile does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*ProfileSnapshot, error)
	Save(ctx context.Context, profile *ProfileSnapshot) error
}

// Transactor runs fn so that every repository call made with the ctx it
// receives commits or rolls back together.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type ProfileUsecase interface {
	GetProfile(ctx context.Context, profileID uuid.UUID) (*ProfileSnapshot, error)
	EditProfile(ctx context.Context, profileID uuid.UUID, req *EditProfileRequest) (*ProfileSnapshot, error)
	SyncProfileFromCV(ctx context.Context, profileID uuid.UUID) (*ProfileSnapshot, error)
	RecommendJobs(ctx context.Context, profileID uuid.UUID) error
	UploadCV(ctx context.Context, profileID uuid.UUID, req *UploadCVRequest) (*ProfileSnapshot, error)
	DeleteCV(ctx context.Context, profileID uuid.UUID) (*ProfileSnapshot, error)
}
