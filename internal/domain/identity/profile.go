// Package identity holds wholesale partner profiles.
package identity

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/store/backend/internal/domain/shared"
)

// ProfileStatus is the moderation state of a partner profile.
type ProfileStatus string

const (
	StatusPending  ProfileStatus = "PENDING"
	StatusActive   ProfileStatus = "ACTIVE"
	StatusRejected ProfileStatus = "REJECTED"
	StatusBanned   ProfileStatus = "BANNED"
)

// Valid reports whether the status is one of the known states.
func (s ProfileStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusRejected, StatusBanned:
		return true
	}
	return false
}

var phonePattern = regexp.MustCompile(`^\+7\d{10}$`)

// ValidatePhone checks the storefront phone format.
func ValidatePhone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return shared.NewDomainError("INVALID_INPUT",
			"Phone must match +7XXXXXXXXXX")
	}
	return nil
}

// Profile is a wholesale partner account. Registration leaves it
// pending; activation by an administrator issues credentials.
type Profile struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string        `gorm:"size:255;not null" json:"name"`
	Phone        string        `gorm:"size:32;not null" json:"phone"`
	Email        string        `gorm:"size:255;not null" json:"email"`
	PasswordHash string        `gorm:"size:255" json:"-"`
	Organization string        `gorm:"size:255;not null" json:"organization"`
	Activity     string        `gorm:"size:1000" json:"activity"`
	Status       ProfileStatus `gorm:"size:32;not null" json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// TableName returns the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}

// CanLogin reports whether the profile may authenticate.
func (p *Profile) CanLogin() bool {
	return p.Status == StatusActive && p.PasswordHash != ""
}

// ProfileFilter narrows partner listings.
type ProfileFilter struct {
	Page     int
	PageSize int
	Status   *ProfileStatus
}

// ProfileRepository defines persistence for partner profiles
type ProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	FindByLogin(ctx context.Context, emailOrPhone string) (*Profile, error)
	ExistsActiveByEmailOrPhone(ctx context.Context, email, phone string, excludeID uuid.UUID) (bool, error)
	List(ctx context.Context, filter ProfileFilter) ([]Profile, int64, error)
	Create(ctx context.Context, profile *Profile) error
	Update(ctx context.Context, profile *Profile) error
}
