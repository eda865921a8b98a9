package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/store/backend/internal/domain/identity"
	"github.com/store/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProfileRepository implements ProfileRepository using GORM
type GormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a new GormProfileRepository
func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// FindByID finds a profile by its ID
func (r *GormProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Profile, error) {
	var profile identity.Profile
	if err := session(ctx, r.db).First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// FindByEmail finds a profile by email
func (r *GormProfileRepository) FindByEmail(ctx context.Context, email string) (*identity.Profile, error) {
	var profile identity.Profile
	if err := session(ctx, r.db).First(&profile, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// FindByLogin finds a profile by email or phone
func (r *GormProfileRepository) FindByLogin(ctx context.Context, emailOrPhone string) (*identity.Profile, error) {
	var profile identity.Profile
	if err := session(ctx, r.db).
		Where("email = ? OR phone = ?", emailOrPhone, emailOrPhone).
		First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// ExistsActiveByEmailOrPhone checks whether a non-rejected profile
// already claims the email or phone
func (r *GormProfileRepository) ExistsActiveByEmailOrPhone(ctx context.Context, email, phone string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := session(ctx, r.db).Model(&identity.Profile{}).
		Where("(email = ? OR phone = ?) AND status IN ?",
			email, phone, []identity.ProfileStatus{identity.StatusPending, identity.StatusActive})
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List finds profiles matching the filter with a total count
func (r *GormProfileRepository) List(ctx context.Context, filter identity.ProfileFilter) ([]identity.Profile, int64, error) {
	query := session(ctx, r.db).Model(&identity.Profile{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var profiles []identity.Profile
	if err := query.Order("created_at DESC").Find(&profiles).Error; err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

// Create inserts a profile
func (r *GormProfileRepository) Create(ctx context.Context, profile *identity.Profile) error {
	return session(ctx, r.db).Create(profile).Error
}

// Update saves a profile
func (r *GormProfileRepository) Update(ctx context.Context, profile *identity.Profile) error {
	return session(ctx, r.db).Save(profile).Error
}

// Ensure GormProfileRepository implements ProfileRepository
var _ identity.ProfileRepository = (*GormProfileRepository)(nil)
