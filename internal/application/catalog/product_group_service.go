package catalog

import (
	"context"

	"github.com/store/backend/internal/domain/catalog"
	"github.com/store/backend/internal/domain/shared"
)

// ProductGroupService handles product group management.
type ProductGroupService struct {
	groups catalog.ProductGroupRepository
}

// NewProductGroupService creates a new product group service
func NewProductGroupService(groups catalog.ProductGroupRepository) *ProductGroupService {
	return &ProductGroupService{groups: groups}
}

// ListGroups returns every product group
func (s *ProductGroupService) ListGroups(ctx context.Context) ([]catalog.ProductGroup, error) {
	return s.groups.FindAll(ctx)
}

// CreateGroup stores a new product group
func (s *ProductGroupService) CreateGroup(ctx context.Context, name string) (*catalog.ProductGroup, error) {
	if err := s.checkName(ctx, name, 0); err != nil {
		return nil, err
	}
	group := &catalog.ProductGroup{Name: name}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// UpdateGroup renames a product group
func (s *ProductGroupService) UpdateGroup(ctx context.Context, id int64, name string) (*catalog.ProductGroup, error) {
	group, err := s.groups.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkName(ctx, name, id); err != nil {
		return nil, err
	}
	group.Name = name
	if err := s.groups.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteGroup removes a product group, detaching its products
func (s *ProductGroupService) DeleteGroup(ctx context.Context, id int64) error {
	return s.groups.Delete(ctx, id)
}

func (s *ProductGroupService) checkName(ctx context.Context, name string, excludeID int64) error {
	exists, err := s.groups.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS",
			"Product group with this name already exists")
	}
	return nil
}
