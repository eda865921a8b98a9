package catalog

import (
	"context"

	"github.com/store/backend/internal/domain/catalog"
	"github.com/store/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TagService handles tag and tag group management.
type TagService struct {
	tags   catalog.TagRepository
	groups catalog.TagGroupRepository
	logger *zap.Logger
}

// NewTagService creates a new tag service
func NewTagService(tags catalog.TagRepository, groups catalog.TagGroupRepository, logger *zap.Logger) *TagService {
	return &TagService{tags: tags, groups: groups, logger: logger}
}

// SeedDefaults makes sure the promotion tag exists. Called at startup.
func (s *TagService) SeedDefaults(ctx context.Context) error {
	_, err := s.tags.FindByName(ctx, catalog.PromotionTagName)
	if err == nil {
		return nil
	}
	if !shared.IsNotFound(err) {
		return err
	}
	s.logger.Info("seeding promotion tag", zap.String("name", catalog.PromotionTagName))
	return s.tags.Create(ctx, &catalog.Tag{Name: catalog.PromotionTagName})
}

// ListTags returns every tag
func (s *TagService) ListTags(ctx context.Context) ([]catalog.Tag, error) {
	return s.tags.FindAll(ctx)
}

// CreateTag stores a new tag. The promotion tag name is reserved.
func (s *TagService) CreateTag(ctx context.Context, name string, tagGroupID *int64) (*catalog.Tag, error) {
	if name == catalog.PromotionTagName {
		return nil, shared.NewDomainError("INVALID_INPUT",
			"This tag name is reserved")
	}
	if err := s.checkTagName(ctx, name, 0); err != nil {
		return nil, err
	}
	if err := s.checkTagGroup(ctx, tagGroupID); err != nil {
		return nil, err
	}

	tag := &catalog.Tag{Name: name, TagGroupID: tagGroupID}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// UpdateTag renames or regroups a tag. The promotion tag is managed
// automatically and cannot be edited.
func (s *TagService) UpdateTag(ctx context.Context, id int64, name string, tagGroupID *int64) (*catalog.Tag, error) {
	tag, err := s.tags.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tag.Name == catalog.PromotionTagName {
		return nil, shared.NewDomainError("FORBIDDEN",
			"The promotion tag cannot be edited")
	}
	if name == catalog.PromotionTagName {
		return nil, shared.NewDomainError("INVALID_INPUT",
			"This tag name is reserved")
	}
	if err := s.checkTagName(ctx, name, id); err != nil {
		return nil, err
	}
	if err := s.checkTagGroup(ctx, tagGroupID); err != nil {
		return nil, err
	}

	tag.Name = name
	tag.TagGroupID = tagGroupID
	if err := s.tags.Update(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// DeleteTag removes a tag and its product links. The promotion tag
// cannot be deleted.
func (s *TagService) DeleteTag(ctx context.Context, id int64) error {
	tag, err := s.tags.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if tag.Name == catalog.PromotionTagName {
		return shared.NewDomainError("FORBIDDEN",
			"The promotion tag cannot be deleted")
	}
	return s.tags.Delete(ctx, id)
}

// ListTagGroups returns every tag group
func (s *TagService) ListTagGroups(ctx context.Context) ([]catalog.TagGroup, error) {
	return s.groups.FindAll(ctx)
}

// CreateTagGroup stores a new tag group
func (s *TagService) CreateTagGroup(ctx context.Context, name string) (*catalog.TagGroup, error) {
	if err := s.checkGroupName(ctx, name, 0); err != nil {
		return nil, err
	}
	group := &catalog.TagGroup{Name: name}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// UpdateTagGroup renames a tag group
func (s *TagService) UpdateTagGroup(ctx context.Context, id int64, name string) (*catalog.TagGroup, error) {
	group, err := s.groups.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkGroupName(ctx, name, id); err != nil {
		return nil, err
	}
	group.Name = name
	if err := s.groups.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteTagGroup removes a tag group, detaching its tags
func (s *TagService) DeleteTagGroup(ctx context.Context, id int64) error {
	return s.groups.Delete(ctx, id)
}

func (s *TagService) checkTagName(ctx context.Context, name string, excludeID int64) error {
	exists, err := s.tags.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS",
			"Tag with this name already exists")
	}
	return nil
}

func (s *TagService) checkTagGroup(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	if _, err := s.groups.FindByID(ctx, *id); err != nil {
		if shared.IsNotFound(err) {
			return shared.NewDomainError("INVALID_INPUT",
				"Tag group does not exist")
		}
		return err
	}
	return nil
}

func (s *TagService) checkGroupName(ctx context.Context, name string, excludeID int64) error {
	exists, err := s.groups.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS",
			"Tag group with this name already exists")
	}
	return nil
}
