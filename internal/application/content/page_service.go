package content

import (
	"context"

	"github.com/store/backend/internal/domain/content"
	"github.com/store/backend/internal/domain/identity"
	"github.com/store/backend/internal/domain/shared"
)

// PageBlockInput is one titled section of a static page.
type PageBlockInput struct {
	Title       string
	Description string
}

// PageService manages the static page blocks, the contact card and the
// repair price list.
type PageService struct {
	pageBlocks content.PageBlockRepository
	contacts   content.ContactRepository
	repairs    content.RepairServiceRepository
	uow        shared.UnitOfWork
}

// NewPageService creates a new page service
func NewPageService(
	pageBlocks content.PageBlockRepository,
	contacts content.ContactRepository,
	repairs content.RepairServiceRepository,
	uow shared.UnitOfWork,
) *PageService {
	return &PageService{
		pageBlocks: pageBlocks,
		contacts:   contacts,
		repairs:    repairs,
		uow:        uow,
	}
}

// SeedContact makes sure the contact card row exists. Called at
// startup.
func (s *PageService) SeedContact(ctx context.Context) error {
	_, err := s.contacts.Get(ctx)
	if err == nil {
		return nil
	}
	if !shared.IsNotFound(err) {
		return err
	}
	return s.contacts.Save(ctx, &content.Contact{})
}

// GetPageBlocks returns the blocks of one static page
func (s *PageService) GetPageBlocks(ctx context.Context, pageType string) ([]content.PageBlock, error) {
	return s.pageBlocks.FindByPageType(ctx, pageType)
}

// ReplacePageBlocks swaps the whole block list of a static page in one
// transaction. Every block must pass the length limits or nothing is
// written.
func (s *PageService) ReplacePageBlocks(ctx context.Context, pageType string, inputs []PageBlockInput) ([]content.PageBlock, error) {
	if pageType == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Page type is required")
	}

	rows := make([]*content.PageBlock, 0, len(inputs))
	for _, input := range inputs {
		block := &content.PageBlock{
			PageType:    pageType,
			Title:       input.Title,
			Description: input.Description,
		}
		if err := block.Validate(); err != nil {
			return nil, err
		}
		rows = append(rows, block)
	}

	err := s.uow.Do(ctx, func(ctx context.Context) error {
		if err := s.pageBlocks.DeleteByPageType(ctx, pageType); err != nil {
			return err
		}
		return s.pageBlocks.Create(ctx, rows)
	})
	if err != nil {
		return nil, err
	}
	return s.pageBlocks.FindByPageType(ctx, pageType)
}

// GetContact returns the contact card
func (s *PageService) GetContact(ctx context.Context) (*content.Contact, error) {
	return s.contacts.Get(ctx)
}

// UpdateContact updates the contact card
func (s *PageService) UpdateContact(ctx context.Context, phone, email, address, schedule string) (*content.Contact, error) {
	if phone != "" {
		if err := identity.ValidatePhone(phone); err != nil {
			return nil, err
		}
	}

	contact, err := s.contacts.Get(ctx)
	if err != nil {
		return nil, err
	}
	contact.Phone = phone
	contact.Email = email
	contact.Address = address
	contact.Schedule = schedule
	if err := s.contacts.Save(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// ListRepairServices returns the repair price list
func (s *PageService) ListRepairServices(ctx context.Context) ([]content.RepairService, error) {
	return s.repairs.FindAll(ctx)
}

// ReplaceRepairServices swaps the whole repair price list in one
// transaction.
func (s *PageService) ReplaceRepairServices(ctx context.Context, services []content.RepairService) ([]content.RepairService, error) {
	rows := make([]*content.RepairService, 0, len(services))
	for _, svc := range services {
		if svc.Name == "" || svc.Price == "" {
			return nil, shared.NewDomainError("INVALID_INPUT",
				"Repair service requires a name and a price")
		}
		rows = append(rows, &content.RepairService{Name: svc.Name, Price: svc.Price})
	}

	err := s.uow.Do(ctx, func(ctx context.Context) error {
		if err := s.repairs.DeleteAll(ctx); err != nil {
			return err
		}
		return s.repairs.Create(ctx, rows)
	})
	if err != nil {
		return nil, err
	}
	return s.repairs.FindAll(ctx)
}
