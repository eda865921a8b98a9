package content

import (
	"context"

	"github.com/store/backend/internal/domain/content"
	"github.com/store/backend/internal/domain/identity"
	"github.com/store/backend/internal/domain/shared"
)

// RequestService manages call-back requests left by visitors.
type RequestService struct {
	requests content.UserRequestRepository
}

// NewRequestService creates a new request service
func NewRequestService(requests content.UserRequestRepository) *RequestService {
	return &RequestService{requests: requests}
}

// CreateRequest stores a call-back request
func (s *RequestService) CreateRequest(ctx context.Context, name, phone string) (*content.UserRequest, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Name is required")
	}
	if err := identity.ValidatePhone(phone); err != nil {
		return nil, err
	}

	request := &content.UserRequest{Name: name, Phone: phone}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// ListRequests returns a page of requests, optionally filtered by the
// checked flag
func (s *RequestService) ListRequests(ctx context.Context, page, pageSize int, checked *bool) ([]content.UserRequest, int64, error) {
	return s.requests.List(ctx, page, pageSize, checked)
}

// MarkChecked flags a request as processed
func (s *RequestService) MarkChecked(ctx context.Context, id int64) (*content.UserRequest, error) {
	request, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	request.Checked = true
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// DeleteRequest removes a request
func (s *RequestService) DeleteRequest(ctx context.Context, id int64) error {
	return s.requests.Delete(ctx, id)
}
