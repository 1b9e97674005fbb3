package service

import (
	"context"
	"fmt"
	"time"

	"farmstore/internal/models"
	"farmstore/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContactStore persists contact form submissions.
type ContactStore interface {
	CreateContactRequest(ctx context.Context, req *models.ContactRequest) error
}

// ContactService handles contact form submissions: write-once rows
// plus an owner alert.
type ContactService struct {
	store  ContactStore
	events EventPublisher
	logger *zap.Logger
}

// NewContactService creates a new contact service
func NewContactService(store ContactStore, events EventPublisher) *ContactService {
	return &ContactService{
		store:  store,
		events: events,
		logger: util.GetLogger(),
	}
}

// Submit persists the request and dispatches the owner alert through
// the event bus. The alert is best-effort.
func (s *ContactService) Submit(ctx context.Context, req *models.ContactRequest) error {
	ctx, span := util.StartSpan(ctx, "ContactService.Submit")
	defer span.End()

	if req.Source == "" {
		req.Source = "home"
	}
	if err := s.store.CreateContactRequest(ctx, req); err != nil {
		return fmt.Errorf("failed to save contact request: %w", err)
	}

	event := &models.ContactSubmittedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeContactSubmitted,
			Timestamp: time.Now(),
		},
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Source: req.Source,
	}
	if err := s.events.PublishContactSubmitted(ctx, event); err != nil {
		s.logger.Error("Failed to publish ContactSubmitted event", zap.Error(err))
	}

	return nil
}
