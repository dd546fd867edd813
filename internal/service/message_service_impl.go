package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ficrammanifur/portfolio-backend/internal/model"
	"github.com/ficrammanifur/portfolio-backend/internal/repository"
)

// messageServiceImpl is the production implementation of MessageService.
type messageServiceImpl struct {
	repo repository.MessageRepository
}

// NewMessageService creates a MessageService backed by the given repository.
func NewMessageService(repo repository.MessageRepository) MessageService {
	return &messageServiceImpl{repo: repo}
}

// Create normalizes the input (trim, lower-case email), assigns a fresh UUID
// and the current UTC instant, and persists the record. Normalization happens
// here even when the HTTP layer already normalized, so the store's contract
// does not depend on the caller.
func (s *messageServiceImpl) Create(ctx context.Context, input model.NewMessage) (*model.Message, error) {
	in := input.Normalized()
	now := time.Now().UTC()
	msg := &model.Message{
		ID:        uuid.NewString(),
		FullName:  in.FullName,
		Email:     in.Email,
		Position:  in.Position,
		Message:   in.Message,
		Timestamp: now.Format(model.TimestampLayout),
		CreatedAt: now.Format(model.CreatedAtLayout),
	}
	if err := s.repo.Save(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// List returns all stored messages in their persisted order.
func (s *messageServiceImpl) List(ctx context.Context) ([]*model.Message, error) {
	return s.repo.List(ctx)
}

// Delete removes the message with the given id.
func (s *messageServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// CleanupToLimit trims the store to at most limit messages.
func (s *messageServiceImpl) CleanupToLimit(ctx context.Context, limit int) (int, error) {
	if limit < 0 {
		limit = 0
	}
	return s.repo.TrimToLimit(ctx, limit)
}
