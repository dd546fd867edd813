package service

import (
	"context"

	"github.com/ficrammanifur/portfolio-backend/internal/model"
)

// MessageService defines the business logic for contact-form messages.
// It is the operation contract of the message store: the HTTP layer is a
// pass-through adapter on top of it.
type MessageService interface {
	// Create builds a record from input with a fresh id and current
	// timestamps, normalizes the fields and persists it. The store's insert
	// cap applies in the same write. Returns the created record.
	Create(ctx context.Context, input model.NewMessage) (*model.Message, error)

	// List returns all stored messages, newest-first.
	List(ctx context.Context) ([]*model.Message, error)

	// Delete removes the message with the given id. Returns
	// repository.ErrNotFound when no message matches.
	Delete(ctx context.Context, id string) error

	// CleanupToLimit trims the store to at most limit messages, evicting the
	// oldest, and returns the resulting count.
	CleanupToLimit(ctx context.Context, limit int) (int, error)
}
