package repository

import (
	"context"

	"github.com/ficrammanifur/portfolio-backend/internal/model"
)

// MessageRepository is the persistence interface for contact-form messages.
// Implementations keep the collection newest-first by Message.Timestamp and
// enforce the insert cap they were constructed with, so that after every
// mutating call the stored count never exceeds that cap.
type MessageRepository interface {
	// Init prepares the backing store at process start. The file backend
	// creates an empty collection when none exists yet.
	Init(ctx context.Context) error

	// List returns all stored messages, newest-first.
	List(ctx context.Context) ([]*model.Message, error)

	// Save inserts msg at the front of the collection and applies the insert
	// cap: when the collection grows beyond the cap, the oldest messages by
	// Timestamp are evicted in the same write.
	Save(ctx context.Context, msg *model.Message) error

	// Delete removes the message with the given id.
	// Returns ErrNotFound when no message matches.
	Delete(ctx context.Context, id string) error

	// TrimToLimit evicts oldest-by-Timestamp messages until at most limit
	// remain, and returns the resulting count. A negative limit is treated
	// as zero.
	TrimToLimit(ctx context.Context, limit int) (int, error)

	// Stats reports the stored message count and whether the backing store
	// currently exists.
	Stats(ctx context.Context) (model.StoreStats, error)
}
