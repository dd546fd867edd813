package model

import "strings"

// TimestampLayout is the layout for Message.Timestamp. It is fixed-width
// (always six fractional digits, always UTC "Z") so that lexicographic order
// on the stored string equals chronological order; the store sorts and evicts
// by this string.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// CreatedAtLayout is the human-readable layout for Message.CreatedAt.
// Cosmetic only; Timestamp is the ordering key.
const CreatedAtLayout = "2006-01-02 15:04:05"

// Message represents one stored contact-form submission.
// JSON field names are the persisted layout and must not change.
type Message struct {
	ID        string `json:"id"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Position  string `json:"position"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	CreatedAt string `json:"created_at"`
}

// NewMessage carries the caller-supplied fields of a submission.
// The validate tags are checked by the HTTP layer on the normalized value,
// so "required" means non-empty after trimming.
type NewMessage struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Position string `json:"position" validate:"required"`
	Message  string `json:"message" validate:"required,max=5000"`
}

// Normalized returns a copy with surrounding whitespace trimmed from every
// field and the email lower-cased.
func (n NewMessage) Normalized() NewMessage {
	return NewMessage{
		FullName: strings.TrimSpace(n.FullName),
		Email:    strings.ToLower(strings.TrimSpace(n.Email)),
		Position: strings.TrimSpace(n.Position),
		Message:  strings.TrimSpace(n.Message),
	}
}

// StoreStats reports the state of the backing store for the health endpoint.
type StoreStats struct {
	// MessageCount is the number of currently stored messages.
	MessageCount int
	// StorageExists reports whether the backing store is present: the JSON
	// file on disk for the file backend, an open database for badger, the
	// messages table for postgres.
	StorageExists bool
}
