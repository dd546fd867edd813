package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ficrammanifur/portfolio-backend/internal/model"
)

// FileMessageRepository persists the whole collection as a single JSON array
// file. Every operation is a full read-modify-write of that file; the mutex
// guards the cycle so two concurrent writers cannot lose an update. No state
// is cached between calls.
type FileMessageRepository struct {
	path string
	max  int
	mu   sync.Mutex
}

// NewFileMessageRepository creates a repository backed by the JSON file at
// path. maxMessages is the insert cap enforced by Save.
func NewFileMessageRepository(path string, maxMessages int) *FileMessageRepository {
	return &FileMessageRepository{path: path, max: maxMessages}
}

// Ensure FileMessageRepository implements MessageRepository at compile time.
var _ MessageRepository = (*FileMessageRepository)(nil)

// load reads the collection from disk. A missing file is an empty collection.
// An unreadable or unparseable file also degrades to empty, with a warning,
// so a corrupt store never fails a request.
func (r *FileMessageRepository) load() []*model.Message {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("messages file unreadable, treating as empty", "path", r.path, "error", err)
		}
		return []*model.Message{}
	}
	var msgs []*model.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		slog.Warn("messages file corrupt, treating as empty", "path", r.path, "error", err)
		return []*model.Message{}
	}
	if msgs == nil {
		msgs = []*model.Message{}
	}
	return msgs
}

// save rewrites the whole collection with human-readable indentation.
func (r *FileMessageRepository) save(msgs []*model.Message) error {
	data, err := json.MarshalIndent(msgs, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal: %w", err)
	}
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("store: mkdir: %w", err)
		}
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("store: write: %w", err)
	}
	return nil
}

// sortNewestFirst stable-sorts by Timestamp descending. Stability keeps the
// relative order of messages whose timestamps compare equal.
func sortNewestFirst(msgs []*model.Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp > msgs[j].Timestamp
	})
}

// Init writes an empty collection when no file exists yet.
func (r *FileMessageRepository) Init(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := os.Stat(r.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("store: stat: %w", err)
	}
	if err := r.save([]*model.Message{}); err != nil {
		return err
	}
	slog.Info("created empty messages file", "path", r.path)
	return nil
}

// List returns the collection in its persisted order (newest-first).
func (r *FileMessageRepository) List(_ context.Context) ([]*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(), nil
}

// Save inserts msg at the front of the collection. When that pushes the size
// past the insert cap, the collection is sorted newest-first and truncated to
// the cap before the single rewrite.
func (r *FileMessageRepository) Save(_ context.Context, msg *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := append([]*model.Message{msg}, r.load()...)
	if len(msgs) > r.max {
		sortNewestFirst(msgs)
		msgs = msgs[:r.max]
	}
	return r.save(msgs)
}

// Delete removes the message with the given id, or returns ErrNotFound and
// leaves the file untouched when no message matches.
func (r *FileMessageRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.load()
	kept := make([]*model.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(msgs) {
		return ErrNotFound
	}
	return r.save(kept)
}

// TrimToLimit truncates the collection to the limit newest messages. The file
// is only rewritten when something was actually evicted.
func (r *FileMessageRepository) TrimToLimit(_ context.Context, limit int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit < 0 {
		limit = 0
	}
	msgs := r.load()
	if len(msgs) <= limit {
		return len(msgs), nil
	}
	sortNewestFirst(msgs)
	msgs = msgs[:limit]
	if err := r.save(msgs); err != nil {
		return 0, err
	}
	return len(msgs), nil
}

// Stats reports the stored count and whether the file currently exists.
func (r *FileMessageRepository) Stats(_ context.Context) (model.StoreStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, statErr := os.Stat(r.path)
	return model.StoreStats{
		MessageCount:  len(r.load()),
		StorageExists: statErr == nil,
	}, nil
}
