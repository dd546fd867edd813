package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/ficrammanifur/portfolio-backend/internal/model"
)

// messageKeyPrefix namespaces message entries in the badger keyspace.
var messageKeyPrefix = []byte("msg:")

// messageKey builds the key "msg:<timestamp>:<id>". The timestamp is the
// fixed-width ISO string from the model, so plain lexicographic key order is
// chronological; the id suffix keeps keys unique when two messages share a
// timestamp.
func messageKey(timestamp, id string) []byte {
	return []byte("msg:" + timestamp + ":" + id)
}

// keyID returns the id segment of a message key, everything after the final
// colon. The timestamp segment contains colons; ids are uuids and never do.
func keyID(k []byte) string {
	return string(k[bytes.LastIndexByte(k, ':')+1:])
}

// BadgerMessageRepository stores messages in an embedded badger database,
// one JSON-encoded entry per message. Newest-first listing falls out of
// reverse key iteration; eviction deletes the smallest (oldest) keys.
type BadgerMessageRepository struct {
	db  *badger.DB
	max int
}

// NewBadgerMessageRepository creates a repository on an already-open badger
// database. maxMessages is the insert cap enforced by Save. The caller owns
// the database lifecycle.
func NewBadgerMessageRepository(db *badger.DB, maxMessages int) *BadgerMessageRepository {
	return &BadgerMessageRepository{db: db, max: maxMessages}
}

// Ensure BadgerMessageRepository implements MessageRepository at compile time.
var _ MessageRepository = (*BadgerMessageRepository)(nil)

// Init is a no-op: badger.Open already created the store on disk.
func (r *BadgerMessageRepository) Init(_ context.Context) error {
	return nil
}

// collectKeys returns all message keys oldest-first. It sees writes pending
// in the surrounding transaction.
func collectKeys(txn *badger.Txn) [][]byte {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Seek(messageKeyPrefix); it.ValidForPrefix(messageKeyPrefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys
}

// trimTxn deletes the oldest entries until at most limit remain and returns
// the resulting count. A negative limit empties the store rather than
// over-slicing the key list.
func trimTxn(txn *badger.Txn, limit int) (int, error) {
	if limit < 0 {
		limit = 0
	}
	keys := collectKeys(txn)
	if len(keys) <= limit {
		return len(keys), nil
	}
	for _, k := range keys[:len(keys)-limit] {
		if err := txn.Delete(k); err != nil {
			return 0, err
		}
	}
	return limit, nil
}

// List returns all messages newest-first by iterating keys in reverse.
// Entries that fail to decode are skipped with a warning so one corrupt value
// cannot take the whole listing down.
func (r *BadgerMessageRepository) List(_ context.Context) ([]*model.Message, error) {
	msgs := []*model.Message{}
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// Seek past the largest possible message key, then walk backwards.
		seek := append(append([]byte{}, messageKeyPrefix...), 0xff)
		for it.Seek(seek); it.ValidForPrefix(messageKeyPrefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var m model.Message
				if err := json.Unmarshal(val, &m); err != nil {
					slog.Warn("skipping undecodable message entry", "key", string(item.Key()), "error", err)
					return nil
				}
				msgs = append(msgs, &m)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	return msgs, nil
}

// Save writes msg and enforces the insert cap in the same transaction.
func (r *BadgerMessageRepository) Save(_ context.Context, msg *model.Message) error {
	val, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("store: marshal: %w", err)
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(messageKey(msg.Timestamp, msg.ID), val); err != nil {
			return err
		}
		_, err := trimTxn(txn, r.max)
		return err
	})
	if err != nil {
		return fmt.Errorf("store: save: %w", err)
	}
	return nil
}

// Delete removes the entry whose id segment equals the given id, or returns
// ErrNotFound when no entry matches. The whole segment is compared, so an id
// crafted to reproduce the tail of another key cannot match that key.
func (r *BadgerMessageRepository) Delete(_ context.Context, id string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		for _, k := range collectKeys(txn) {
			if keyID(k) == id {
				return txn.Delete(k)
			}
		}
		return ErrNotFound
	})
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("store: delete: %w", err)
	}
	return nil
}

// TrimToLimit evicts the oldest entries until at most limit remain.
func (r *BadgerMessageRepository) TrimToLimit(_ context.Context, limit int) (int, error) {
	remaining := 0
	err := r.db.Update(func(txn *badger.Txn) error {
		n, err := trimTxn(txn, limit)
		remaining = n
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("store: trim: %w", err)
	}
	return remaining, nil
}

// Stats counts stored entries; the store exists as long as the database is open.
func (r *BadgerMessageRepository) Stats(_ context.Context) (model.StoreStats, error) {
	count := 0
	err := r.db.View(func(txn *badger.Txn) error {
		count = len(collectKeys(txn))
		return nil
	})
	if err != nil {
		return model.StoreStats{}, fmt.Errorf("store: stats: %w", err)
	}
	return model.StoreStats{
		MessageCount:  count,
		StorageExists: !r.db.IsClosed(),
	}, nil
}
