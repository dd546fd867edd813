package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ficrammanifur/portfolio-backend/internal/model"
)

// PgMessageRepository is the PostgreSQL implementation of MessageRepository.
// The messages table carries a seq BIGSERIAL column so that rows with equal
// timestamps order by insertion (ORDER BY ts DESC, seq DESC), matching the
// stable-sort behavior of the file backend.
type PgMessageRepository struct {
	pool *pgxpool.Pool
	max  int
}

// NewPgMessageRepository creates a PgMessageRepository backed by the given
// pool. maxMessages is the insert cap enforced by Save.
func NewPgMessageRepository(pool *pgxpool.Pool, maxMessages int) *PgMessageRepository {
	return &PgMessageRepository{pool: pool, max: maxMessages}
}

// Ensure PgMessageRepository implements MessageRepository at compile time.
var _ MessageRepository = (*PgMessageRepository)(nil)

// Init verifies the database is reachable and the messages table exists.
func (r *PgMessageRepository) Init(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("store: ping: %w", err)
	}
	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT to_regclass('messages') IS NOT NULL`,
	).Scan(&exists); err != nil {
		return fmt.Errorf("store: check schema: %w", err)
	}
	if !exists {
		return fmt.Errorf("store: messages table missing, run cmd/migrate first")
	}
	return nil
}

// List returns all messages newest-first.
func (r *PgMessageRepository) List(ctx context.Context) ([]*model.Message, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, full_name, email, position, message, ts, created_at
		 FROM messages
		 ORDER BY ts DESC, seq DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := []*model.Message{}
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.FullName, &m.Email, &m.Position, &m.Message, &m.Timestamp, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, &m)
	}
	return msgs, rows.Err()
}

// Save inserts the message and evicts rows beyond the insert cap in one
// transaction, keeping the newest rows by (ts, seq).
func (r *PgMessageRepository) Save(ctx context.Context, msg *model.Message) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO messages (id, full_name, email, position, message, ts, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		msg.ID, msg.FullName, msg.Email, msg.Position, msg.Message, msg.Timestamp, msg.CreatedAt,
	); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM messages
		 WHERE id NOT IN (SELECT id FROM messages ORDER BY ts DESC, seq DESC LIMIT $1)`,
		r.max,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Delete removes the message with the given id.
// Returns ErrNotFound when no row matches.
func (r *PgMessageRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TrimToLimit evicts the oldest rows until at most limit remain. A negative
// limit would be rejected by the database's LIMIT clause, so it is clamped.
func (r *PgMessageRepository) TrimToLimit(ctx context.Context, limit int) (int, error) {
	if limit < 0 {
		limit = 0
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM messages
		 WHERE id NOT IN (SELECT id FROM messages ORDER BY ts DESC, seq DESC LIMIT $1)`,
		limit,
	); err != nil {
		return 0, err
	}
	var remaining int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM messages`).Scan(&remaining); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return remaining, nil
}

// Stats reports the row count; the store exists once the messages table does.
func (r *PgMessageRepository) Stats(ctx context.Context) (model.StoreStats, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT to_regclass('messages') IS NOT NULL`,
	).Scan(&exists); err != nil {
		return model.StoreStats{}, err
	}
	if !exists {
		return model.StoreStats{}, nil
	}
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM messages`).Scan(&count); err != nil {
		return model.StoreStats{}, err
	}
	return model.StoreStats{MessageCount: count, StorageExists: true}, nil
}
