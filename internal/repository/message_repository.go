package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gcgcontrol/panel-service/internal/domain"
)

// MessageRepository manages the append-only chat log.
type MessageRepository interface {
	Insert(ctx context.Context, msg *domain.ChatMessage) error
	ListOrdered(ctx context.Context) ([]domain.ChatMessage, error)
	// Delete removes one message and reports whether anything was deleted.
	Delete(ctx context.Context, id string) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository returns a Postgres-backed implementation.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) Insert(ctx context.Context, msg *domain.ChatMessage) error {
	const query = `
        INSERT INTO messages (id, sender_id, sender_display_name, body, tagged_client, tagged_type)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		msg.ID,
		msg.SenderID,
		msg.SenderDisplayName,
		msg.Body,
		msg.TaggedClient,
		msg.TaggedType,
	).Scan(&msg.CreatedAt)
}

func (r *messageRepository) ListOrdered(ctx context.Context) ([]domain.ChatMessage, error) {
	const query = `
        SELECT id, sender_id, sender_display_name, body, tagged_client, tagged_type, created_at
        FROM messages ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ChatMessage
	for rows.Next() {
		var msg domain.ChatMessage
		if err := rows.Scan(
			&msg.ID,
			&msg.SenderID,
			&msg.SenderDisplayName,
			&msg.Body,
			&msg.TaggedClient,
			&msg.TaggedType,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}

func (r *messageRepository) Delete(ctx context.Context, id string) (bool, error) {
	const query = `DELETE FROM messages WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *messageRepository) DeleteAll(ctx context.Context) (int64, error) {
	const query = `DELETE FROM messages`
	cmd, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *messageRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM messages WHERE created_at < $1`
	cmd, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
