package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gcgcontrol/panel-service/internal/domain"
)

// PanelConfigRepository stores the single shared retention policy record.
// It is process-wide configuration, not per-session state, so all clients see
// the same cutoff.
type PanelConfigRepository interface {
	// GetRetention returns the stored policy, or nil when no admin has set one.
	GetRetention(ctx context.Context) (*domain.RetentionPolicy, error)
	SetRetention(ctx context.Context, policy domain.RetentionPolicy) error
}

const retentionKey = "message_delete_time"

type panelConfigRepository struct {
	pool *pgxpool.Pool
}

// NewPanelConfigRepository returns a Postgres-backed implementation.
func NewPanelConfigRepository(pool *pgxpool.Pool) PanelConfigRepository {
	return &panelConfigRepository{pool: pool}
}

func (r *panelConfigRepository) GetRetention(ctx context.Context) (*domain.RetentionPolicy, error) {
	const query = `
        SELECT purge_before, updated_by, updated_at
        FROM panel_config WHERE key=$1`

	var policy domain.RetentionPolicy
	err := r.pool.QueryRow(ctx, query, retentionKey).Scan(
		&policy.PurgeBefore,
		&policy.UpdatedBy,
		&policy.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *panelConfigRepository) SetRetention(ctx context.Context, policy domain.RetentionPolicy) error {
	const query = `
        INSERT INTO panel_config (key, purge_before, updated_by, updated_at)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (key) DO UPDATE SET
            purge_before=EXCLUDED.purge_before,
            updated_by=EXCLUDED.updated_by,
            updated_at=EXCLUDED.updated_at`

	_, err := r.pool.Exec(ctx, query, retentionKey, policy.PurgeBefore, policy.UpdatedBy, policy.UpdatedAt)
	return err
}
