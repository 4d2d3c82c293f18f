package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gcgcontrol/panel-service/internal/domain"
)

// AnalystRepository defines persistence access for analyst presence records.
type AnalystRepository interface {
	Upsert(ctx context.Context, analyst *domain.Analyst) error
	GetByID(ctx context.Context, id string) (*domain.Analyst, error)
	List(ctx context.Context) ([]domain.Analyst, error)
	UpdateStatus(ctx context.Context, id string, status domain.AnalystStatus, modifiedBy string, modifiedAt time.Time) error
	// SetOffline stamps last_seen and clears the admin override fields.
	SetOffline(ctx context.Context, id string, lastSeen time.Time) error
	Delete(ctx context.Context, id string) error
}

type analystRepository struct {
	pool *pgxpool.Pool
}

// NewAnalystRepository returns a Postgres-backed implementation.
func NewAnalystRepository(pool *pgxpool.Pool) AnalystRepository {
	return &analystRepository{pool: pool}
}

const analystColumns = `
        id, display_name, email, avatar_url, position, assigned_clients,
        internal_extension, shift_start, shift_end, current_task, status,
        last_heartbeat_at, last_seen, last_modified_by, last_modified_at,
        created_at, updated_at`

func (r *analystRepository) Upsert(ctx context.Context, analyst *domain.Analyst) error {
	const query = `
        INSERT INTO analysts (
            id, display_name, email, avatar_url, position, assigned_clients,
            internal_extension, shift_start, shift_end, current_task, status,
            last_heartbeat_at, last_seen, last_modified_by, last_modified_at
        )
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        ON CONFLICT (id) DO UPDATE SET
            display_name=EXCLUDED.display_name,
            email=EXCLUDED.email,
            avatar_url=EXCLUDED.avatar_url,
            position=EXCLUDED.position,
            assigned_clients=EXCLUDED.assigned_clients,
            internal_extension=EXCLUDED.internal_extension,
            shift_start=EXCLUDED.shift_start,
            shift_end=EXCLUDED.shift_end,
            current_task=EXCLUDED.current_task,
            status=EXCLUDED.status,
            last_heartbeat_at=EXCLUDED.last_heartbeat_at,
            last_seen=EXCLUDED.last_seen,
            last_modified_by=EXCLUDED.last_modified_by,
            last_modified_at=EXCLUDED.last_modified_at,
            updated_at=NOW()
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		analyst.ID,
		analyst.DisplayName,
		analyst.Email,
		analyst.AvatarURL,
		analyst.Position,
		analyst.AssignedClients,
		analyst.InternalExtension,
		analyst.ShiftStart,
		analyst.ShiftEnd,
		analyst.CurrentTask,
		analyst.Status,
		analyst.LastHeartbeatAt,
		analyst.LastSeen,
		analyst.LastModifiedBy,
		analyst.LastModifiedAt,
	).Scan(&analyst.CreatedAt, &analyst.UpdatedAt)
}

func (r *analystRepository) GetByID(ctx context.Context, id string) (*domain.Analyst, error) {
	const query = `SELECT` + analystColumns + ` FROM analysts WHERE id=$1`

	var analyst domain.Analyst
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&analyst.ID,
		&analyst.DisplayName,
		&analyst.Email,
		&analyst.AvatarURL,
		&analyst.Position,
		&analyst.AssignedClients,
		&analyst.InternalExtension,
		&analyst.ShiftStart,
		&analyst.ShiftEnd,
		&analyst.CurrentTask,
		&analyst.Status,
		&analyst.LastHeartbeatAt,
		&analyst.LastSeen,
		&analyst.LastModifiedBy,
		&analyst.LastModifiedAt,
		&analyst.CreatedAt,
		&analyst.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &analyst, nil
}

func (r *analystRepository) List(ctx context.Context) ([]domain.Analyst, error) {
	const query = `SELECT` + analystColumns + ` FROM analysts ORDER BY display_name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Analyst
	for rows.Next() {
		var analyst domain.Analyst
		if err := rows.Scan(
			&analyst.ID,
			&analyst.DisplayName,
			&analyst.Email,
			&analyst.AvatarURL,
			&analyst.Position,
			&analyst.AssignedClients,
			&analyst.InternalExtension,
			&analyst.ShiftStart,
			&analyst.ShiftEnd,
			&analyst.CurrentTask,
			&analyst.Status,
			&analyst.LastHeartbeatAt,
			&analyst.LastSeen,
			&analyst.LastModifiedBy,
			&analyst.LastModifiedAt,
			&analyst.CreatedAt,
			&analyst.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, analyst)
	}
	return result, rows.Err()
}

func (r *analystRepository) UpdateStatus(ctx context.Context, id string, status domain.AnalystStatus, modifiedBy string, modifiedAt time.Time) error {
	const query = `
        UPDATE analysts
        SET status=$1, last_modified_by=$2, last_modified_at=$3, updated_at=NOW()
        WHERE id=$4`

	cmd, err := r.pool.Exec(ctx, query, status, modifiedBy, modifiedAt, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *analystRepository) SetOffline(ctx context.Context, id string, lastSeen time.Time) error {
	// Going offline ends any pending admin override, so the next session's
	// heartbeats resume normal self-management.
	const query = `
        UPDATE analysts
        SET status=$1, last_seen=$2, last_modified_by='', last_modified_at=NULL, updated_at=NOW()
        WHERE id=$3`

	cmd, err := r.pool.Exec(ctx, query, domain.StatusOffline, lastSeen, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *analystRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM analysts WHERE id=$1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
