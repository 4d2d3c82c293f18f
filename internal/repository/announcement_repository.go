package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gcgcontrol/panel-service/internal/domain"
)

// AnnouncementRepository manages the announcements board.
type AnnouncementRepository interface {
	Insert(ctx context.Context, ann *domain.Announcement) error
	Update(ctx context.Context, ann *domain.Announcement) error
	GetByID(ctx context.Context, id string) (*domain.Announcement, error)
	// List returns announcements ordered by created_at descending.
	List(ctx context.Context) ([]domain.Announcement, error)
	Delete(ctx context.Context, id string) error
}

type announcementRepository struct {
	pool *pgxpool.Pool
}

// NewAnnouncementRepository returns a Postgres-backed implementation.
func NewAnnouncementRepository(pool *pgxpool.Pool) AnnouncementRepository {
	return &announcementRepository{pool: pool}
}

func (r *announcementRepository) Insert(ctx context.Context, ann *domain.Announcement) error {
	const query = `
        INSERT INTO announcements (id, title, content, created_by, updated_by)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		ann.ID,
		ann.Title,
		ann.Content,
		ann.CreatedBy,
		ann.UpdatedBy,
	).Scan(&ann.CreatedAt, &ann.UpdatedAt)
}

func (r *announcementRepository) Update(ctx context.Context, ann *domain.Announcement) error {
	const query = `
        UPDATE announcements
        SET title=$1, content=$2, updated_by=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING updated_at`

	if err := r.pool.QueryRow(ctx, query,
		ann.Title,
		ann.Content,
		ann.UpdatedBy,
		ann.ID,
	).Scan(&ann.UpdatedAt); err != nil {
		return err
	}
	return nil
}

func (r *announcementRepository) GetByID(ctx context.Context, id string) (*domain.Announcement, error) {
	const query = `
        SELECT id, title, content, created_by, created_at, updated_by, updated_at
        FROM announcements WHERE id=$1`

	var ann domain.Announcement
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ann.ID,
		&ann.Title,
		&ann.Content,
		&ann.CreatedBy,
		&ann.CreatedAt,
		&ann.UpdatedBy,
		&ann.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ann, nil
}

func (r *announcementRepository) List(ctx context.Context) ([]domain.Announcement, error) {
	const query = `
        SELECT id, title, content, created_by, created_at, updated_by, updated_at
        FROM announcements ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Announcement
	for rows.Next() {
		var ann domain.Announcement
		if err := rows.Scan(
			&ann.ID,
			&ann.Title,
			&ann.Content,
			&ann.CreatedBy,
			&ann.CreatedAt,
			&ann.UpdatedBy,
			&ann.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ann)
	}
	return result, rows.Err()
}

func (r *announcementRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM announcements WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
