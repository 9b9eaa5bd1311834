package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shelter-kit/shelter-service/internal/domain"
)

// PostRepository encapsulates post persistence. Deleting a post cascades to
// its comments at the schema level.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	Update(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id int64) (*domain.Post, error)
	List(ctx context.Context) ([]domain.Post, error)
	Delete(ctx context.Context, id int64) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

type postRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository instantiates repository.
func NewPostRepository(pool *pgxpool.Pool) PostRepository {
	return &postRepository{pool: pool}
}

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	const query = `
        INSERT INTO posts (title, body, user_id, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, version`
	return r.pool.QueryRow(ctx, query,
		post.Title,
		post.Body,
		post.UserID,
		post.Status,
	).Scan(&post.ID, &post.CreatedAt, &post.Version)
}

func (r *postRepository) Update(ctx context.Context, post *domain.Post) error {
	const query = `
        UPDATE posts SET title=$1, body=$2, status=$3, version=version+1
        WHERE id=$4 AND version=$5`
	cmd, err := r.pool.Exec(ctx, query,
		post.Title,
		post.Body,
		post.Status,
		post.ID,
		post.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	post.Version++
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	const query = `
        SELECT p.id, p.title, p.body, p.user_id, u.username, p.status, p.created_at, p.version
        FROM posts p
        LEFT JOIN users u ON u.id = p.user_id
        WHERE p.id=$1`

	var post domain.Post
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&post.ID,
		&post.Title,
		&post.Body,
		&post.UserID,
		&post.OwnerUsername,
		&post.Status,
		&post.CreatedAt,
		&post.Version,
	); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context) ([]domain.Post, error) {
	const query = `
        SELECT p.id, p.title, p.body, p.user_id, u.username, p.status, p.created_at, p.version
        FROM posts p
        LEFT JOIN users u ON u.id = p.user_id
        ORDER BY p.created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Post
	for rows.Next() {
		var post domain.Post
		if err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Body,
			&post.UserID,
			&post.OwnerUsername,
			&post.Status,
			&post.CreatedAt,
			&post.Version,
		); err != nil {
			return nil, err
		}
		result = append(result, post)
	}
	return result, rows.Err()
}

func (r *postRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *postRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM posts WHERE id=$1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
