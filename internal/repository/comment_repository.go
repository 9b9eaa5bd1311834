package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shelter-kit/shelter-service/internal/domain"
)

// CommentRepository encapsulates comment persistence.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	Update(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)
	List(ctx context.Context) ([]domain.Comment, error)
	ListByPost(ctx context.Context, postID int64) ([]domain.Comment, error)
	Delete(ctx context.Context, id int64) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository instantiates repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

const commentSelect = `
        SELECT c.id, c.body, c.user_id, u.username, c.post_id, c.status, c.created_at, c.version
        FROM comments c
        LEFT JOIN users u ON u.id = c.user_id`

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (body, user_id, post_id, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, version`
	return r.pool.QueryRow(ctx, query,
		comment.Body,
		comment.UserID,
		comment.PostID,
		comment.Status,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.Version)
}

func (r *commentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	const query = `
        UPDATE comments SET body=$1, status=$2, version=version+1
        WHERE id=$3 AND version=$4`
	cmd, err := r.pool.Exec(ctx, query,
		comment.Body,
		comment.Status,
		comment.ID,
		comment.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	comment.Version++
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	query := commentSelect + ` WHERE c.id=$1`

	var comment domain.Comment
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.Body,
		&comment.UserID,
		&comment.OwnerUsername,
		&comment.PostID,
		&comment.Status,
		&comment.CreatedAt,
		&comment.Version,
	); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) List(ctx context.Context) ([]domain.Comment, error) {
	query := commentSelect + ` ORDER BY c.created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComments(rows)
}

func (r *commentRepository) ListByPost(ctx context.Context, postID int64) ([]domain.Comment, error) {
	query := commentSelect + ` WHERE c.post_id=$1 ORDER BY c.created_at`
	rows, err := r.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComments(rows)
}

func scanComments(rows pgx.Rows) ([]domain.Comment, error) {
	var result []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.Body,
			&comment.UserID,
			&comment.OwnerUsername,
			&comment.PostID,
			&comment.Status,
			&comment.CreatedAt,
			&comment.Version,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *commentRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM comments WHERE id=$1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
