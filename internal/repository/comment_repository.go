package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kickoffhub/kickoffhub/internal/database"
	"github.com/kickoffhub/kickoffhub/internal/models"
)

// CommentRepository defines the interface for comment operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID int64) ([]models.Comment, error)
	Delete(ctx context.Context, id, userID int64) error
}

// CommentSQLRepository handles database operations for the comments table.
type CommentSQLRepository struct {
	db *sql.DB
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(db *sql.DB) *CommentSQLRepository {
	return &CommentSQLRepository{db: db}
}

// Create stores a new comment and fills in the assigned ID.
func (r *CommentSQLRepository) Create(ctx context.Context, comment *models.Comment) error {
	if database.IsPostgreSQL() {
		query := database.ConvertPlaceholders(`
			INSERT INTO comments (post_id, user_id, body, created_at)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP)
			RETURNING id`)
		if err := r.db.QueryRowContext(ctx, query,
			comment.PostID, comment.UserID, comment.Body).Scan(&comment.ID); err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		return nil
	}

	query := database.ConvertPlaceholders(`
		INSERT INTO comments (post_id, user_id, body, created_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)`)
	result, err := r.db.ExecContext(ctx, query, comment.PostID, comment.UserID, comment.Body)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read new comment id: %w", err)
	}
	comment.ID = id
	return nil
}

// ListByPost returns a post's comments, oldest first, with author names.
func (r *CommentSQLRepository) ListByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	query := database.ConvertPlaceholders(`
		SELECT c.id, c.post_id, c.user_id, u.username, c.body, c.created_at
		FROM comments c
		INNER JOIN users u ON u.id = c.user_id
		WHERE c.post_id = ?
		ORDER BY c.created_at ASC`)

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Author, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return comments, nil
}

// Delete removes a comment. Only the owning user's row matches.
func (r *CommentSQLRepository) Delete(ctx context.Context, id, userID int64) error {
	query := database.ConvertPlaceholders(`DELETE FROM comments WHERE id = ? AND user_id = ?`)

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
