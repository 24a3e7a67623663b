package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kickoffhub/kickoffhub/internal/database"
	"github.com/kickoffhub/kickoffhub/internal/models"
)

// PostRepository defines the interface for post operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	List(ctx context.Context, opts ListOptions) ([]models.Post, int, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id, userID int64) error
	IncrementLikes(ctx context.Context, id int64) error
}

// PostSQLRepository handles database operations for the posts table.
type PostSQLRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *sql.DB) *PostSQLRepository {
	return &PostSQLRepository{db: db}
}

const postColumns = `p.id, p.user_id, u.username, p.title, p.slug, p.body, p.body_html,
	p.tags, p.like_count, p.created_at, p.updated_at`

// Create stores a new post and fills in the assigned ID.
func (r *PostSQLRepository) Create(ctx context.Context, post *models.Post) error {
	if database.IsPostgreSQL() {
		query := database.ConvertPlaceholders(`
			INSERT INTO posts (user_id, title, slug, body, body_html, tags, like_count, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, 0, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
			RETURNING id`)
		if err := r.db.QueryRowContext(ctx, query,
			post.UserID, post.Title, post.Slug, post.Body, post.BodyHTML, post.Tags).Scan(&post.ID); err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}
		return nil
	}

	query := database.ConvertPlaceholders(`
		INSERT INTO posts (user_id, title, slug, body, body_html, tags, like_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
	result, err := r.db.ExecContext(ctx, query,
		post.UserID, post.Title, post.Slug, post.Body, post.BodyHTML, post.Tags)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read new post id: %w", err)
	}
	post.ID = id
	return nil
}

func scanPost(row rowScanner, p *models.Post) error {
	return row.Scan(&p.ID, &p.UserID, &p.Author, &p.Title, &p.Slug, &p.Body,
		&p.BodyHTML, &p.Tags, &p.LikeCount, &p.CreatedAt, &p.UpdatedAt)
}

// GetByID retrieves a post with its author's username.
func (r *PostSQLRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	return r.getOne(ctx, "p.id = ?", id)
}

// GetBySlug retrieves a post by its URL slug.
func (r *PostSQLRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return r.getOne(ctx, "p.slug = ?", slug)
}

func (r *PostSQLRepository) getOne(ctx context.Context, cond string, arg any) (*models.Post, error) {
	query := database.ConvertPlaceholders(fmt.Sprintf(`
		SELECT %s FROM posts p
		INNER JOIN users u ON u.id = p.user_id
		WHERE %s`, postColumns, cond))

	var p models.Post
	err := scanPost(r.db.QueryRowContext(ctx, query, arg), &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query post: %w", err)
	}
	return &p, nil
}

// List returns a page of posts plus the unpaged total. Search matches
// title and tags.
func (r *PostSQLRepository) List(ctx context.Context, opts ListOptions) ([]models.Post, int, error) {
	opts.Normalize([]string{"created_at", "like_count", "title"}, "created_at")
	if opts.Sort == "created_at" && opts.Order == "ASC" {
		// Feeds read newest first unless the caller asked otherwise.
		opts.Order = "DESC"
	}

	where := ""
	args := []any{}
	if opts.Search != "" {
		where = " WHERE (p.title ILIKE ? OR p.tags ILIKE ?)"
		pattern := "%" + opts.Search + "%"
		args = append(args, pattern, pattern)
	}

	countQuery := database.ConvertPlaceholders("SELECT COUNT(*) FROM posts p" + where)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	query := database.ConvertPlaceholders(fmt.Sprintf(`
		SELECT %s FROM posts p
		INNER JOIN users u ON u.id = p.user_id%s
		ORDER BY p.%s %s
		LIMIT ? OFFSET ?`, postColumns, where, opts.Sort, opts.Order))
	args = append(args, opts.PerPage, opts.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err := scanPost(rows, &p); err != nil {
			return nil, 0, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("row iteration error: %w", err)
	}

	return posts, total, nil
}

// Update rewrites a post's content. Only the owning user's row matches.
func (r *PostSQLRepository) Update(ctx context.Context, post *models.Post) error {
	query := database.ConvertPlaceholders(`
		UPDATE posts
		SET title = ?, body = ?, body_html = ?, tags = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?`)

	result, err := r.db.ExecContext(ctx, query,
		post.Title, post.Body, post.BodyHTML, post.Tags, post.ID, post.UserID)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
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

// Delete removes a post. Only the owning user's row matches.
func (r *PostSQLRepository) Delete(ctx context.Context, id, userID int64) error {
	query := database.ConvertPlaceholders(`DELETE FROM posts WHERE id = ? AND user_id = ?`)

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
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

// IncrementLikes bumps the like counter.
func (r *PostSQLRepository) IncrementLikes(ctx context.Context, id int64) error {
	query := database.ConvertPlaceholders(`
		UPDATE posts SET like_count = like_count + 1 WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to like post: %w", err)
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
