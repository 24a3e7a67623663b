package models

import "time"

// User is a social-layer account. PasswordHash never serializes.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	AvatarURL    string    `db:"avatar_url" json:"avatar_url,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Post is a user-authored article. Body is markdown as written;
// BodyHTML is the rendered, sanitized form served to clients.
type Post struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Author    string    `db:"author" json:"author,omitempty"` // joined username
	Title     string    `db:"title" json:"title"`
	Slug      string    `db:"slug" json:"slug"`
	Body      string    `db:"body" json:"body"`
	BodyHTML  string    `db:"body_html" json:"body_html"`
	Tags      string    `db:"tags" json:"tags,omitempty"` // comma-separated
	LikeCount int       `db:"like_count" json:"like_count"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// PostedAgo is derived at response time, not stored.
	PostedAgo string `db:"-" json:"posted_ago,omitempty"`
}

// Comment is a reply on a post.
type Comment struct {
	ID        int64     `db:"id" json:"id"`
	PostID    int64     `db:"post_id" json:"post_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Author    string    `db:"author" json:"author,omitempty"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	PostedAgo string `db:"-" json:"posted_ago,omitempty"`
}

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
