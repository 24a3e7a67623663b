package service

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/xeonx/timeago"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/kickoffhub/kickoffhub/internal/models"
	"github.com/kickoffhub/kickoffhub/internal/repository"
)

// PostService handles user posts and comments. Markdown bodies are
// rendered once on write and sanitized before storage, so reads serve
// HTML straight from the database.
type PostService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

// NewPostService creates a new post service.
func NewPostService(posts repository.PostRepository, comments repository.CommentRepository) *PostService {
	return &PostService{
		posts:    posts,
		comments: comments,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

// CreatePost renders and stores a new post for userID.
func (s *PostService) CreatePost(ctx context.Context, userID int64, title, body, tags string) (*models.Post, error) {
	html, err := s.render(body)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:   userID,
		Title:    strings.TrimSpace(title),
		Slug:     Slugify(title) + "-" + uuid.NewString()[:8],
		Body:     body,
		BodyHTML: html,
		Tags:     tags,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.GetPost(ctx, post.ID)
}

// UpdatePost re-renders and stores new content for a post owned by userID.
func (s *PostService) UpdatePost(ctx context.Context, id, userID int64, title, body, tags string) (*models.Post, error) {
	html, err := s.render(body)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:       id,
		UserID:   userID,
		Title:    strings.TrimSpace(title),
		Body:     body,
		BodyHTML: html,
		Tags:     tags,
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.GetPost(ctx, id)
}

// GetPost loads one post with the relative posting time filled in.
func (s *PostService) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	decoratePost(post)
	return post, nil
}

// GetPostBySlug loads one post by URL slug.
func (s *PostService) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	post, err := s.posts.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	decoratePost(post)
	return post, nil
}

// ListPosts returns a feed page.
func (s *PostService) ListPosts(ctx context.Context, opts repository.ListOptions) ([]models.Post, int, error) {
	posts, total, err := s.posts.List(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	for i := range posts {
		decoratePost(&posts[i])
	}
	return posts, total, nil
}

// DeletePost removes a post owned by userID.
func (s *PostService) DeletePost(ctx context.Context, id, userID int64) error {
	return s.posts.Delete(ctx, id, userID)
}

// LikePost bumps a post's like counter.
func (s *PostService) LikePost(ctx context.Context, id int64) error {
	return s.posts.IncrementLikes(ctx, id)
}

// AddComment attaches a comment to a post. The post must exist.
func (s *PostService) AddComment(ctx context.Context, postID, userID int64, body string) (*models.Comment, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID: postID,
		UserID: userID,
		Body:   s.policy.Sanitize(strings.TrimSpace(body)),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns a post's comments with relative times.
func (s *PostService) ListComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		comments[i].PostedAgo = timeago.English.Format(comments[i].CreatedAt)
	}
	return comments, nil
}

// DeleteComment removes a comment owned by userID.
func (s *PostService) DeleteComment(ctx context.Context, id, userID int64) error {
	return s.comments.Delete(ctx, id, userID)
}

// render converts markdown to sanitized HTML.
func (s *PostService) render(body string) (string, error) {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return s.policy.Sanitize(buf.String()), nil
}

func decoratePost(p *models.Post) {
	p.PostedAgo = timeago.English.Format(p.CreatedAt)
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into a URL-safe slug fragment.
func Slugify(title string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "post"
	}
	if len(slug) > 80 {
		slug = strings.Trim(slug[:80], "-")
	}
	return slug
}
