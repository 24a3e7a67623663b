package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kickoffhub/kickoffhub/internal/models"
	"github.com/kickoffhub/kickoffhub/internal/repository"
)

type fakePostRepo struct {
	byID   map[int64]*models.Post
	nextID int64
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{byID: make(map[int64]*models.Post)}
}

func (f *fakePostRepo) Create(ctx context.Context, post *models.Post) error {
	f.nextID++
	post.ID = f.nextID
	post.CreatedAt = time.Now().Add(-2 * time.Hour)
	clone := *post
	f.byID[post.ID] = &clone
	return nil
}

func (f *fakePostRepo) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (f *fakePostRepo) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	for _, p := range f.byID {
		if p.Slug == slug {
			clone := *p
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePostRepo) List(ctx context.Context, opts repository.ListOptions) ([]models.Post, int, error) {
	var posts []models.Post
	for _, p := range f.byID {
		posts = append(posts, *p)
	}
	return posts, len(posts), nil
}

func (f *fakePostRepo) Update(ctx context.Context, post *models.Post) error {
	existing, ok := f.byID[post.ID]
	if !ok || existing.UserID != post.UserID {
		return repository.ErrNotFound
	}
	existing.Title = post.Title
	existing.Body = post.Body
	existing.BodyHTML = post.BodyHTML
	existing.Tags = post.Tags
	return nil
}

func (f *fakePostRepo) Delete(ctx context.Context, id, userID int64) error {
	existing, ok := f.byID[id]
	if !ok || existing.UserID != userID {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakePostRepo) IncrementLikes(ctx context.Context, id int64) error {
	existing, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	existing.LikeCount++
	return nil
}

type fakeCommentRepo struct {
	byID   map[int64]*models.Comment
	nextID int64
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{byID: make(map[int64]*models.Comment)}
}

func (f *fakeCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	f.nextID++
	comment.ID = f.nextID
	comment.CreatedAt = time.Now().Add(-time.Minute)
	clone := *comment
	f.byID[comment.ID] = &clone
	return nil
}

func (f *fakeCommentRepo) ListByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	var comments []models.Comment
	for _, c := range f.byID {
		if c.PostID == postID {
			comments = append(comments, *c)
		}
	}
	return comments, nil
}

func (f *fakeCommentRepo) Delete(ctx context.Context, id, userID int64) error {
	existing, ok := f.byID[id]
	if !ok || existing.UserID != userID {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func newTestPostService() *PostService {
	return NewPostService(newFakePostRepo(), newFakeCommentRepo())
}

func TestCreatePostRendersMarkdown(t *testing.T) {
	svc := newTestPostService()

	post, err := svc.CreatePost(context.Background(), 1,
		"Match Review", "A **great** comeback at [Anfield](https://example.com).", "liverpool")
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	if !strings.Contains(post.BodyHTML, "<strong>great</strong>") {
		t.Errorf("BodyHTML = %q, want rendered bold", post.BodyHTML)
	}
	if !strings.Contains(post.BodyHTML, `<a href="https://example.com"`) {
		t.Errorf("BodyHTML = %q, want rendered link", post.BodyHTML)
	}
	if !strings.HasPrefix(post.Slug, "match-review-") {
		t.Errorf("Slug = %q, want match-review- prefix", post.Slug)
	}
	if post.PostedAgo == "" {
		t.Error("PostedAgo should be derived on read")
	}
}

func TestCreatePostSanitizesHTML(t *testing.T) {
	svc := newTestPostService()

	post, err := svc.CreatePost(context.Background(), 1,
		"XSS", `Hello <script>alert("pwn")</script> <img src=x onerror=alert(1)>`, "")
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if strings.Contains(post.BodyHTML, "<script") || strings.Contains(post.BodyHTML, "onerror") {
		t.Errorf("BodyHTML = %q, script content survived sanitization", post.BodyHTML)
	}
}

func TestUpdateAndDeleteEnforceOwnership(t *testing.T) {
	svc := newTestPostService()
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, 1, "Mine", "body", "")
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	if _, err := svc.UpdatePost(ctx, post.ID, 2, "Stolen", "body", ""); err != repository.ErrNotFound {
		t.Errorf("update by non-owner: err = %v, want ErrNotFound", err)
	}
	if err := svc.DeletePost(ctx, post.ID, 2); err != repository.ErrNotFound {
		t.Errorf("delete by non-owner: err = %v, want ErrNotFound", err)
	}
	if err := svc.DeletePost(ctx, post.ID, 1); err != nil {
		t.Errorf("delete by owner: %v", err)
	}
}

func TestAddCommentRequiresPost(t *testing.T) {
	svc := newTestPostService()
	ctx := context.Background()

	if _, err := svc.AddComment(ctx, 999, 1, "first!"); err != repository.ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound for missing post", err)
	}

	post, err := svc.CreatePost(ctx, 1, "Derby", "body", "")
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	comment, err := svc.AddComment(ctx, post.ID, 2, "  great read <script>x</script>  ")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if strings.Contains(comment.Body, "<script") {
		t.Errorf("comment body = %q, script survived", comment.Body)
	}

	comments, err := svc.ListComments(ctx, post.ID)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(comments) != 1 || comments[0].PostedAgo == "" {
		t.Errorf("comments = %+v, want one with PostedAgo set", comments)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Match Review: United 3-2 City!", "match-review-united-3-2-city"},
		{"  spaces  everywhere  ", "spaces-everywhere"},
		{"???", "post"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
