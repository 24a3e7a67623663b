package social

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kickoffhub/kickoffhub/internal/api"
	"github.com/kickoffhub/kickoffhub/internal/apierrors"
	"github.com/kickoffhub/kickoffhub/internal/middleware"
	"github.com/kickoffhub/kickoffhub/internal/models"
	"github.com/kickoffhub/kickoffhub/internal/repository"
	"github.com/kickoffhub/kickoffhub/internal/service"
)

type handlers struct {
	auth   *service.AuthService
	posts  *service.PostService
	logger *log.Logger
}

func (h *handlers) mountPublic(g *gin.RouterGroup) {
	g.POST("/register", h.register)
	g.POST("/login", h.login)

	g.GET("/posts", h.listPosts)
	g.GET("/posts/:id", h.getPost)
	g.GET("/posts/:id/comments", h.listComments)
	g.GET("/p/:slug", h.getPostBySlug)
}

func (h *handlers) mountPrivate(g *gin.RouterGroup) {
	g.POST("/posts", h.createPost)
	g.PUT("/posts/:id", h.updatePost)
	g.DELETE("/posts/:id", h.deletePost)
	g.POST("/posts/:id/like", h.likePost)
	g.POST("/posts/:id/comments", h.addComment)
	g.DELETE("/comments/:id", h.deleteComment)
}

func (h *handlers) register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, err.Error())
		return
	}

	user, token, err := h.auth.Register(c.Request.Context(), &req)
	if errors.Is(err, service.ErrUserExists) {
		apierrors.Error(c, apierrors.CodeUserExists)
		return
	}
	if err != nil {
		h.logger.Printf("social: register: %v", err)
		apierrors.Error(c, apierrors.CodeInternalError)
		return
	}
	api.SendCreated(c, gin.H{"user": user, "token": token})
}

func (h *handlers) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, err.Error())
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), &req)
	if errors.Is(err, service.ErrInvalidCredentials) {
		apierrors.Error(c, apierrors.CodeInvalidCredentials)
		return
	}
	if err != nil {
		h.logger.Printf("social: login: %v", err)
		apierrors.Error(c, apierrors.CodeInternalError)
		return
	}
	api.SendSuccess(c, gin.H{"user": user, "token": token})
}

func (h *handlers) listPosts(c *gin.Context) {
	opts := api.ParseListOptions(c)
	posts, total, err := h.posts.ListPosts(c.Request.Context(), opts)
	if h.respondErr(c, err) {
		return
	}
	api.SendPaginated(c, posts, opts, total)
}

func (h *handlers) getPost(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}
	post, err := h.posts.GetPost(c.Request.Context(), id)
	if h.respondErr(c, err) {
		return
	}
	api.SendSuccess(c, post)
}

func (h *handlers) getPostBySlug(c *gin.Context) {
	post, err := h.posts.GetPostBySlug(c.Request.Context(), c.Param("slug"))
	if h.respondErr(c, err) {
		return
	}
	api.SendSuccess(c, post)
}

type postRequest struct {
	Title string `json:"title" binding:"required,max=200"`
	Body  string `json:"body" binding:"required"`
	Tags  string `json:"tags"`
}

func (h *handlers) createPost(c *gin.Context) {
	userID, _, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Error(c, apierrors.CodeUnauthorized)
		return
	}
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, err.Error())
		return
	}

	post, err := h.posts.CreatePost(c.Request.Context(), userID, req.Title, req.Body, req.Tags)
	if h.respondErr(c, err) {
		return
	}
	api.SendCreated(c, post)
}

func (h *handlers) updatePost(c *gin.Context) {
	userID, _, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Error(c, apierrors.CodeUnauthorized)
		return
	}
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, err.Error())
		return
	}

	post, err := h.posts.UpdatePost(c.Request.Context(), id, userID, req.Title, req.Body, req.Tags)
	if h.respondErr(c, err) {
		return
	}
	api.SendSuccess(c, post)
}

func (h *handlers) deletePost(c *gin.Context) {
	userID, _, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Error(c, apierrors.CodeUnauthorized)
		return
	}
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.posts.DeletePost(c.Request.Context(), id, userID); h.respondErr(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) likePost(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.posts.LikePost(c.Request.Context(), id); h.respondErr(c, err) {
		return
	}
	api.SendSuccess(c, gin.H{"liked": true})
}

func (h *handlers) listComments(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}
	comments, err := h.posts.ListComments(c.Request.Context(), id)
	if h.respondErr(c, err) {
		return
	}
	api.SendSuccess(c, comments)
}

func (h *handlers) addComment(c *gin.Context) {
	userID, _, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Error(c, apierrors.CodeUnauthorized)
		return
	}
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Body string `json:"body" binding:"required,max=2000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, err.Error())
		return
	}

	comment, err := h.posts.AddComment(c.Request.Context(), id, userID, req.Body)
	if h.respondErr(c, err) {
		return
	}
	api.SendCreated(c, comment)
}

func (h *handlers) deleteComment(c *gin.Context) {
	userID, _, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Error(c, apierrors.CodeUnauthorized)
		return
	}
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.posts.DeleteComment(c.Request.Context(), id, userID); h.respondErr(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) respondErr(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, repository.ErrNotFound) {
		apierrors.Error(c, apierrors.CodeNotFound)
		return true
	}
	h.logger.Printf("social: %s %s: %v", c.Request.Method, c.FullPath(), err)
	apierrors.Error(c, apierrors.CodeInternalError)
	return true
}
