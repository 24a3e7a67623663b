// Package api holds response envelopes and request parsing shared by
// every module's HTTP handlers.
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kickoffhub/kickoffhub/internal/apierrors"
	"github.com/kickoffhub/kickoffhub/internal/repository"
)

// Pagination describes the page of a list response.
type Pagination struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// SendSuccess sends a 200 with the standard data envelope.
func SendSuccess(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// SendCreated sends a 201 with the standard data envelope.
func SendCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

// SendAccepted sends a 202 for work that continues in the background.
func SendAccepted(c *gin.Context, data any) {
	c.JSON(http.StatusAccepted, gin.H{"success": true, "data": data})
}

// SendPaginated sends a list page with pagination metadata.
func SendPaginated(c *gin.Context, data any, opts repository.ListOptions, total int) {
	totalPages := 0
	if opts.PerPage > 0 {
		totalPages = (total + opts.PerPage - 1) / opts.PerPage
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       data,
		"pagination": Pagination{
			Page:       opts.Page,
			PerPage:    opts.PerPage,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    opts.Page < totalPages,
			HasPrev:    opts.Page > 1,
		},
	})
}

// ParseListOptions reads pagination, search and ordering query params.
// Sort whitelisting happens in the repository, not here.
func ParseListOptions(c *gin.Context) repository.ListOptions {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	return repository.ListOptions{
		Page:    page,
		PerPage: perPage,
		Search:  c.Query("search"),
		Sort:    c.Query("sort"),
		Order:   c.DefaultQuery("order", "asc"),
	}
}

// ParseID reads a positive integer path parameter. On failure it sends
// the error response itself and returns false.
func ParseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		apierrors.Error(c, apierrors.CodeInvalidID)
		return 0, false
	}
	return id, true
}
