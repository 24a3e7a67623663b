package imports

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/kickoffhub/kickoffhub/internal/api"
	"github.com/kickoffhub/kickoffhub/internal/apierrors"
	"github.com/kickoffhub/kickoffhub/internal/footballdata"
	"github.com/kickoffhub/kickoffhub/internal/queue"
	"github.com/kickoffhub/kickoffhub/internal/service"
)

type handlers struct {
	queue   *queue.Queue
	imports *service.ImportService
	logger  *log.Logger
}

func (h *handlers) mount(g *gin.RouterGroup) {
	g.POST("/teams", h.importTeams)
}

type importRequest struct {
	LeagueID int64 `json:"league_id" binding:"required,gt=0"`
	Season   int   `json:"season" binding:"required,gt=0"`
	Async    bool  `json:"async"`
}

// importTeams starts a teams import. Async requests enqueue a job and
// return 202 with its id; without a queue transport they fail with
// core:queue_unavailable rather than silently running inline. Sync
// requests run the import routine in the request.
func (h *handlers) importTeams(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, err.Error())
		return
	}

	if req.Async {
		handle, err := h.queue.EnqueueTeamsImport(c.Request.Context(), req.LeagueID, req.Season)
		if err != nil {
			apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, err.Error())
			return
		}
		if handle == nil {
			apierrors.Error(c, apierrors.CodeQueueUnavailable)
			return
		}
		api.SendAccepted(c, gin.H{"job_id": handle.ID, "job": handle.Name})
		return
	}

	// The import service comes from the football module; with that module
	// disabled there is nothing to run the import.
	if h.imports == nil {
		apierrors.Error(c, apierrors.CodeServiceUnavailable)
		return
	}

	result, err := h.imports.ImportTeams(c.Request.Context(), req.LeagueID, req.Season)
	if err != nil {
		h.logger.Printf("imports: teams import failed: %v", err)
		if errors.Is(err, footballdata.ErrUpstreamTimeout) {
			apierrors.Error(c, apierrors.CodeUpstreamTimeout)
			return
		}
		apierrors.Error(c, apierrors.CodeImportFailed)
		return
	}
	api.SendSuccess(c, result)
}
