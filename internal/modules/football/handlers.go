package football

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kickoffhub/kickoffhub/internal/api"
	"github.com/kickoffhub/kickoffhub/internal/apierrors"
	"github.com/kickoffhub/kickoffhub/internal/cache"
	"github.com/kickoffhub/kickoffhub/internal/models"
	"github.com/kickoffhub/kickoffhub/internal/repository"
	"github.com/kickoffhub/kickoffhub/internal/service"
)

type handlers struct {
	countries repository.CountryRepository
	leagues   repository.LeagueRepository
	teams     repository.TeamRepository
	players   repository.PlayerRepository
	coaches   repository.CoachRepository
	transfers repository.TransferRepository
	fixtures  repository.FixtureRepository
	exports   *service.ExportService
	cache     *cache.RedisCache
	logger    *log.Logger
}

func (h *handlers) mountPublic(g *gin.RouterGroup) {
	g.GET("/countries", h.listCountries)
	g.GET("/countries/:id", h.getCountry)

	g.GET("/leagues", h.listLeagues)
	g.GET("/leagues/:id", h.getLeague)
	g.GET("/leagues/:id/seasons", h.listSeasons)
	g.GET("/leagues/:id/teams", h.listLeagueTeams)
	g.GET("/leagues/:id/fixtures", h.listLeagueFixtures)

	g.GET("/teams", h.listTeams)
	g.GET("/teams/:id", h.getTeam)
	g.GET("/teams/:id/players", h.listSquad)
	g.GET("/teams/:id/coach", h.getCoach)
	g.GET("/teams/:id/fixtures", h.listTeamFixtures)
	g.GET("/teams/:id/transfers", h.listTeamTransfers)

	g.GET("/players", h.listPlayers)
	g.GET("/players/export", h.exportPlayers)
	g.GET("/players/:id", h.getPlayer)
	g.GET("/players/:id/transfers", h.listPlayerTransfers)

	g.GET("/fixtures/:id", h.getFixture)
}

func (h *handlers) mountPrivate(g *gin.RouterGroup) {
	g.POST("/transfers", h.createTransfer)
	g.PUT("/fixtures/:id/result", h.recordResult)
}

// listCountries serves the country list through the Redis cache; the
// payload is small and almost static.
func (h *handlers) listCountries(c *gin.Context) {
	opts := api.ParseListOptions(c)

	type page struct {
		Countries []models.Country `json:"countries"`
		Total     int              `json:"total"`
	}
	key := cache.ListKey("countries", opts.Page, opts.PerPage, opts.Search)

	var cached page
	if hit, err := h.cache.GetJSON(c.Request.Context(), key, &cached); err == nil && hit {
		api.SendPaginated(c, cached.Countries, opts, cached.Total)
		return
	}

	countries, total, err := h.countries.List(c.Request.Context(), opts)
	if err != nil {
		h.logger.Printf("football: list countries: %v", err)
		apierrors.Error(c, apierrors.CodeInternalError)
		return
	}

	if err := h.cache.SetJSON(c.Request.Context(), key, page{Countries: countries, Total: total}); err != nil {
		h.logger.Printf("football: cache countries: %v", err)
	}
	api.SendPaginated(c, countries, opts, total)
}

func (h *handlers) getCountry(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}
	country, err := h.countries.GetByID(c.Request.Context(), id)
	if h.respondErr(c, err) {
		return
	}
	api.SendSuccess(c, country)
}

func (h *handlers) listLeagues(c *gin.Context) {
	opts := api.ParseListOptions(c)
	leagues, total, err := h.leagues.List(c.Request.Context(), opts)
	if h.respondErr(c, err) {
		return
	}
	api.SendPaginated(c, leagues, opts, total)
}

func (h *handlers) getLeague(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}
	league, err := h.leagues.GetByID(c.Request.Context(), id)
	if h.respondErr(c, err) {
		return
	}
	api.SendSuccess(c, league)
}

func (h *handlers) listSeasons(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}
	seasons, err := h.leagues.ListSeasons(c.Request.Context(), id)
	if h.respondErr(c, err) {
		return
	}
	api.SendSuccess(c, seasons)
}

func (h *handlers) listLeagueTeams(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}
	season, err := strconv.Atoi(c.Query("season"))
	if err != nil || season <= 0 {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, "season query parameter is required")
		return
	}
	teams, err := h.teams.ListByLeagueSeason(c.Request.Context(), id, season)
	if h.respondErr(c, err) {
		return
	}
	api.SendSuccess(c, teams)
}

func (h *handlers) listLeagueFixtures(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}
	season, err := strconv.Atoi(c.Query("season"))
	if err != nil || season <= 0 {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, "season query parameter is required")
		return
	}
	opts := api.ParseListOptions(c)
	fixtures, total, err := h.fixtures.ListByLeagueSeason(c.Request.Context(), id, season, opts)
	if h.respondErr(c, err) {
		return
	}
	api.SendPaginated(c, fixtures, opts, total)
}

func (h *handlers) listTeams(c *gin.Context) {
	opts := api.ParseListOptions(c)

	type page struct {
		Teams []models.Team `json:"teams"`
		Total int           `json:"total"`
	}
	key := cache.ListKey("teams", opts.Page, opts.PerPage, opts.Search)

	var cached page
	if hit, err := h.cache.GetJSON(c.Request.Context(), key, &cached); err == nil && hit {
		api.SendPaginated(c, cached.Teams, opts, cached.Total)
		return
	}

	teams, total, err := h.teams.List(c.Request.Context(), opts)
	if h.respondErr(c, err) {
		return
	}
	if err := h.cache.SetJSON(c.Request.Context(), key, page{Teams: teams, Total: total}); err != nil {
		h.logger.Printf("football: cache teams: %v", err)
	}
	api.SendPaginated(c, teams, opts, total)
}

func (h *handlers) getTeam(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}
	team, err := h.teams.GetByID(c.Request.Context(), id)
	if h.respondErr(c, err) {
		return
	}
	api.SendSuccess(c, team)
}

func (h *handlers) listSquad(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}
	players, err := h.players.ListByTeam(c.Request.Context(), id)
	if h.respondErr(c, err) {
		return
	}
	api.SendSuccess(c, players)
}

func (h *handlers) getCoach(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}
	coach, err := h.coaches.GetByTeam(c.Request.Context(), id)
	if h.respondErr(c, err) {
		return
	}
	api.SendSuccess(c, coach)
}

func (h *handlers) listTeamFixtures(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	fixtures, err := h.fixtures.ListByTeam(c.Request.Context(), id, limit)
	if h.respondErr(c, err) {
		return
	}
	api.SendSuccess(c, fixtures)
}

func (h *handlers) listTeamTransfers(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}
	transfers, err := h.transfers.ListByTeam(c.Request.Context(), id)
	if h.respondErr(c, err) {
		return
	}
	api.SendSuccess(c, transfers)
}

func (h *handlers) listPlayers(c *gin.Context) {
	opts := api.ParseListOptions(c)
	players, total, err := h.players.List(c.Request.Context(), opts)
	if h.respondErr(c, err) {
		return
	}
	api.SendPaginated(c, players, opts, total)
}

func (h *handlers) getPlayer(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}
	player, err := h.players.GetByID(c.Request.Context(), id)
	if h.respondErr(c, err) {
		return
	}
	api.SendSuccess(c, player)
}

func (h *handlers) listPlayerTransfers(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}
	transfers, err := h.transfers.ListByPlayer(c.Request.Context(), id)
	if h.respondErr(c, err) {
		return
	}
	api.SendSuccess(c, transfers)
}

func (h *handlers) getFixture(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}
	fixture, err := h.fixtures.GetByID(c.Request.Context(), id)
	if h.respondErr(c, err) {
		return
	}
	api.SendSuccess(c, fixture)
}

// exportPlayers streams every player of a league season as a spreadsheet.
func (h *handlers) exportPlayers(c *gin.Context) {
	leagueID, err := strconv.ParseInt(c.Query("league_id"), 10, 64)
	if err != nil || leagueID <= 0 {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, "league_id query parameter is required")
		return
	}
	season, err := strconv.Atoi(c.Query("season"))
	if err != nil || season <= 0 {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, "season query parameter is required")
		return
	}

	filename := fmt.Sprintf("players-%d-%d.xlsx", leagueID, season)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := h.exports.ExportPlayers(c.Request.Context(), leagueID, season, c.Writer); err != nil {
		h.logger.Printf("football: export players: %v", err)
		apierrors.Error(c, apierrors.CodeExportFailed)
	}
}

func (h *handlers) createTransfer(c *gin.Context) {
	var req struct {
		PlayerID   int64  `json:"player_id" binding:"required"`
		FromTeamID int64  `json:"from_team_id"`
		ToTeamID   int64  `json:"to_team_id" binding:"required"`
		Date       string `json:"date" binding:"required"`
		Type       string `json:"type" binding:"required,oneof=permanent loan free"`
		Fee        int64  `json:"fee"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, err.Error())
		return
	}

	transfer, err := models.NewTransfer(req.PlayerID, req.FromTeamID, req.ToTeamID, req.Date, req.Type, req.Fee)
	if err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, err.Error())
		return
	}
	if err := h.transfers.Create(c.Request.Context(), transfer); err != nil {
		h.logger.Printf("football: create transfer: %v", err)
		apierrors.Error(c, apierrors.CodeInternalError)
		return
	}
	api.SendCreated(c, transfer)
}

func (h *handlers) recordResult(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		HomeGoals *int   `json:"home_goals" binding:"required"`
		AwayGoals *int   `json:"away_goals" binding:"required"`
		Status    string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, err.Error())
		return
	}

	err := h.fixtures.RecordResult(c.Request.Context(), id, *req.HomeGoals, *req.AwayGoals, req.Status)
	if h.respondErr(c, err) {
		return
	}
	api.SendSuccess(c, gin.H{"id": id, "status": req.Status})
}

// respondErr maps repository errors onto API responses. Returns true if
// a response was sent.
func (h *handlers) respondErr(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, repository.ErrNotFound) {
		apierrors.Error(c, apierrors.CodeNotFound)
		return true
	}
	h.logger.Printf("football: %s %s: %v", c.Request.Method, c.FullPath(), err)
	apierrors.ErrorWithStatus(c, http.StatusInternalServerError,
		apierrors.CodeInternalError, "Internal server error")
	return true
}
