package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"coverquest/game"
	"coverquest/services"
	"coverquest/tmdb"
)

type GameHandler struct {
	gameService   *services.GameService
	posterService *services.PosterService
	now           func() time.Time
}

func NewGameHandler(gameService *services.GameService, posterService *services.PosterService) *GameHandler {
	return &GameHandler{
		gameService:   gameService,
		posterService: posterService,
		now:           time.Now,
	}
}

type SubmitGuessRequest struct {
	AnonymousID string `json:"anonymous_id" binding:"required"`
	GameID      string `json:"game_id" binding:"required"`
	Guess       struct {
		MovieID int    `json:"movie_id" binding:"required"`
		Title   string `json:"title" binding:"required"`
	} `json:"guess" binding:"required"`
}

// GetState returns (and lazily creates) the caller's game for today.
func (h *GameHandler) GetState(c *gin.Context) {
	anonymousID := c.Query("anonymousId")
	gameID := c.Query("gameId")
	if anonymousID == "" || gameID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing anonymousId or gameId"})
		return
	}
	if !h.isToday(gameID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gameId"})
		return
	}

	state, err := h.gameService.GetState(c.Request.Context(), anonymousID, gameID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// SubmitGuess records one guess against today's game.
func (h *GameHandler) SubmitGuess(c *gin.Context) {
	var req SubmitGuessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	if !h.isToday(req.GameID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gameId"})
		return
	}

	state, err := h.gameService.SubmitGuess(c.Request.Context(), req.AnonymousID, req.GameID, req.Guess.MovieID, req.Guess.Title)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// GetMovie reveals the answer, only for a completed game.
func (h *GameHandler) GetMovie(c *gin.Context) {
	anonymousID := c.Query("anonymousId")
	gameID := c.Query("gameId")
	if anonymousID == "" || gameID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing anonymousId or gameId"})
		return
	}
	if !h.isToday(gameID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gameId"})
		return
	}

	movie, err := h.gameService.RevealMovie(c.Request.Context(), anonymousID, gameID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, movie)
}

// GetPoster streams the poster image, obfuscated at the level implied
// by the caller's progress.
func (h *GameHandler) GetPoster(c *gin.Context) {
	anonymousID := c.Query("anonymousId")
	gameID := c.Query("gameId")
	if anonymousID == "" || gameID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing anonymousId or gameId"})
		return
	}
	if !h.isToday(gameID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gameId"})
		return
	}

	posterURL, level, err := h.gameService.PosterInfo(c.Request.Context(), anonymousID, gameID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	body, contentType, err := h.posterService.ObfuscatedPoster(c.Request.Context(), posterURL, level)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.Header("Cache-Control", "private, max-age=60")
	c.Data(http.StatusOK, contentType, body)
}

func (h *GameHandler) isToday(gameID string) bool {
	return gameID == game.DailyGameID(h.now())
}

func (h *GameHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, game.ErrGameComplete):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Game already complete"})
	case errors.Is(err, services.ErrGameNotComplete):
		c.JSON(http.StatusForbidden, gin.H{"error": "Game not complete"})
	case errors.Is(err, services.ErrGameNotFound), errors.Is(err, services.ErrNoPoster):
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
	case errors.Is(err, tmdb.ErrMissingAPIKey):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "TMDB API key not configured"})
	case errors.Is(err, game.ErrEmptyPool):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No movies with posters found"})
	case errors.Is(err, services.ErrObfuscationBlocked):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to obscure poster"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
