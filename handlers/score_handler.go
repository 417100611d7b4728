package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"coverquest/services"
)

type ScoreHandler struct {
	scoreService *services.ScoreService
}

func NewScoreHandler(scoreService *services.ScoreService) *ScoreHandler {
	return &ScoreHandler{scoreService: scoreService}
}

// GetUserScores returns the caller's history, newest first.
func (h *ScoreHandler) GetUserScores(c *gin.Context) {
	anonymousID := c.Query("anonymousId")
	if anonymousID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing anonymousId"})
		return
	}

	scores, err := h.scoreService.UserScores(c.Request.Context(), anonymousID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch scores"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"scores": scores})
}

// GetLeaderboard returns the day's top scores.
func (h *ScoreHandler) GetLeaderboard(c *gin.Context) {
	gameID := c.Query("gameId")
	if gameID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing gameId"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	scores, err := h.scoreService.Leaderboard(c.Request.Context(), gameID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaderboard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"scores": scores})
}
