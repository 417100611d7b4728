package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"coverquest/tmdb"
)

type SearchHandler struct {
	client *tmdb.Client
}

func NewSearchHandler(client *tmdb.Client) *SearchHandler {
	return &SearchHandler{client: client}
}

// Search proxies a title search to TMDB.
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("query")

	results, err := h.client.SearchMovies(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, tmdb.ErrMissingAPIKey) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "TMDB API key not configured"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search movies"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
