package routes

import (
	"github.com/gin-gonic/gin"

	"coverquest/handlers"
)

func SetupRoutes(
	router *gin.Engine,
	gameHandler *handlers.GameHandler,
	scoreHandler *handlers.ScoreHandler,
	searchHandler *handlers.SearchHandler,
	identityHandler *handlers.IdentityHandler,
) {
	api := router.Group("/api")
	{
		game := api.Group("/game")
		{
			game.GET("/state", gameHandler.GetState)
			game.POST("/guess", gameHandler.SubmitGuess)
			game.GET("/movie", gameHandler.GetMovie)
			game.GET("/poster", gameHandler.GetPoster)
		}

		movies := api.Group("/movies")
		{
			movies.GET("/search", searchHandler.Search)
		}

		scores := api.Group("/scores")
		{
			scores.GET("", scoreHandler.GetUserScores)
			scores.GET("/leaderboard", scoreHandler.GetLeaderboard)
		}

		api.POST("/identity", identityHandler.Create)
	}
}
