package services

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"coverquest/game"
	"coverquest/logger"
	"coverquest/models"
)

const defaultLeaderboardLimit = 10

type ScoreService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScoreService(db *gorm.DB, log *logger.Logger) *ScoreService {
	return &ScoreService{db: db, log: log}
}

// Submit writes the denormalized history record for a completed game.
// Guess titles only; the enrichment fields stay in the game record.
func (s *ScoreService) Submit(ctx context.Context, state game.State, anonymousID string) error {
	guessNumber := 0
	if state.Won {
		guessNumber = state.CurrentGuess
	}

	titles := make([]string, len(state.Guesses))
	for i, g := range state.Guesses {
		titles[i] = g.Title
	}
	guessJSON, err := json.Marshal(titles)
	if err != nil {
		return fmt.Errorf("marshal guess titles: %w", err)
	}

	score := models.Score{
		GameID:      state.GameID,
		AnonymousID: anonymousID,
		MovieID:     state.MovieID,
		Guesses:     datatypes.JSON(guessJSON),
		GuessNumber: guessNumber,
		Score:       state.Score,
	}

	if err := s.db.WithContext(ctx).Create(&score).Error; err != nil {
		return fmt.Errorf("insert score: %w", err)
	}

	s.log.Info("score recorded", "game_id", state.GameID, "score", state.Score, "won", state.Won)
	return nil
}

// UserScores returns an identity's history, newest first.
func (s *ScoreService) UserScores(ctx context.Context, anonymousID string) ([]models.Score, error) {
	var scores []models.Score
	err := s.db.WithContext(ctx).
		Where("anonymous_id = ?", anonymousID).
		Order("created_at DESC").
		Find(&scores).Error
	if err != nil {
		return nil, err
	}
	return scores, nil
}

// Leaderboard returns the day's top entries ordered by score descending,
// then winning guess number ascending (fewer guesses ranks higher).
func (s *ScoreService) Leaderboard(ctx context.Context, gameID string, limit int) ([]models.Score, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}

	var scores []models.Score
	err := s.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("score DESC").
		Order("guess_number ASC").
		Limit(limit).
		Find(&scores).Error
	if err != nil {
		return nil, err
	}
	return scores, nil
}
