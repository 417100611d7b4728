package models

import (
	"time"

	"gorm.io/datatypes"
)

// Score is the append-only history record written once per completed
// game. Never updated after insert; read paths are the personal history
// and the daily leaderboard.
type Score struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	GameID      string         `json:"game_id" gorm:"index;not null"`
	AnonymousID string         `json:"anonymous_id" gorm:"index;not null"`
	MovieID     int            `json:"movie_id" gorm:"not null"`
	Guesses     datatypes.JSON `json:"guesses"`
	GuessNumber int            `json:"guess_number" gorm:"not null"` // winning guess 1..5, 0 when lost
	Score       int            `json:"score" gorm:"not null"`
	CreatedAt   time.Time      `json:"created_at"`
}
