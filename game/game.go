// Package game holds the pure rules of the daily poster-guessing game:
// the daily answer selection, the guess state machine, the relatedness
// check, and the reveal schedule. Nothing in here touches the network or
// a store; orchestration lives in the services package.
package game

import (
	"errors"
	"fmt"
	"time"

	"coverquest/tmdb"
)

// MaxGuesses is the number of attempts a player gets per day.
const MaxGuesses = 5

var ErrGameComplete = errors.New("game already complete")

// Guess is one submitted attempt. MovieID drives the authoritative match
// check; the remaining fields are best-effort enrichment used only for
// the relatedness hint and may be zero when the metadata lookup failed.
type Guess struct {
	Title                string `json:"title"`
	MovieID              int    `json:"movie_id"`
	Year                 int    `json:"year,omitempty"`
	CollectionID         int    `json:"collection_id,omitempty"`
	DirectorID           int    `json:"director_id,omitempty"`
	GenreIDs             []int  `json:"genre_ids,omitempty"`
	ProductionCompanyIDs []int  `json:"production_company_ids,omitempty"`
}

// State is the authoritative per-(identity, day) game record. Guesses is
// append-only and CurrentGuess always equals len(Guesses). Once IsComplete
// is set no further transition is allowed.
type State struct {
	GameID       string  `json:"game_id"`
	MovieID      int     `json:"movie_id"`
	MovieTitle   string  `json:"movie_title"`
	Guesses      []Guess `json:"guesses"`
	CurrentGuess int     `json:"current_guess"`
	IsComplete   bool    `json:"is_complete"`
	Won          bool    `json:"won"`
	Score        int     `json:"score"`
}

// DailyGameID formats the UTC calendar date of t as the canonical
// YYYY-MM-DD identifier. Two calls on the same UTC day always agree.
func DailyGameID(t time.Time) string {
	u := t.UTC()
	return fmt.Sprintf("%04d-%02d-%02d", u.Year(), int(u.Month()), u.Day())
}

// NewState creates the initial record for a day, binding the answer at
// creation time. The answer id and title never change afterwards.
func NewState(gameID string, answer tmdb.Movie) State {
	return State{
		GameID:     gameID,
		MovieID:    answer.ID,
		MovieTitle: answer.Title,
		Guesses:    []Guess{},
	}
}

// SubmitGuess runs the single state transition: append the guess, bump
// the counter, fold the exact-match result into the monotonic won flag,
// and close the game after a win or the fifth guess. The winning
// transition is the only one that sets the score. The input state is
// never mutated; a fresh snapshot is returned.
func SubmitGuess(s State, g Guess, isExact bool) (State, error) {
	if s.IsComplete {
		return State{}, ErrGameComplete
	}

	next := s
	next.Guesses = make([]Guess, 0, len(s.Guesses)+1)
	next.Guesses = append(next.Guesses, s.Guesses...)
	next.Guesses = append(next.Guesses, g)
	next.CurrentGuess = s.CurrentGuess + 1
	next.Won = s.Won || isExact
	next.IsComplete = next.Won || next.CurrentGuess >= MaxGuesses
	if isExact && !s.Won {
		next.Score = ScoreForGuess(next.CurrentGuess)
	}

	return next, nil
}
