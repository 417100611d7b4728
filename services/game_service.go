package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"coverquest/game"
	"coverquest/logger"
	"coverquest/tmdb"
)

// stateTTL is the retention window for in-progress and finished games:
// two real-world days past creation, after which the keys expire.
const stateTTL = 2 * 24 * time.Hour

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrGameNotComplete = errors.New("game not complete")
	ErrNoPoster        = errors.New("no poster for today's game")
)

// MetadataProvider is the slice of the TMDB client the game service
// consumes; tests substitute a fake.
type MetadataProvider interface {
	MovieDetails(ctx context.Context, movieID int) (tmdb.Movie, error)
	DiscoverPool(ctx context.Context) ([]tmdb.Movie, error)
	PosterURL(posterPath string) string
}

// ScoreSink receives completed games for the history store. Failures
// are logged and never fail the guess that triggered them.
type ScoreSink interface {
	Submit(ctx context.Context, state game.State, anonymousID string) error
}

type GameService struct {
	store    StateStore
	provider MetadataProvider
	scores   ScoreSink
	log      *logger.Logger

	related     game.RelatednessConfig
	allowReseed bool

	// mu guards keyLocks; each per-(identity, day) lock serializes the
	// read-modify-write guess cycle for that key.
	mu       sync.Mutex
	keyLocks map[string]*sync.Mutex
}

func NewGameService(store StateStore, provider MetadataProvider, scores ScoreSink, log *logger.Logger, related game.RelatednessConfig, allowReseed bool) *GameService {
	return &GameService{
		store:       store,
		provider:    provider,
		scores:      scores,
		log:         log,
		related:     related,
		allowReseed: allowReseed,
		keyLocks:    make(map[string]*sync.Mutex),
	}
}

// GuessView is a recorded guess plus its display-only related hint.
type GuessView struct {
	game.Guess
	Related bool `json:"related"`
}

// ClientState is the client-safe projection of a game record: no answer
// id or title, plus the poster URL and the current reveal level.
type ClientState struct {
	GameID          string      `json:"game_id"`
	Guesses         []GuessView `json:"guesses"`
	CurrentGuess    int         `json:"current_guess"`
	IsComplete      bool        `json:"is_complete"`
	Won             bool        `json:"won"`
	Score           int         `json:"score"`
	PosterURL       string      `json:"poster_url"`
	PixelationLevel int         `json:"pixelation_level"`
}

func gameStateKey(anonymousID, gameID string) string {
	return fmt.Sprintf("game:%s:%s", anonymousID, gameID)
}

func movieKey(gameID string) string {
	return "movie:" + gameID
}

func posterKey(gameID string) string {
	return "poster:" + gameID
}

// GetState returns the identity's game for the day, creating it on
// first request. Creation is idempotent under concurrent first requests:
// the daily answer is bound once via SetNX and every caller observes the
// same record.
func (s *GameService) GetState(ctx context.Context, anonymousID, gameID string) (*ClientState, error) {
	unlock := s.lockKey(gameStateKey(anonymousID, gameID))
	defer unlock()

	answer, err := s.dailyMovie(ctx, gameID)
	if err != nil {
		return nil, err
	}

	state, found, err := s.loadState(ctx, anonymousID, gameID)
	if err != nil {
		return nil, err
	}
	if !found {
		state, err = s.createState(ctx, anonymousID, gameID, answer)
		if err != nil {
			return nil, err
		}
	}

	return s.clientState(ctx, state, answer)
}

// SubmitGuess runs one guess through the state machine: enrich the
// guess from the metadata provider (best effort), compare ids, apply
// the transition, persist the new snapshot, and push the result to the
// history sink when the game just completed.
func (s *GameService) SubmitGuess(ctx context.Context, anonymousID, gameID string, movieID int, title string) (*ClientState, error) {
	unlock := s.lockKey(gameStateKey(anonymousID, gameID))
	defer unlock()

	state, found, err := s.loadState(ctx, anonymousID, gameID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrGameNotFound
	}
	if state.IsComplete {
		return nil, game.ErrGameComplete
	}

	answer, err := s.dailyMovie(ctx, gameID)
	if err != nil {
		return nil, err
	}

	guess := s.enrichGuess(ctx, movieID, title)
	isExact := movieID == answer.ID

	newState, err := game.SubmitGuess(state, guess, isExact)
	if err != nil {
		return nil, err
	}

	if err := s.storeState(ctx, anonymousID, gameID, newState); err != nil {
		return nil, err
	}

	if newState.IsComplete && s.scores != nil {
		if err := s.scores.Submit(ctx, newState, anonymousID); err != nil {
			// The player-visible outcome must not depend on the
			// history sink.
			s.log.Error("score submission failed", "game_id", gameID, "error", err)
		}
	}

	return s.clientState(ctx, newState, answer)
}

// RevealMovie returns the answer's full metadata, only once the
// identity's game for the day is complete.
func (s *GameService) RevealMovie(ctx context.Context, anonymousID, gameID string) (tmdb.Movie, error) {
	state, found, err := s.loadState(ctx, anonymousID, gameID)
	if err != nil {
		return tmdb.Movie{}, err
	}
	if !found {
		return tmdb.Movie{}, ErrGameNotFound
	}
	if !state.IsComplete {
		return tmdb.Movie{}, ErrGameNotComplete
	}
	return s.dailyMovie(ctx, gameID)
}

// PosterInfo returns the poster URL and the obfuscation level implied
// by the identity's current guess count (0 once the game is complete).
func (s *GameService) PosterInfo(ctx context.Context, anonymousID, gameID string) (string, int, error) {
	state, found, err := s.loadState(ctx, anonymousID, gameID)
	if err != nil {
		return "", 0, err
	}
	if !found {
		return "", 0, ErrGameNotFound
	}

	posterURL, found, err := s.store.Get(ctx, posterKey(gameID))
	if err != nil {
		return "", 0, err
	}
	if !found || posterURL == "" {
		return "", 0, ErrNoPoster
	}

	return posterURL, game.LevelForState(state), nil
}

// dailyMovie resolves the day's answer, selecting and binding it on
// first use. The movie key is day-scoped and shared across identities;
// SetNX makes exactly one selection win so every player guesses against
// the same answer.
func (s *GameService) dailyMovie(ctx context.Context, gameID string) (tmdb.Movie, error) {
	raw, found, err := s.store.Get(ctx, movieKey(gameID))
	if err != nil {
		return tmdb.Movie{}, err
	}
	if found {
		var movie tmdb.Movie
		if err := json.Unmarshal([]byte(raw), &movie); err != nil {
			return tmdb.Movie{}, fmt.Errorf("unmarshal daily movie: %w", err)
		}
		return movie, nil
	}

	movie, err := s.selectDailyMovie(ctx, gameID)
	if err != nil {
		return tmdb.Movie{}, err
	}

	data, err := json.Marshal(movie)
	if err != nil {
		return tmdb.Movie{}, fmt.Errorf("marshal daily movie: %w", err)
	}
	created, err := s.store.SetNX(ctx, movieKey(gameID), string(data), stateTTL)
	if err != nil {
		return tmdb.Movie{}, err
	}
	if !created {
		// Lost the creation race; use the winner's answer.
		raw, _, err := s.store.Get(ctx, movieKey(gameID))
		if err != nil {
			return tmdb.Movie{}, err
		}
		var stored tmdb.Movie
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			return tmdb.Movie{}, fmt.Errorf("unmarshal daily movie: %w", err)
		}
		return stored, nil
	}

	if err := s.store.Set(ctx, posterKey(gameID), s.provider.PosterURL(movie.PosterPath), stateTTL); err != nil {
		return tmdb.Movie{}, err
	}

	s.log.Info("daily movie selected", "game_id", gameID, "movie_id", movie.ID)
	return movie, nil
}

func (s *GameService) selectDailyMovie(ctx context.Context, gameID string) (tmdb.Movie, error) {
	pool, err := s.provider.DiscoverPool(ctx)
	if err != nil {
		return tmdb.Movie{}, err
	}

	withPosters := make([]tmdb.Movie, 0, len(pool))
	for _, m := range pool {
		if m.PosterPath != "" {
			withPosters = append(withPosters, m)
		}
	}

	selected, err := game.SelectDaily(gameID, withPosters, s.allowReseed)
	if err != nil {
		return tmdb.Movie{}, err
	}

	// The discover payload lacks genres, collection, and director; the
	// full record is what the relatedness hint runs against.
	full, err := s.provider.MovieDetails(ctx, selected.ID)
	if err != nil {
		return tmdb.Movie{}, err
	}
	return full, nil
}

func (s *GameService) createState(ctx context.Context, anonymousID, gameID string, answer tmdb.Movie) (game.State, error) {
	state := game.NewState(gameID, answer)
	data, err := json.Marshal(state)
	if err != nil {
		return game.State{}, fmt.Errorf("marshal game state: %w", err)
	}

	created, err := s.store.SetNX(ctx, gameStateKey(anonymousID, gameID), string(data), stateTTL)
	if err != nil {
		return game.State{}, err
	}
	if !created {
		stored, found, err := s.loadState(ctx, anonymousID, gameID)
		if err != nil {
			return game.State{}, err
		}
		if !found {
			return game.State{}, ErrGameNotFound
		}
		return stored, nil
	}
	return state, nil
}

func (s *GameService) loadState(ctx context.Context, anonymousID, gameID string) (game.State, bool, error) {
	raw, found, err := s.store.Get(ctx, gameStateKey(anonymousID, gameID))
	if err != nil || !found {
		return game.State{}, false, err
	}
	var state game.State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return game.State{}, false, fmt.Errorf("unmarshal game state: %w", err)
	}
	return state, true, nil
}

func (s *GameService) storeState(ctx context.Context, anonymousID, gameID string, state game.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal game state: %w", err)
	}
	return s.store.Set(ctx, gameStateKey(anonymousID, gameID), string(data), stateTTL)
}

func (s *GameService) enrichGuess(ctx context.Context, movieID int, title string) game.Guess {
	guess := game.Guess{Title: title, MovieID: movieID}

	details, err := s.provider.MovieDetails(ctx, movieID)
	if err != nil {
		// Enrichment is best effort: the guess still counts for the
		// exact-id check, only the related hint goes dark.
		s.log.Warn("guess enrichment failed", "movie_id", movieID, "error", err)
		return guess
	}

	guess.Year = details.ReleaseYear()
	guess.CollectionID = details.CollectionID()
	guess.DirectorID = details.DirectorID
	guess.GenreIDs = details.GenreIDs()
	guess.ProductionCompanyIDs = details.ProductionCompanyIDs()
	return guess
}

func (s *GameService) clientState(ctx context.Context, state game.State, answer tmdb.Movie) (*ClientState, error) {
	posterURL, _, err := s.store.Get(ctx, posterKey(state.GameID))
	if err != nil {
		return nil, err
	}

	views := make([]GuessView, len(state.Guesses))
	for i, g := range state.Guesses {
		related := false
		if g.MovieID != answer.ID {
			related = game.IsRelated(g, answer, s.related)
		}
		views[i] = GuessView{Guess: g, Related: related}
	}

	return &ClientState{
		GameID:          state.GameID,
		Guesses:         views,
		CurrentGuess:    state.CurrentGuess,
		IsComplete:      state.IsComplete,
		Won:             state.Won,
		Score:           state.Score,
		PosterURL:       posterURL,
		PixelationLevel: game.LevelForState(state),
	}, nil
}

func (s *GameService) lockKey(key string) func() {
	s.mu.Lock()
	lock, ok := s.keyLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.keyLocks[key] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
