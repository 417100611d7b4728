package game

import (
	"errors"
	"fmt"
	"time"

	"coverquest/tmdb"
)

var ErrEmptyPool = errors.New("candidate pool is empty")

// SelectDaily deterministically picks the answer for gameID from the
// candidate pool. For a fixed identifier and pool the result is stable
// across calls and restarts. allowReseed perturbs the seed with the
// wall clock so staging environments can cycle answers; that path gives
// up reproducibility and must never back a real day's game.
func SelectDaily(gameID string, pool []tmdb.Movie, allowReseed bool) (tmdb.Movie, error) {
	if len(pool) == 0 {
		return tmdb.Movie{}, ErrEmptyPool
	}

	seed, err := dailySeed(gameID)
	if err != nil {
		return tmdb.Movie{}, err
	}
	if allowReseed {
		seed += time.Now().UnixMilli() % 1000000
	}

	idx := int(seededUnit(uint64(seed)) * float64(len(pool)))
	if idx >= len(pool) {
		idx = len(pool) - 1
	}
	return pool[idx], nil
}

// dailySeed combines the identifier's date components into the fixed
// arithmetic seed (year*10000 + month*100 + day).
func dailySeed(gameID string) (int64, error) {
	var year, month, day int
	if _, err := fmt.Sscanf(gameID, "%4d-%2d-%2d", &year, &month, &day); err != nil {
		return 0, fmt.Errorf("invalid game id %q: %w", gameID, err)
	}
	return int64(year)*10000 + int64(month)*100 + int64(day), nil
}

// seededUnit maps a seed to a fraction in [0, 1) via the splitmix64
// finalizer. Total and deterministic for a given seed.
func seededUnit(seed uint64) float64 {
	z := seed + 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31
	return float64(z>>11) / float64(uint64(1)<<53)
}
