package game

import "coverquest/tmdb"

// RelatednessConfig tunes the display-only "related" hint.
type RelatednessConfig struct {
	// GenreOverlapThreshold is the minimum number of shared genres before
	// the genre rule fires. Below 3 broad genres like "Action" produce too
	// many unrelated matches.
	GenreOverlapThreshold int

	// MatchProductionCompanies enables the shared-studio rule. Off by
	// default: large studios produce too many unrelated movies.
	MatchProductionCompanies bool
}

func DefaultRelatednessConfig() RelatednessConfig {
	return RelatednessConfig{GenreOverlapThreshold: 3}
}

// IsRelated reports whether a non-winning guess shares a franchise,
// director, or genre signal with the answer. Absent fields on either
// side never match. The result is purely informational and never
// affects the win check or the score.
func IsRelated(g Guess, answer tmdb.Movie, cfg RelatednessConfig) bool {
	related := false

	if g.CollectionID != 0 && answer.CollectionID() != 0 && g.CollectionID == answer.CollectionID() {
		related = true
	}

	if g.DirectorID != 0 && answer.DirectorID != 0 && g.DirectorID == answer.DirectorID {
		related = true
	}

	if cfg.GenreOverlapThreshold > 0 && len(g.GenreIDs) > 0 {
		if sharedIDs(g.GenreIDs, answer.GenreIDs()) >= cfg.GenreOverlapThreshold {
			related = true
		}
	}

	if cfg.MatchProductionCompanies && len(g.ProductionCompanyIDs) > 0 {
		if sharedIDs(g.ProductionCompanyIDs, answer.ProductionCompanyIDs()) > 0 {
			related = true
		}
	}

	return related
}

func sharedIDs(a, b []int) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[int]struct{}, len(b))
	for _, id := range b {
		set[id] = struct{}{}
	}
	count := 0
	for _, id := range a {
		if _, ok := set[id]; ok {
			count++
		}
	}
	return count
}
