package tmdb

import (
	"strconv"
	"strings"
)

// Movie is the full metadata record for a guessable answer. Everything
// except ID and Title is optional; TMDB omits fields freely.
type Movie struct {
	ID                  int                 `json:"id"`
	Title               string              `json:"title"`
	ReleaseDate         string              `json:"release_date,omitempty"`
	PosterPath          string              `json:"poster_path,omitempty"`
	Overview            string              `json:"overview,omitempty"`
	Popularity          float64             `json:"popularity,omitempty"`
	VoteCount           int                 `json:"vote_count,omitempty"`
	VoteAverage         float64             `json:"vote_average,omitempty"`
	Collection          *Collection         `json:"belongs_to_collection,omitempty"`
	Genres              []Genre             `json:"genres,omitempty"`
	ProductionCompanies []ProductionCompany `json:"production_companies,omitempty"`

	// DirectorID is populated from the credits endpoint, not the movie
	// endpoint; zero means the credits lookup failed or found no director.
	DirectorID int `json:"director_id,omitempty"`
}

type Collection struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	PosterPath string `json:"poster_path,omitempty"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type ProductionCompany struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// SearchResult is the trimmed shape returned by title search.
type SearchResult struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date,omitempty"`
	PosterPath  string  `json:"poster_path,omitempty"`
	Popularity  float64 `json:"popularity,omitempty"`
}

// ReleaseYear returns the year component of the release date, or 0 when
// the date is absent or malformed.
func (m Movie) ReleaseYear() int {
	if m.ReleaseDate == "" {
		return 0
	}
	parts := strings.SplitN(m.ReleaseDate, "-", 2)
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	return year
}

// CollectionID returns the franchise collection id, or 0 when the movie
// does not belong to one.
func (m Movie) CollectionID() int {
	if m.Collection == nil {
		return 0
	}
	return m.Collection.ID
}

// GenreIDs returns the genre ids as a flat slice.
func (m Movie) GenreIDs() []int {
	if len(m.Genres) == 0 {
		return nil
	}
	ids := make([]int, len(m.Genres))
	for i, g := range m.Genres {
		ids[i] = g.ID
	}
	return ids
}

// ProductionCompanyIDs returns the production company ids as a flat slice.
func (m Movie) ProductionCompanyIDs() []int {
	if len(m.ProductionCompanies) == 0 {
		return nil
	}
	ids := make([]int, len(m.ProductionCompanies))
	for i, c := range m.ProductionCompanies {
		ids[i] = c.ID
	}
	return ids
}
