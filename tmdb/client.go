// Package tmdb is the client for The Movie Database API: title search,
// movie details with a best-effort director lookup, and the discover
// query that builds the daily candidate pool.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL      = "https://api.themoviedb.org/3"
	defaultImageBaseURL = "https://image.tmdb.org/t/p/w500"

	// Pool filters: blockbusters only, released in the last 50 years.
	discoverMinVoteCount   = 600
	discoverMinVoteAverage = 4.5
	discoverYearSpan       = 50

	defaultMaxPages = 3
)

var ErrMissingAPIKey = errors.New("tmdb: API key not configured")

// Config controls how the client reaches the TMDB API.
type Config struct {
	BaseURL      string
	ImageBaseURL string
	APIKey       string
	HTTPClient   *http.Client
	MaxPages     int
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches movie metadata from TMDB and maps it to the wire types
// the game consumes.
type Client struct {
	baseURL      string
	imageBaseURL string
	apiKey       string
	httpClient   httpDoer
	now          func() time.Time
	maxPages     int
}

// NewClient constructs a TMDB client with the provided configuration.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	imageBaseURL := strings.TrimRight(cfg.ImageBaseURL, "/")
	if imageBaseURL == "" {
		imageBaseURL = defaultImageBaseURL
	}
	httpClient := httpDoer(cfg.HTTPClient)
	if cfg.HTTPClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	return &Client{
		baseURL:      baseURL,
		imageBaseURL: imageBaseURL,
		apiKey:       cfg.APIKey,
		httpClient:   httpClient,
		now:          time.Now,
		maxPages:     maxPages,
	}
}

// SearchMovies searches TMDB by title across up to maxPages pages,
// keeps only results with a poster, drops duplicate ids, and orders by
// popularity descending.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return []SearchResult{}, nil
	}
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	seen := make(map[int]bool)
	results := make([]SearchResult, 0)

	for page := 1; page <= c.maxPages; page++ {
		var payload pagedResponse[searchMoviePayload]
		err := c.getJSON(ctx, "/search/movie", map[string]string{
			"query": query,
			"page":  strconv.Itoa(page),
		}, &payload)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			break
		}

		for _, m := range payload.Results {
			if m.ID == 0 || m.PosterPath == "" || seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			results = append(results, SearchResult{
				ID:          m.ID,
				Title:       m.Title,
				ReleaseDate: m.ReleaseDate,
				PosterPath:  m.PosterPath,
				Popularity:  m.Popularity,
			})
		}

		if payload.TotalPages > 0 && page >= payload.TotalPages {
			break
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Popularity > results[j].Popularity
	})
	return results, nil
}

// MovieDetails fetches the full record for a movie and enriches it with
// the director id from the credits endpoint. The credits lookup is
// best-effort: its failure leaves DirectorID zero and never fails the
// primary lookup.
func (c *Client) MovieDetails(ctx context.Context, movieID int) (Movie, error) {
	if c.apiKey == "" {
		return Movie{}, ErrMissingAPIKey
	}

	var movie Movie
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d", movieID), nil, &movie); err != nil {
		return Movie{}, err
	}

	var credits creditsPayload
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d/credits", movieID), nil, &credits); err == nil {
		for _, person := range credits.Crew {
			if person.Job == "Director" {
				movie.DirectorID = person.ID
				break
			}
		}
	}

	return movie, nil
}

// DiscoverPool fetches up to maxPages pages of popular, well-voted
// movies for the daily candidate pool. Later pages fail soft; the first
// page failing fails the call.
func (c *Client) DiscoverPool(ctx context.Context) ([]Movie, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	minYear := c.now().UTC().Year() - discoverYearSpan
	pool := make([]Movie, 0)

	for page := 1; page <= c.maxPages; page++ {
		var payload pagedResponse[Movie]
		err := c.getJSON(ctx, "/discover/movie", map[string]string{
			"sort_by":                  "popularity.desc",
			"vote_count.gte":           strconv.Itoa(discoverMinVoteCount),
			"vote_average.gte":         strconv.FormatFloat(discoverMinVoteAverage, 'f', 1, 64),
			"primary_release_date.gte": fmt.Sprintf("%d-01-01", minYear),
			"page":                     strconv.Itoa(page),
		}, &payload)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			break
		}

		pool = append(pool, payload.Results...)

		if payload.TotalPages > 0 && page >= payload.TotalPages {
			break
		}
	}

	return pool, nil
}

// PosterURL resolves a TMDB poster path to a full image URL, or "" when
// the path is absent.
func (c *Client) PosterURL(posterPath string) string {
	if posterPath == "" {
		return ""
	}
	return c.imageBaseURL + posterPath
}

func (c *Client) getJSON(ctx context.Context, path string, params map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	if len(params) > 0 {
		q := req.URL.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("tmdb: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

type pagedResponse[T any] struct {
	Page       int `json:"page"`
	Results    []T `json:"results"`
	TotalPages int `json:"total_pages"`
}

type searchMoviePayload struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	Popularity  float64 `json:"popularity"`
}

type creditsPayload struct {
	Crew []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
		Job  string `json:"job"`
	} `json:"crew"`
}
