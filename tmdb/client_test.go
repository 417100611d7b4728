package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(Config{
		BaseURL:    srv.URL,
		APIKey:     "test-key",
		HTTPClient: srv.Client(),
	})
	return client, srv
}

func TestSearchMovies_FiltersAndSorts(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("missing bearer token, got %q", got)
		}
		if r.URL.Query().Get("page") != "1" {
			fmt.Fprint(w, `{"page":2,"results":[],"total_pages":1}`)
			return
		}
		fmt.Fprint(w, `{"page":1,"total_pages":1,"results":[
			{"id":1,"title":"Low","poster_path":"/a.jpg","popularity":2.0},
			{"id":2,"title":"No Poster","popularity":99.0},
			{"id":3,"title":"High","poster_path":"/b.jpg","popularity":9.5},
			{"id":1,"title":"Low Duplicate","poster_path":"/a.jpg","popularity":2.0}
		]}`)
	}))

	results, err := client.SearchMovies(context.Background(), "dune")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d: %+v", len(results), results)
	}
	if results[0].ID != 3 || results[1].ID != 1 {
		t.Fatalf("results not sorted by popularity: %+v", results)
	}
}

func TestSearchMovies_EmptyQuery(t *testing.T) {
	client := NewClient(Config{APIKey: "test-key"})
	results, err := client.SearchMovies(context.Background(), "   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %+v", results)
	}
}

func TestSearchMovies_MissingAPIKey(t *testing.T) {
	client := NewClient(Config{})
	if _, err := client.SearchMovies(context.Background(), "dune"); err != ErrMissingAPIKey {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestMovieDetails_IncludesDirector(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/movie/42":
			fmt.Fprint(w, `{"id":42,"title":"Dune","release_date":"2021-09-15",
				"poster_path":"/dune.jpg",
				"belongs_to_collection":{"id":726871,"name":"Dune Collection"},
				"genres":[{"id":878,"name":"Science Fiction"}]}`)
		case "/movie/42/credits":
			fmt.Fprint(w, `{"crew":[
				{"id":1,"name":"Someone","job":"Producer"},
				{"id":137427,"name":"Denis Villeneuve","job":"Director"}
			]}`)
		default:
			http.NotFound(w, r)
		}
	}))

	movie, err := client.MovieDetails(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if movie.ID != 42 || movie.Title != "Dune" {
		t.Fatalf("unexpected movie: %+v", movie)
	}
	if movie.DirectorID != 137427 {
		t.Fatalf("expected director 137427, got %d", movie.DirectorID)
	}
	if movie.CollectionID() != 726871 {
		t.Fatalf("expected collection 726871, got %d", movie.CollectionID())
	}
	if movie.ReleaseYear() != 2021 {
		t.Fatalf("expected release year 2021, got %d", movie.ReleaseYear())
	}
}

func TestMovieDetails_CreditsFailureDegrades(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/movie/42":
			fmt.Fprint(w, `{"id":42,"title":"Dune"}`)
		case "/movie/42/credits":
			http.Error(w, "upstream broke", http.StatusBadGateway)
		default:
			http.NotFound(w, r)
		}
	}))

	movie, err := client.MovieDetails(context.Background(), 42)
	if err != nil {
		t.Fatalf("credits failure must not fail the primary lookup: %v", err)
	}
	if movie.DirectorID != 0 {
		t.Fatalf("expected no director, got %d", movie.DirectorID)
	}
}

func TestMovieDetails_PrimaryFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))

	if _, err := client.MovieDetails(context.Background(), 42); err == nil {
		t.Fatal("expected error when the movie lookup fails")
	}
}

func TestDiscoverPool_QueryAndPaging(t *testing.T) {
	var pagesServed int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/discover/movie" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("sort_by") != "popularity.desc" {
			t.Errorf("sort_by = %q", q.Get("sort_by"))
		}
		if q.Get("vote_count.gte") != "600" {
			t.Errorf("vote_count.gte = %q", q.Get("vote_count.gte"))
		}
		if q.Get("vote_average.gte") != "4.5" {
			t.Errorf("vote_average.gte = %q", q.Get("vote_average.gte"))
		}
		if q.Get("primary_release_date.gte") == "" {
			t.Error("expected a release date floor")
		}
		pagesServed++
		page := q.Get("page")
		fmt.Fprintf(w, `{"page":%s,"total_pages":2,"results":[
			{"id":%s0,"title":"Movie %s","poster_path":"/p%s.jpg"}
		]}`, page, page, page, page)
	}))

	pool, err := client.DiscoverPool(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pagesServed != 2 {
		t.Fatalf("expected to stop at total_pages=2, served %d", pagesServed)
	}
	if len(pool) != 2 {
		t.Fatalf("expected 2 movies, got %d", len(pool))
	}
}

func TestDiscoverPool_LaterPageFailureIsSoft(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"page":1,"total_pages":3,"results":[{"id":10,"title":"Only","poster_path":"/x.jpg"}]}`)
	}))

	pool, err := client.DiscoverPool(context.Background())
	if err != nil {
		t.Fatalf("later page failure must keep the first page: %v", err)
	}
	if len(pool) != 1 || pool[0].ID != 10 {
		t.Fatalf("unexpected pool: %+v", pool)
	}
}

func TestDiscoverPool_FirstPageFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))

	if _, err := client.DiscoverPool(context.Background()); err == nil {
		t.Fatal("expected error when the first discover page fails")
	}
}

func TestPosterURL(t *testing.T) {
	client := NewClient(Config{ImageBaseURL: "https://img.example/w500"})
	if got := client.PosterURL("/dune.jpg"); got != "https://img.example/w500/dune.jpg" {
		t.Fatalf("PosterURL = %q", got)
	}
	if got := client.PosterURL(""); got != "" {
		t.Fatalf("empty path should yield empty url, got %q", got)
	}
}

func TestDiscoverPool_ReleaseFloorUsesClientClock(t *testing.T) {
	var gotFloor string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFloor = r.URL.Query().Get("primary_release_date.gte")
		fmt.Fprint(w, `{"page":1,"total_pages":1,"results":[{"id":1,"title":"M","poster_path":"/m.jpg"}]}`)
	}))
	client.now = func() time.Time { return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) }

	if _, err := client.DiscoverPool(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotFloor != "1975-01-01" {
		t.Fatalf("release floor = %q, want 1975-01-01", gotFloor)
	}
}
