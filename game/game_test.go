package game

import (
	"testing"
	"time"

	"coverquest/tmdb"
)

func TestDailyGameID(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want string
	}{
		{
			"plain utc",
			time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC),
			"2025-06-15",
		},
		{
			"zero padded",
			time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
			"2025-01-02",
		},
		{
			"non-utc zone normalized",
			time.Date(2025, 6, 15, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600)),
			"2025-06-16",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DailyGameID(tc.in); got != tc.want {
				t.Fatalf("DailyGameID = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNewState(t *testing.T) {
	s := NewState("2025-06-15", tmdb.Movie{ID: 42, Title: "Dune"})

	if s.MovieID != 42 || s.MovieTitle != "Dune" {
		t.Fatalf("answer not bound: %+v", s)
	}
	if s.CurrentGuess != 0 || s.IsComplete || s.Won || s.Score != 0 {
		t.Fatalf("initial state not clean: %+v", s)
	}
	if s.Guesses == nil || len(s.Guesses) != 0 {
		t.Fatalf("expected empty guess list, got %#v", s.Guesses)
	}
}

func TestSubmitGuess_WinOnSecondGuess(t *testing.T) {
	s := NewState("2025-06-15", tmdb.Movie{ID: 42, Title: "Dune"})

	s1, err := SubmitGuess(s, Guess{Title: "Arrival", MovieID: 7}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s1.CurrentGuess != 1 || s1.Won || s1.IsComplete || s1.Score != 0 {
		t.Fatalf("after wrong guess: %+v", s1)
	}

	s2, err := SubmitGuess(s1, Guess{Title: "Dune", MovieID: 42}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s2.Won || !s2.IsComplete {
		t.Fatalf("winning guess did not complete the game: %+v", s2)
	}
	if s2.CurrentGuess != 2 || s2.Score != 80 {
		t.Fatalf("expected guess 2 score 80, got guess %d score %d", s2.CurrentGuess, s2.Score)
	}
}

func TestSubmitGuess_FiveWrongGuessesLose(t *testing.T) {
	s := NewState("2025-06-15", tmdb.Movie{ID: 42, Title: "Dune"})

	var err error
	for i := 1; i <= MaxGuesses; i++ {
		s, err = SubmitGuess(s, Guess{Title: "Wrong", MovieID: i}, false)
		if err != nil {
			t.Fatalf("guess %d: %v", i, err)
		}
		if len(s.Guesses) != s.CurrentGuess {
			t.Fatalf("guess %d: len(Guesses)=%d but CurrentGuess=%d", i, len(s.Guesses), s.CurrentGuess)
		}
	}

	if !s.IsComplete || s.Won || s.Score != 0 {
		t.Fatalf("after five wrong guesses: %+v", s)
	}

	if _, err := SubmitGuess(s, Guess{Title: "Too late", MovieID: 42}, true); err != ErrGameComplete {
		t.Fatalf("expected ErrGameComplete, got %v", err)
	}
}

func TestSubmitGuess_DoesNotMutateInput(t *testing.T) {
	s := NewState("2025-06-15", tmdb.Movie{ID: 42, Title: "Dune"})
	s1, err := SubmitGuess(s, Guess{Title: "Arrival", MovieID: 7}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Appending to the snapshot must not reach back into the prior record.
	if _, err := SubmitGuess(s1, Guess{Title: "Blade Runner", MovieID: 78}, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Guesses) != 0 || s.CurrentGuess != 0 {
		t.Fatalf("input state mutated: %+v", s)
	}
	if len(s1.Guesses) != 1 {
		t.Fatalf("intermediate state mutated: %+v", s1)
	}
}

func TestSubmitGuess_ScoreSetOnce(t *testing.T) {
	s := NewState("2025-06-15", tmdb.Movie{ID: 42, Title: "Dune"})

	s1, err := SubmitGuess(s, Guess{Title: "Dune", MovieID: 42}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s1.Score != 100 {
		t.Fatalf("first-guess win should score 100, got %d", s1.Score)
	}
	if _, err := SubmitGuess(s1, Guess{Title: "Again", MovieID: 42}, true); err != ErrGameComplete {
		t.Fatalf("expected ErrGameComplete after win, got %v", err)
	}
}

func TestSubmitGuess_TerminalRecordUnchangedByFailedCall(t *testing.T) {
	s := NewState("2025-06-15", tmdb.Movie{ID: 42, Title: "Dune"})
	won, err := SubmitGuess(s, Guess{Title: "Dune", MovieID: 42}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	before := won
	if _, err := SubmitGuess(won, Guess{Title: "Extra", MovieID: 1}, false); err != ErrGameComplete {
		t.Fatalf("expected ErrGameComplete, got %v", err)
	}
	if won.CurrentGuess != before.CurrentGuess || len(won.Guesses) != len(before.Guesses) ||
		won.Won != before.Won || won.Score != before.Score {
		t.Fatalf("terminal record mutated by rejected call: %+v", won)
	}
}
