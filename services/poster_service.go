package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"coverquest/logger"
	"coverquest/pixelate"
)

// ErrObfuscationBlocked means pixelation kept failing and the endpoint
// refuses to serve anything. The raw poster is never the fallback while
// the puzzle is unsolved.
var ErrObfuscationBlocked = errors.New("poster obfuscation blocked after retries")

// RenderState tracks the obfuscation attempt for one poster render.
type RenderState int

const (
	RenderObfuscating RenderState = iota
	RenderObfuscated
	RenderRetrying
	RenderBlocked
)

func (s RenderState) String() string {
	switch s {
	case RenderObfuscating:
		return "obfuscating"
	case RenderObfuscated:
		return "obfuscated"
	case RenderRetrying:
		return "retrying"
	case RenderBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// nextRenderState advances the render machine after one attempt.
// Success always obfuscates; failure retries until the budget runs out,
// then blocks.
func nextRenderState(attempt int, maxRetries int, failed bool) RenderState {
	if !failed {
		return RenderObfuscated
	}
	if attempt < maxRetries {
		return RenderRetrying
	}
	return RenderBlocked
}

type PosterService struct {
	httpClient *http.Client
	log        *logger.Logger
	maxRetries int
}

func NewPosterService(log *logger.Logger, maxRetries int) *PosterService {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &PosterService{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        log,
		maxRetries: maxRetries,
	}
}

// ObfuscatedPoster fetches the poster and pixelates it at the given
// level. Level 0 means the game is complete and the original image is
// allowed through. For any other level the image is only returned
// obfuscated; repeated pixelation failures end in ErrObfuscationBlocked.
func (s *PosterService) ObfuscatedPoster(ctx context.Context, posterURL string, level int) ([]byte, string, error) {
	raw, rawType, err := s.fetch(ctx, posterURL)
	if err != nil {
		return nil, "", err
	}

	if level <= 0 {
		return raw, rawType, nil
	}

	state := RenderObfuscating
	var lastErr error
	for attempt := 0; state != RenderBlocked; attempt++ {
		out, outType, err := pixelate.Obscure(raw, level)
		state = nextRenderState(attempt, s.maxRetries, err != nil)
		if state == RenderObfuscated {
			return out, outType, nil
		}
		lastErr = err
		s.log.Warn("poster obfuscation attempt failed",
			"attempt", attempt, "state", state.String(), "error", err)
	}

	return nil, "", fmt.Errorf("%w: %v", ErrObfuscationBlocked, lastErr)
}

func (s *PosterService) fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch poster: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch poster: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, "", fmt.Errorf("read poster: %w", err)
	}

	ctype := resp.Header.Get("Content-Type")
	if ctype == "" {
		ctype = "image/jpeg"
	}
	return body, ctype, nil
}
