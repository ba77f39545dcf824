// Package narrative turns raw sensor readings into human-readable analysis
// text by calling hosted endpoints, with retry, caching, and an offline
// fallback so the dashboard always has something to show.
package narrative

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	gocache "github.com/patrickmn/go-cache"

	"garden-hub/backend/pkg/utils"
)

// Kind selects one of the hosted analysis endpoints.
type Kind string

const (
	KindFireRisk   Kind = "fire-risk"
	KindIrrigation Kind = "irrigation"
	KindRainfall   Kind = "rainfall"
)

// Valid reports whether k is a known narrative kind.
func (k Kind) Valid() bool {
	switch k {
	case KindFireRisk, KindIrrigation, KindRainfall:
		return true
	}

	return false
}

// Source records how a narrative was produced.
type Source string

const (
	// SourceLive means the endpoint answered.
	SourceLive Source = "live"
	// SourceCache means the endpoint failed and a recent answer was reused.
	SourceCache Source = "cache"
	// SourceOffline means neither was available and the text was generated
	// locally from the readings.
	SourceOffline Source = "offline"
)

// Input is the sensor context sent to an analysis endpoint.
type Input struct {
	Temperature  float64 `json:"temperature"`
	Humidity     float64 `json:"humidity"`
	Gas          float64 `json:"gas"`
	SoilMoisture float64 `json:"soilMoisture"`
	Rain         bool    `json:"rain"`
}

// Narrative is one piece of analysis text.
type Narrative struct {
	Kind        Kind      `json:"kind"`
	Text        string    `json:"text"`
	Source      Source    `json:"source"`
	GeneratedAt time.Time `json:"generatedAt"`
}

type endpointResponse struct {
	Text string `json:"text"`
}

const (
	cacheTTL        = 10 * time.Minute
	cacheSweep      = 30 * time.Minute
	maxRetries      = 3
	initialInterval = 500 * time.Millisecond
)

// Client calls the analysis endpoints. Failed calls retry with exponential
// backoff; when the endpoint stays down the last good answer is served from
// cache, and failing that a locally generated fallback.
type Client struct {
	l          *slog.Logger
	httpClient *http.Client
	baseURL    string
	cache      *gocache.Cache
}

// NewClient builds a narrative client. An empty baseURL disables the hosted
// endpoints entirely; every request is then answered offline.
func NewClient(l *slog.Logger, baseURL string, timeout time.Duration) *Client {
	return &Client{
		l:          l.With(slog.String("component", "narrative")),
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		cache:      gocache.New(cacheTTL, cacheSweep),
	}
}

// Analyze produces a narrative for the given readings. It never returns an
// error: endpoint failures degrade to cached and then offline text.
func (c *Client) Analyze(ctx context.Context, kind Kind, input Input) Narrative {
	now := time.Now()

	if c.baseURL == "" {
		return Narrative{Kind: kind, Text: fallbackText(kind, input), Source: SourceOffline, GeneratedAt: now}
	}

	text, err := c.fetch(ctx, kind, input)
	if err == nil {
		c.cache.Set(string(kind), text, gocache.DefaultExpiration)

		return Narrative{Kind: kind, Text: text, Source: SourceLive, GeneratedAt: now}
	}

	c.l.Warn("analysis endpoint unavailable",
		slog.String("kind", string(kind)),
		utils.ErrAttr(err),
	)

	if cached, found := c.cache.Get(string(kind)); found {
		if text, ok := cached.(string); ok {
			return Narrative{Kind: kind, Text: text, Source: SourceCache, GeneratedAt: now}
		}
	}

	return Narrative{Kind: kind, Text: fallbackText(kind, input), Source: SourceOffline, GeneratedAt: now}
}

func (c *Client) fetch(ctx context.Context, kind Kind, input Input) (string, error) {
	payload, err := utils.ToJSON(input)
	if err != nil {
		return "", fmt.Errorf("failed to encode analysis request: %w", err)
	}

	url := fmt.Sprintf("%s/analyze/%s", c.baseURL, kind)

	var text string

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}

		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer utils.LogOnError(c.l, resp.Body.Close, "failed to close analysis response body")

		// Rate-limit style failures are retried like any other.
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("analysis endpoint returned status %d", resp.StatusCode)
		}

		decoded, err := utils.FromJSONStream[endpointResponse](resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode analysis response: %w", err))
		}

		text = decoded.Text

		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialInterval

	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, maxRetries), ctx)); err != nil {
		return "", err
	}

	return text, nil
}
