// Package footballdata wraps the third-party football-data HTTP API the
// import pipeline reads from. Responses follow the api-sports v3 envelope:
// a "response" array plus paging metadata.
package footballdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kickoffhub/kickoffhub/internal/config"
)

// ErrUpstreamTimeout marks a provider call that exceeded the configured
// network timeout. Callers surface it distinctly so a stalled provider is
// distinguishable from a provider error.
var ErrUpstreamTimeout = errors.New("football data provider timed out")

// Client is the football-data API client.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient builds a client from configuration.
func NewClient(cfg config.FootballConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// ProviderTeam is a team as reported by the provider.
type ProviderTeam struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	Country  string `json:"country"`
	Founded  int    `json:"founded"`
	National bool   `json:"national"`
	Logo     string `json:"logo"`
}

// ProviderVenue is a team's home ground.
type ProviderVenue struct {
	Name     string `json:"name"`
	City     string `json:"city"`
	Capacity int    `json:"capacity"`
}

// TeamEntry pairs a team with its venue, matching the provider envelope.
type TeamEntry struct {
	Team  ProviderTeam  `json:"team"`
	Venue ProviderVenue `json:"venue"`
}

// ProviderCountry is a country as reported by the provider.
type ProviderCountry struct {
	Name string `json:"name"`
	Code string `json:"code"`
	Flag string `json:"flag"`
}

// Teams fetches the teams registered for one league season.
func (c *Client) Teams(ctx context.Context, leagueID int64, season int) ([]TeamEntry, error) {
	params := url.Values{}
	params.Set("league", strconv.FormatInt(leagueID, 10))
	params.Set("season", strconv.Itoa(season))

	var envelope struct {
		Response []TeamEntry `json:"response"`
	}
	if err := c.get(ctx, "/teams", params, &envelope); err != nil {
		return nil, err
	}
	return envelope.Response, nil
}

// Countries fetches the provider's country list.
func (c *Client) Countries(ctx context.Context) ([]ProviderCountry, error) {
	var envelope struct {
		Response []ProviderCountry `json:"response"`
	}
	if err := c.get(ctx, "/countries", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Response, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, dest any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("x-apisports-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: %s", ErrUpstreamTimeout, path)
		}
		return fmt.Errorf("provider request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode provider response %s: %w", path, err)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
