package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// HTTPFetcher polls a JSON endpoint that returns the latest rounds, oldest
// first, as {"rounds": [...]}.
type HTTPFetcher struct {
	URL      string
	APIKey   string
	Location *time.Location
	Client   *http.Client
}

// NewHTTPFetcher creates a new fetcher with optional proxy support.
func NewHTTPFetcher(endpoint, apiKey, proxyURL string, loc *time.Location) *HTTPFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &HTTPFetcher{
		URL:      endpoint,
		APIKey:   apiKey,
		Location: loc,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *HTTPFetcher) Name() string { return "http" }

type roundsResponse struct {
	Rounds []json.RawMessage `json:"rounds"`
}

func (f *HTTPFetcher) Fetch(ctx context.Context) ([]Observation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("feed read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var payload roundsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("feed decode: %w", err)
	}

	out := make([]Observation, 0, len(payload.Rounds))
	for i, raw := range payload.Rounds {
		obs, err := decodeRecord(raw, f.Location)
		if err != nil {
			return nil, fmt.Errorf("feed round %d: %w", i, err)
		}
		out = append(out, obs)
	}
	return out, nil
}
