package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// PexelsProvider looks up photos with the Pexels search API.
type PexelsProvider struct {
	baseURL string // e.g. "https://api.pexels.com/v1"
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewPexelsProvider creates a provider authenticated with apiKey.
func NewPexelsProvider(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *PexelsProvider {
	return &PexelsProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (p *PexelsProvider) Name() string {
	return "pexels"
}

// pexelsSearchResponse holds the part of the search response we consume.
type pexelsSearchResponse struct {
	Photos []struct {
		Src struct {
			Large string `json:"large"`
		} `json:"src"`
	} `json:"photos"`
}

// FindImage returns the large-size URL of the first search result.
func (p *PexelsProvider) FindImage(ctx context.Context, query string) (string, bool) {
	imageURL, err := p.search(ctx, query)
	if err != nil {
		p.logger.Debug("image lookup failed",
			zap.String("query", query),
			zap.Error(err),
		)
		return "", false
	}
	return imageURL, true
}

func (p *PexelsProvider) search(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", "1")
	searchURL := p.baseURL + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", searchURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", p.apiKey)
	req.Header.Set("User-Agent", "quote-service/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("searching: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return "", fmt.Errorf("pexels API returned %d: %s", resp.StatusCode, string(body))
	}

	var result pexelsSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding search response: %w", err)
	}

	if len(result.Photos) == 0 {
		return "", fmt.Errorf("no photos for query %q", query)
	}
	if result.Photos[0].Src.Large == "" {
		return "", fmt.Errorf("first photo has no large source")
	}

	return result.Photos[0].Src.Large, nil
}
