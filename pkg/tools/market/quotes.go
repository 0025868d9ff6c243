package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// HTTPQuoteService talks to a quote API exposing JSON endpoints under
// one base URL: /indicators, /movers, /search, /price, /company,
// /candles.
type HTTPQuoteService struct {
	baseURL string
	client  *http.Client
}

// NewHTTPQuoteService creates a quote service for the given base URL
func NewHTTPQuoteService(baseURL string, client *http.Client) *HTTPQuoteService {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPQuoteService{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
}

// Indicators returns snapshots for the given symbols; with no symbols
// the service decides its default set.
func (s *HTTPQuoteService) Indicators(ctx context.Context, symbols []string) ([]Quote, error) {
	params := url.Values{}
	if len(symbols) > 0 {
		params.Set("symbols", strings.Join(symbols, ","))
	}

	var quotes []Quote
	if err := s.getJSON(ctx, "/indicators", params, &quotes); err != nil {
		return nil, err
	}
	return quotes, nil
}

// Movers returns the top movers for a direction ("gainers" or "losers")
func (s *HTTPQuoteService) Movers(ctx context.Context, direction string, limit int) ([]Mover, error) {
	params := url.Values{}
	params.Set("direction", direction)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var movers []Mover
	if err := s.getJSON(ctx, "/movers", params, &movers); err != nil {
		return nil, err
	}
	return movers, nil
}

// Search finds listings whose name matches the query, exact match first
func (s *HTTPQuoteService) Search(ctx context.Context, name string) ([]Listing, error) {
	params := url.Values{}
	params.Set("name", name)

	var listings []Listing
	if err := s.getJSON(ctx, "/search", params, &listings); err != nil {
		return nil, err
	}

	// Surface an exact name match ahead of partial matches
	for i, listing := range listings {
		if strings.EqualFold(listing.Name, name) && i > 0 {
			listings[0], listings[i] = listings[i], listings[0]
			break
		}
	}
	return listings, nil
}

// Price returns the latest trading snapshot for one stock code
func (s *HTTPQuoteService) Price(ctx context.Context, code string) (*Price, error) {
	params := url.Values{}
	params.Set("code", code)

	var price Price
	if err := s.getJSON(ctx, "/price", params, &price); err != nil {
		return nil, err
	}
	return &price, nil
}

// Company returns the fundamental profile for one stock code
func (s *HTTPQuoteService) Company(ctx context.Context, code string) (*Company, error) {
	params := url.Values{}
	params.Set("code", code)

	var company Company
	if err := s.getJSON(ctx, "/company", params, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

// Candles returns up to days daily bars for one stock code, oldest first
func (s *HTTPQuoteService) Candles(ctx context.Context, code string, days int) ([]Candle, error) {
	params := url.Values{}
	params.Set("code", code)
	if days > 0 {
		params.Set("days", strconv.Itoa(days))
	}

	var candles []Candle
	if err := s.getJSON(ctx, "/candles", params, &candles); err != nil {
		return nil, err
	}
	return candles, nil
}

func (s *HTTPQuoteService) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := s.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build quote request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("quote request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("quote endpoint %s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode quote response: %w", err)
	}
	return nil
}
