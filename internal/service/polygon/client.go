package polygon

import (
	"context"
	"fmt"
	"time"

	"MarketPulse/internal/domain/models"
	drepo "MarketPulse/internal/domain/repository"
	"MarketPulse/internal/service/ratelimit"
	xhttp "MarketPulse/pkg/http"
)

// Client implements BarProvider against a Polygon-style aggregates API.
// Credential failures come back as AppError 401/403, which callers must
// not retry; every other failure is considered transient.
type Client struct {
	baseURL string
	apiKey  string
	client  *xhttp.Client

	limiter      *ratelimit.Limiter
	rateCapacity float64
	rateRefill   float64
}

// New creates a provider client.
func New(baseURL, apiKey string, timeout time.Duration, rateCapacity, rateRefill float64) drepo.BarProvider {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:      baseURL,
		apiKey:       apiKey,
		client:       xhttp.NewClient(xhttp.WithTimeout(timeout)),
		limiter:      ratelimit.New(),
		rateCapacity: rateCapacity,
		rateRefill:   rateRefill,
	}
}

type aggsResponse struct {
	Ticker       string    `json:"ticker"`
	Status       string    `json:"status"`
	ResultsCount int       `json:"resultsCount"`
	Results      []aggsBar `json:"results"`
}

type aggsBar struct {
	T  int64   `json:"t"`
	O  float64 `json:"o"`
	H  float64 `json:"h"`
	L  float64 `json:"l"`
	C  float64 `json:"c"`
	V  float64 `json:"v"`
	VW float64 `json:"vw"`
}

// GetBars fetches aggregate bars for one ticker and date range.
func (c *Client) GetBars(ctx context.Context, req drepo.BarRequest) ([]models.Bar, error) {
	if err := c.limiter.Wait(ctx, "aggs", c.rateCapacity, c.rateRefill); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	url := fmt.Sprintf("%s/v2/aggs/ticker/%s/range/1/%s/%s/%s",
		c.baseURL,
		req.Ticker,
		req.Granularity,
		req.Start.UTC().Format("2006-01-02"),
		req.End.UTC().Format("2006-01-02"),
	)

	var resp aggsResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    url,
		Headers: map[string]string{
			"Authorization": "Bearer " + c.apiKey,
		},
		QueryParams: map[string][]string{
			"adjusted": {"true"},
			"sort":     {"asc"},
			"limit":    {"50000"},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("aggs %s: %w", req.Ticker, err)
	}

	bars := make([]models.Bar, 0, len(resp.Results))
	for _, r := range resp.Results {
		bars = append(bars, models.Bar{
			Timestamp: r.T,
			Open:      r.O,
			High:      r.H,
			Low:       r.L,
			Close:     r.C,
			Volume:    r.V,
			VWAP:      r.VW,
		})
	}
	return bars, nil
}
