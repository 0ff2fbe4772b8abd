// Package yahoo fetches historical price bars from the Yahoo Finance v8
// chart API. The core only consumes timestamps and closes, but full OHLCV
// bars are returned for the report sink.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rustyeddy/papertrader/market"
)

// DefaultBaseURL is the public Yahoo Finance chart endpoint host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Client is a Yahoo Finance chart API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client against the public endpoint.
func NewClient() *Client {
	return NewClientWithBaseURL(DefaultBaseURL)
}

// NewClientWithBaseURL returns a client against a custom endpoint,
// primarily for tests.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// chartResponse mirrors the subset of the v8 chart payload we read.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []quoteData `json:"quote"`
	} `json:"indicators"`
}

// quoteData holds parallel OHLCV arrays; entries are null (nil pointers)
// for halted or partial bars.
type quoteData struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// GetBars fetches historical bars for one symbol. It returns
// market.ErrNoData when the provider has nothing for the requested range,
// so callers can distinguish "no data" from transport failures.
func (c *Client) GetBars(ctx context.Context, req market.BarRequest) ([]market.Bar, error) {
	if req.Symbol == "" {
		return nil, fmt.Errorf("yahoo: symbol is required")
	}

	interval := req.Interval
	if interval == "" {
		interval = market.Interval1d
	}

	end := req.End
	if end.IsZero() {
		end = time.Now()
	}
	start := req.Start
	if req.Lookback > 0 {
		start = end.Add(-req.Lookback)
	}
	if start.IsZero() || !start.Before(end) {
		return nil, fmt.Errorf("yahoo: invalid range %v..%v", start, end)
	}

	params := url.Values{}
	params.Set("period1", fmt.Sprintf("%d", start.Unix()))
	params.Set("period2", fmt.Sprintf("%d", end.Unix()))
	params.Set("interval", string(interval))
	params.Set("events", "history")

	apiURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(req.Symbol), params.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("yahoo: create request: %w", err)
	}
	// Yahoo rejects requests without a browser-ish user agent.
	httpReq.Header.Set("User-Agent", "Mozilla/5.0 (compatible; papertrader)")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("yahoo: execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("yahoo: %s: %w", req.Symbol, market.ErrNoData)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("yahoo: API error (status %d): %s", resp.StatusCode, string(body))
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("yahoo: decode response: %w", err)
	}

	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo: %s: %s", payload.Chart.Error.Code, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo: %s: %w", req.Symbol, market.ErrNoData)
	}

	result := payload.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: %s: %w", req.Symbol, market.ErrNoData)
	}

	quote := result.Indicators.Quote[0]
	bars := make([]market.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// Skip bars with a null close (halts, in-flight periods), the way
		// incomplete candles are skipped upstream.
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		b := market.Bar{
			Time:  time.Unix(ts, 0).UTC(),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			b.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			b.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			b.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			b.Volume = *quote.Volume[i]
		}
		bars = append(bars, b)
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("yahoo: %s: %w", req.Symbol, market.ErrNoData)
	}
	return bars, nil
}
