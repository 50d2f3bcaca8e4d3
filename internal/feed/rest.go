package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"StructSentinel/internal/model"
)

// RESTFeed implements CandleFeed and PriceFeed against a generic bars/quote
// REST API. It is the only vendor surface the bot carries; anything more
// specific stays behind the feed interfaces.
type RESTFeed struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTFeed creates a feed with optional proxy support.
func NewRESTFeed(baseURL, apiKey, proxyURL string) *RESTFeed {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &RESTFeed{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *RESTFeed) Name() string { return "rest" }

// apiBar is the expected JSON shape of one bar.
type apiBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
}

// FetchCandles returns up to limit bars in chronological order.
func (f *RESTFeed) FetchCandles(ctx context.Context, symbol, timeframe string, limit int) ([]model.Candle, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bars?symbol=%s&timeframe=%s&limit=%d", f.BaseURL, symbol, timeframe, limit)
	body, err := f.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch candles: %w", err)
	}
	var bars []apiBar
	if err := json.Unmarshal(body, &bars); err != nil {
		return nil, fmt.Errorf("decode candles: %w", err)
	}
	candles := make([]model.Candle, len(bars))
	for i, b := range bars {
		candles[i] = model.Candle{
			Time:  time.Unix(b.Timestamp, 0).UTC(),
			Open:  b.Open,
			High:  b.High,
			Low:   b.Low,
			Close: b.Close,
		}
	}
	sort.Slice(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })
	return candles, nil
}

// FetchTick returns the latest OHLC observation. A 404 or an empty payload is
// reported as unavailable, not as an error, so a poll cycle can degrade to
// timeout-only checks.
func (f *RESTFeed) FetchTick(ctx context.Context, symbol string) (model.Tick, bool, error) {
	endpoint := fmt.Sprintf("%s/api/v1/quote?symbol=%s", f.BaseURL, symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.Tick{}, false, err
	}
	f.auth(req)
	resp, err := f.Client.Do(req)
	if err != nil {
		return model.Tick{}, false, fmt.Errorf("fetch tick: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return model.Tick{}, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return model.Tick{}, false, fmt.Errorf("fetch tick: status %d", resp.StatusCode)
	}
	var q struct {
		Timestamp int64   `json:"timestamp"`
		High      float64 `json:"high"`
		Low       float64 `json:"low"`
		Close     float64 `json:"close"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&q); err != nil {
		return model.Tick{}, false, fmt.Errorf("decode tick: %w", err)
	}
	if q.High == 0 && q.Low == 0 {
		return model.Tick{}, false, nil
	}
	return model.Tick{
		Time:  time.Unix(q.Timestamp, 0).UTC(),
		High:  q.High,
		Low:   q.Low,
		Close: q.Close,
	}, true, nil
}

func (f *RESTFeed) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	f.auth(req)
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	return io.ReadAll(resp.Body)
}

func (f *RESTFeed) auth(req *http.Request) {
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
}
