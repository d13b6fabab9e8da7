package marketdata

import (
	"context"
	"fmt"
	"time"

	"BottomScan/internal/domain/models"
	"BottomScan/internal/domain/repository"
	xhttp "BottomScan/pkg/http"
	xutil "BottomScan/pkg/util"
)

// FinnhubProvider fetches OHLCV candles from a Finnhub-style REST endpoint.
// Transient failures surface as errors so the recovery layer can fall back
// to the stored history.
type FinnhubProvider struct {
	apiKey   string
	baseURL  string
	lookback time.Duration
	client   *xhttp.Client
}

// FinnhubOption configures the provider.
type FinnhubOption func(*FinnhubProvider)

func WithBaseURL(url string) FinnhubOption {
	return func(p *FinnhubProvider) { p.baseURL = url }
}

func WithLookback(d time.Duration) FinnhubOption {
	return func(p *FinnhubProvider) { p.lookback = d }
}

func WithTimeout(d time.Duration) FinnhubOption {
	return func(p *FinnhubProvider) { p.client = xhttp.NewClient(xhttp.WithTimeout(d)) }
}

func NewFinnhubProvider(apiKey string, opts ...FinnhubOption) *FinnhubProvider {
	p := &FinnhubProvider{
		apiKey:   apiKey,
		baseURL:  "https://finnhub.io/api/v1",
		lookback: 200 * 24 * time.Hour,
		client:   xhttp.NewClient(xhttp.WithTimeout(15 * time.Second)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type candleResponse struct {
	Status     string    `json:"s"`
	Timestamps []int64   `json:"t"`
	Opens      []float64 `json:"o"`
	Highs      []float64 `json:"h"`
	Lows       []float64 `json:"l"`
	Closes     []float64 `json:"c"`
	Volumes    []float64 `json:"v"`
}

// Fetch pulls the lookback window of candles for (symbol, timeframe).
func (p *FinnhubProvider) Fetch(ctx context.Context, symbol string, tf repository.Timeframe) ([]models.Bar, error) {
	resolution, err := mapResolution(tf)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	from, to := xutil.AlignFromTo(now.Add(-p.lookback), now, string(tf))

	var resp candleResponse
	err = p.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    p.baseURL + "/stock/candle",
		QueryParams: map[string][]string{
			"symbol":     {symbol},
			"resolution": {resolution},
			"from":       {fmt.Sprintf("%d", from.Unix())},
			"to":         {fmt.Sprintf("%d", to.Unix())},
			"token":      {p.apiKey},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("fetch candles %s/%s: %w", symbol, tf, err)
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("fetch candles %s/%s: status %q", symbol, tf, resp.Status)
	}

	n := len(resp.Timestamps)
	if len(resp.Opens) != n || len(resp.Highs) != n || len(resp.Lows) != n || len(resp.Closes) != n || len(resp.Volumes) != n {
		return nil, fmt.Errorf("fetch candles %s/%s: ragged series", symbol, tf)
	}

	bars := make([]models.Bar, 0, n)
	for i := 0; i < n; i++ {
		bars = append(bars, models.Bar{
			Timestamp: time.Unix(resp.Timestamps[i], 0).UTC(),
			Open:      resp.Opens[i],
			High:      resp.Highs[i],
			Low:       resp.Lows[i],
			Close:     resp.Closes[i],
			Volume:    resp.Volumes[i],
		})
	}
	return bars, nil
}

func mapResolution(tf repository.Timeframe) (string, error) {
	switch tf {
	case "1m":
		return "1", nil
	case "5m":
		return "5", nil
	case "15m":
		return "15", nil
	case "1h":
		return "60", nil
	case "1d":
		return "D", nil
	default:
		minutes, err := tf.Minutes()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d", minutes), nil
	}
}
