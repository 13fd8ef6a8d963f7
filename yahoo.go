package insider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Browser User-Agent required: Yahoo rejects generic clients (401/429).
const yahooUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const (
	yahooChartURL   = "https://query1.finance.yahoo.com/v8/finance/chart"
	yahooSummaryURL = "https://query1.finance.yahoo.com/v10/finance/quoteSummary"
)

// YahooClient implements MarketData against Yahoo Finance's public chart and
// quoteSummary endpoints. Closes are corporate-action adjusted (adjclose).
type YahooClient struct {
	httpClient *http.Client
	chartURL   string
	summaryURL string
}

// YahooOption configures a YahooClient.
type YahooOption func(*YahooClient)

// WithYahooBaseURLs overrides the endpoints (tests point them at a local server).
func WithYahooBaseURLs(chartURL, summaryURL string) YahooOption {
	return func(y *YahooClient) {
		y.chartURL = chartURL
		y.summaryURL = summaryURL
	}
}

// NewYahooClient builds a Yahoo-backed MarketData provider.
func NewYahooClient(opts ...YahooOption) *YahooClient {
	y := &YahooClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        50,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		chartURL:   yahooChartURL,
		summaryURL: yahooSummaryURL,
	}
	for _, opt := range opts {
		opt(y)
	}
	return y
}

// toYahooSymbol converts dotted share classes to Yahoo's dashed form: BRK.B -> BRK-B.
func toYahooSymbol(sym string) string {
	return strings.ReplaceAll(strings.TrimSpace(sym), ".", "-")
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History fetches daily bars for [from, to]. Days where Yahoo reports a null
// close (halts, data gaps) are dropped.
func (y *YahooClient) History(ctx context.Context, ticker string, from, to time.Time) ([]Bar, error) {
	u := fmt.Sprintf("%s/%s?interval=1d&events=div%%2Csplit&period1=%d&period2=%d",
		y.chartURL, url.PathEscape(toYahooSymbol(ticker)), from.Unix(), to.Unix())

	body, err := y.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var data chartResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("chart response for %s: %w", ticker, err)
	}
	if data.Chart.Error != nil {
		return nil, fmt.Errorf("chart error for %s: %s", ticker, data.Chart.Error.Description)
	}
	if len(data.Chart.Result) == 0 || len(data.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil
	}

	r := data.Chart.Result[0]
	quote := r.Indicators.Quote[0]

	// Prefer adjusted closes; raw closes only when Yahoo omits the adjclose block.
	closes := quote.Close
	if len(r.Indicators.AdjClose) > 0 && len(r.Indicators.AdjClose[0].AdjClose) > 0 {
		closes = r.Indicators.AdjClose[0].AdjClose
	}

	bars := make([]Bar, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		var volume float64
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			volume = *quote.Volume[i]
		}
		bars = append(bars, Bar{
			Date:   time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Close:  *closes[i],
			Volume: volume,
		})
	}
	return bars, nil
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				MarketCap struct {
					Raw float64 `json:"raw"`
				} `json:"marketCap"`
			} `json:"price"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// MarketCap fetches the current market capitalization snapshot for a ticker.
func (y *YahooClient) MarketCap(ctx context.Context, ticker string) (float64, error) {
	u := fmt.Sprintf("%s/%s?modules=price", y.summaryURL, url.PathEscape(toYahooSymbol(ticker)))

	body, err := y.get(ctx, u)
	if err != nil {
		return 0, err
	}

	var data quoteSummaryResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return 0, fmt.Errorf("quoteSummary response for %s: %w", ticker, err)
	}
	if data.QuoteSummary.Error != nil {
		return 0, fmt.Errorf("quoteSummary error for %s: %s", ticker, data.QuoteSummary.Error.Description)
	}
	if len(data.QuoteSummary.Result) == 0 {
		return 0, fmt.Errorf("no quoteSummary result for %s", ticker)
	}
	return data.QuoteSummary.Result[0].Price.MarketCap.Raw, nil
}

func (y *YahooClient) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", yahooUserAgent)

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("yahoo returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
