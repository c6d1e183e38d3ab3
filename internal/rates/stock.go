// =============================================================================
// Finance Reports - Stock Prices
// =============================================================================
//
// REQUEST:
//   GET {base}/v8/finance/chart/AAPL?range=1d&interval=1d
//
// The price of a symbol is the first daily high of the chart result. A null
// high is reported as ErrNoData.
//
// =============================================================================

package rates

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultStockBaseURL is the Yahoo Finance host used when BaseURL is empty.
	DefaultStockBaseURL = "https://query1.finance.yahoo.com"

	// userAgent is sent because the chart API rejects requests without one.
	userAgent = "Mozilla/5.0 (compatible; finreport/1.0)"
)

// StockClient reads daily quotes from the Yahoo Finance chart API.
type StockClient struct {
	BaseURL string
	Timeout time.Duration
	HTTP    *http.Client
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Indicators struct {
				Quote []struct {
					High []decimal.NullDecimal `json:"high"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// High returns the high price of the most recent trading day for symbol.
func (c *StockClient) High(ctx context.Context, symbol string) (decimal.Decimal, error) {
	base := c.BaseURL
	if base == "" {
		base = DefaultStockBaseURL
	}

	query := url.Values{}
	query.Set("range", "1d")
	query.Set("interval", "1d")
	uri := strings.TrimRight(base, "/") + "/v8/finance/chart/" + url.PathEscape(symbol) + "?" + query.Encode()

	header := http.Header{}
	header.Set("User-Agent", userAgent)

	var body chartResponse
	if err := getJSON(ctx, c.HTTP, c.Timeout, uri, header, &body); err != nil {
		return decimal.Zero, fmt.Errorf("stock price %s: %w", symbol, err)
	}

	if e := body.Chart.Error; e != nil {
		return decimal.Zero, fmt.Errorf("stock price %s: provider error %s: %s", symbol, e.Code, e.Description)
	}
	if len(body.Chart.Result) == 0 || len(body.Chart.Result[0].Indicators.Quote) == 0 {
		return decimal.Zero, fmt.Errorf("stock price %s: %w", symbol, ErrNoData)
	}

	highs := body.Chart.Result[0].Indicators.Quote[0].High
	if len(highs) == 0 || !highs[0].Valid {
		return decimal.Zero, fmt.Errorf("stock price %s: %w: high is empty", symbol, ErrNoData)
	}
	return highs[0].Decimal, nil
}
