// =============================================================================
// Finance Reports - Currency Rates
// =============================================================================
//
// REQUEST:
//   GET {base}/exchangerates_data/latest?symbols=RUB&base=USD
//   apikey: <key>
//
// The rate of a code is read from rates[target] of the response.
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
	// DefaultCurrencyBaseURL is the apilayer host used when BaseURL is empty.
	DefaultCurrencyBaseURL = "https://api.apilayer.com"

	// DefaultTargetCurrency is the currency every rate is quoted in.
	DefaultTargetCurrency = "RUB"
)

// CurrencyClient looks up conversion rates on the apilayer exchange rates API.
type CurrencyClient struct {
	BaseURL string
	APIKey  string
	Target  string
	Timeout time.Duration
	HTTP    *http.Client
}

type latestResponse struct {
	Success *bool                      `json:"success"`
	Base    string                     `json:"base"`
	Rates   map[string]decimal.Decimal `json:"rates"`
	Error   *struct {
		Code    string `json:"code"`
		Type    string `json:"type"`
		Message string `json:"message"`
		Info    string `json:"info"`
	} `json:"error"`
}

// Rate returns how many units of the target currency (RUB by default) one
// unit of code buys.
func (c *CurrencyClient) Rate(ctx context.Context, code string) (decimal.Decimal, error) {
	target := c.Target
	if target == "" {
		target = DefaultTargetCurrency
	}
	base := c.BaseURL
	if base == "" {
		base = DefaultCurrencyBaseURL
	}

	query := url.Values{}
	query.Set("symbols", target)
	query.Set("base", code)
	uri := strings.TrimRight(base, "/") + "/exchangerates_data/latest?" + query.Encode()

	header := http.Header{}
	header.Set("apikey", c.APIKey)

	var body latestResponse
	if err := getJSON(ctx, c.HTTP, c.Timeout, uri, header, &body); err != nil {
		return decimal.Zero, fmt.Errorf("currency rate %s: %w", code, err)
	}

	if body.Error != nil {
		msg := body.Error.Message
		if msg == "" {
			msg = body.Error.Info
		}
		return decimal.Zero, fmt.Errorf("currency rate %s: provider error %s: %s", code, body.Error.Code, msg)
	}

	rate, ok := body.Rates[target]
	if !ok {
		return decimal.Zero, fmt.Errorf("currency rate %s: %w: rates.%s missing", code, ErrNoData, target)
	}
	return rate, nil
}
