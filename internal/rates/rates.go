// =============================================================================
// Finance Reports - External Rate Lookup
// =============================================================================
//
// Clients for the two market-data services used by the views report:
//
//   CurrencyClient  apilayer exchangerates_data, <code> -> RUB
//   StockClient     Yahoo Finance chart API, daily high
//
// Requests carry a per-request timeout and are never retried. Transport
// errors, non-2xx statuses and malformed bodies are returned to the caller.
//
// =============================================================================

package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 40 * time.Second

// maxErrorBody limits how much of an error response is quoted.
const maxErrorBody = 512

// ErrNoData is returned when a well-formed response carries no value.
var ErrNoData = errors.New("no data in response")

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("got status code: %d from %s (%s)", e.StatusCode, e.URL, e.Body)
}

// getJSON performs a GET request and decodes the JSON body into v.
//
// PARAMETERS:
//   - ctx: request context; timeout is applied on top of it
//   - client: HTTP client, http.DefaultClient when nil
//   - timeout: per-request limit, DefaultTimeout when zero
//   - uri: full request URL
//   - header: extra request headers
//   - v: destination of the decoded body
//
// RETURNS:
//   - error: transport, status or decoding failure
func getJSON(ctx context.Context, client *http.Client, timeout time.Duration, uri string, header http.Header, v interface{}) error {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, values := range header {
		for _, value := range values {
			req.Header.Add(k, value)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{URL: uri, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("malformed response from %s: %w", uri, err)
	}
	return nil
}
