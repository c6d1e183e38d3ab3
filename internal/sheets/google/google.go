// Package google reads a bank statement that was uploaded to a Google
// Spreadsheet, returning the same raw rows as the XLSX and CSV parsers.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Config selects the spreadsheet, range and credentials.
type Config struct {
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	Range           string `yaml:"range"`
	CredentialsFile string `yaml:"credentials_file"`
	APIKey          string `yaml:"api_key"`
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	readRange     string
}

// New creates a read-only Sheets client. Credentials are taken, in order,
// from cfg.CredentialsFile, cfg.APIKey or GOOGLE_APPLICATION_CREDENTIALS.
// Extra options are appended last, which lets tests point the client at a
// local server.
func New(ctx context.Context, cfg Config, opts ...goption.ClientOption) (*Client, error) {
	spreadsheetID := strings.TrimSpace(cfg.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	readRange := strings.TrimSpace(cfg.Range)
	if readRange == "" {
		readRange = "A:Z"
	}

	var options []goption.ClientOption
	switch {
	case cfg.CredentialsFile != "":
		credentialsJSON, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		options = append(options, goption.WithCredentialsJSON(credentialsJSON))
	case cfg.APIKey != "":
		options = append(options, goption.WithAPIKey(cfg.APIKey))
	}
	options = append(options, goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	options = append(options, opts...)

	svc, err := gsheet.NewService(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: spreadsheetID, readRange: readRange}, nil
}

// Rows returns every row of the configured range. Numbers are read
// unformatted; dates keep their displayed text.
func (c *Client) Rows(ctx context.Context) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.readRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("get values %s: %w", c.readRange, err)
	}
	return toStrings(resp.Values), nil
}

func toStrings(values [][]interface{}) [][]string {
	rows := make([][]string, 0, len(values))
	for _, v := range values {
		row := make([]string, len(v))
		for i, cell := range v {
			if cell == nil {
				continue
			}
			if f, ok := cell.(float64); ok {
				row[i] = strconv.FormatFloat(f, 'f', -1, 64)
				continue
			}
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows
}
