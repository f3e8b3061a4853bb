package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"regexp"
	"time"
)

var spreadsheetURLPattern = regexp.MustCompile(`https://docs\.google\.com/spreadsheets/d/(.*)/edit`)

// RowSource loads the raw card rows behind a spreadsheet URL. Tests
// substitute a fake; production uses SheetFetcher.
type RowSource interface {
	FetchRows(ctx context.Context, spreadsheetURL string) ([][]string, error)
}

// SheetFetcher downloads a Google spreadsheet through its CSV export
// endpoint. The sheet must be link-readable.
type SheetFetcher struct {
	http *http.Client
}

// NewSheetFetcher builds a fetcher with a sane request timeout.
func NewSheetFetcher() *SheetFetcher {
	return &SheetFetcher{http: &http.Client{Timeout: 30 * time.Second}}
}

// FetchRows returns the data rows of the first sheet, header excluded.
func (f *SheetFetcher) FetchRows(ctx context.Context, spreadsheetURL string) ([][]string, error) {
	match := spreadsheetURLPattern.FindStringSubmatch(spreadsheetURL)
	if match == nil {
		return nil, fmt.Errorf("invalid spreadsheet url")
	}
	exportURL := fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv", match[1])

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL, nil)
	if err != nil {
		return nil, err
	}
	res, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch spreadsheet: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch spreadsheet: status %d", res.StatusCode)
	}

	reader := csv.NewReader(res.Body)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse spreadsheet csv: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}
