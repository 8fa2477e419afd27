package nytimes

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/covid-averages/internal/domain"
)

// Client downloads a cumulative case CSV and streams its rows.
// It implements pipeline.Extractor.
type Client struct {
	url         string
	regionField string
	countField  string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient creates a dataset client. regionField and countField name the
// header columns holding the region and its cumulative count.
func NewClient(url, regionField, countField string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		url:         url,
		regionField: regionField,
		countField:  countField,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Extract performs a single GET of the dataset and calls visit once per row,
// in file order. There are no retries.
func (c *Client) Extract(ctx context.Context, visit func(domain.Row)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("dataset request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	rows, err := Decode(resp.Body, c.regionField, c.countField, visit)
	if err != nil {
		return err
	}
	c.logger.Debug("dataset downloaded", "url", c.url, "rows", rows)
	return nil
}

// Decode reads CSV with a header row from r and calls visit for each record.
// It returns the number of rows visited. Errors wrap domain.ErrMalformedDataset.
func Decode(r io.Reader, regionField, countField string, visit func(domain.Row)) (int, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("%w: empty input", domain.ErrMalformedDataset)
		}
		return 0, readError(err)
	}

	regionIdx, countIdx, dateIdx := -1, -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case regionField:
			regionIdx = i
		case countField:
			countIdx = i
		case "date":
			dateIdx = i
		}
	}
	if regionIdx < 0 {
		return 0, fmt.Errorf("%w: missing column %q", domain.ErrMalformedDataset, regionField)
	}
	if countIdx < 0 {
		return 0, fmt.Errorf("%w: missing column %q", domain.ErrMalformedDataset, countField)
	}

	n := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, readError(err)
		}

		line, _ := reader.FieldPos(countIdx)
		count, err := strconv.ParseInt(strings.TrimSpace(record[countIdx]), 10, 64)
		if err != nil {
			return n, fmt.Errorf("%w: line %d: invalid %s %q", domain.ErrMalformedDataset, line, countField, record[countIdx])
		}

		row := domain.Row{Region: record[regionIdx], Cumulative: count}
		if dateIdx >= 0 {
			row.Date = record[dateIdx]
		}
		visit(row)
		n++
	}
}

// readError marks CSV syntax errors as malformed input. Anything else came
// from the underlying reader, such as a dropped connection or a timeout while
// the body streams, and is returned as a read failure.
func readError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Errorf("%w: %w", domain.ErrMalformedDataset, err)
	}
	return fmt.Errorf("read dataset: %w", err)
}
