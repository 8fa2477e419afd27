package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/covid-averages/internal/config"
	"github.com/couchcryptid/covid-averages/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// datasetCSV renders 15 days for two states: Texas grows by a constant 10 a
// day, Ohio's daily increase climbs 10, 20, ..., 140.
func datasetCSV() string {
	var b strings.Builder
	b.WriteString("date,state,fips,cases,deaths\n")
	start := time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC)
	var ohio int64
	for day := 0; day < 15; day++ {
		date := start.AddDate(0, 0, day).Format("2006-01-02")
		fmt.Fprintf(&b, "%s,Texas,48,%d,0\n", date, 100+10*day)
		ohio += int64(10 * day)
		fmt.Fprintf(&b, "%s,Ohio,39,%d,0\n", date, ohio)
	}
	return b.String()
}

func testConfig(url string) *config.Config {
	return &config.Config{
		SourceURL:       url,
		SourceTimeout:   5 * time.Second,
		RegionField:     "state",
		CountField:      "cases",
		ShutdownTimeout: time.Second,
	}
}

func runWith(t *testing.T, cfg *config.Config, input string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := run(context.Background(), cfg, logger, observability.NewMetricsForTesting(), strings.NewReader(input), &out)
	return out.String(), err
}

func TestRun_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, datasetCSV())
	}))
	defer srv.Close()

	out, err := runWith(t, testConfig(srv.URL), "Texas\nNew York\nOhio\n\n")
	require.NoError(t, err)

	assert.Contains(t, out, "Invalid state: New York. Please enter a valid state name\n")
	assert.True(t, strings.HasSuffix(out,
		"\nSeven-Day Averages\n"+
			"Texas had a 7-day average of 10, same as last week.\n"+
			"Ohio had a 7-day average of 110 and an increase of 175%.\n"), out)
}

func TestRun_FetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	out, err := runWith(t, testConfig(srv.URL), "Texas\n\n")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(out, "Error fetching data: unexpected status 404"), out)
	assert.NotContains(t, out, "State: ")
}

func TestRun_WithOpsServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, datasetCSV())
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.HTTPAddr = "127.0.0.1:0"

	out, err := runWith(t, cfg, "\n")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "No state selected\n"))
}
