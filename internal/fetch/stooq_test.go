package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nesterchung/stock-decision-maker/internal/prices"
)

var stooqBodies = map[string]string{
	"spy.us": "Date,Open,High,Low,Close,Volume\n" +
		"2025-01-02,399,401,398,400,1000\n" +
		"2025-01-03,400,402,399,401,1000\n" +
		"2025-01-06,401,403,400,402,1000\n",
	"tlt.us": "Date,Open,High,Low,Close,Volume\n" +
		"2025-01-02,95,96,94,95.5,1000\n" +
		"2025-01-06,94,95,93,94.8,1000\n",
	"xle.us": "Date,Open,High,Low,Close,Volume\n",
}

func stooqServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/q/d/l/" {
			http.NotFound(w, r)
			return
		}
		body, ok := stooqBodies[r.URL.Query().Get("s")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	}))
}

func window() (time.Time, time.Time) {
	start, _ := time.Parse(prices.DateLayout, "2025-01-01")
	end, _ := time.Parse(prices.DateLayout, "2025-01-07")
	return start, end
}

func TestDailyParsesCloses(t *testing.T) {
	srv := stooqServer(t)
	defer srv.Close()
	client := NewClient(zerolog.Nop(), WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	start, end := window()
	closes, err := client.Daily(context.Background(), "SPY", start, end)
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if len(closes) != 3 {
		t.Fatalf("expected 3 closes, got %d", len(closes))
	}
	if closes["2025-01-03"] != 401 {
		t.Fatalf("unexpected close %v", closes["2025-01-03"])
	}
}

func TestDownloadInnerJoinsDates(t *testing.T) {
	srv := stooqServer(t)
	defer srv.Close()
	client := NewClient(zerolog.Nop(), WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	start, end := window()
	table, err := client.Download(context.Background(), []string{"SPY", "TLT"}, start, end)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	// TLT did not trade on 2025-01-03, so the join keeps two dates.
	if table.Len() != 2 {
		t.Fatalf("expected 2 aligned dates, got %d", table.Len())
	}
	if got := table.Date(0).Format(prices.DateLayout); got != "2025-01-02" {
		t.Fatalf("unexpected first date %s", got)
	}
	if got := table.Value("TLT", 1); got != 94.8 {
		t.Fatalf("unexpected TLT value %v", got)
	}
}

func TestDownloadNamesEmptyTickers(t *testing.T) {
	srv := stooqServer(t)
	defer srv.Close()
	client := NewClient(zerolog.Nop(), WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	start, end := window()
	_, err := client.Download(context.Background(), []string{"SPY", "XLE"}, start, end)
	if err == nil || !strings.Contains(err.Error(), "XLE") {
		t.Fatalf("expected error naming XLE, got %v", err)
	}
}

func TestDailyStatusError(t *testing.T) {
	srv := stooqServer(t)
	defer srv.Close()
	client := NewClient(zerolog.Nop(), WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	start, end := window()
	if _, err := client.Daily(context.Background(), "GLD", start, end); err == nil {
		t.Fatalf("expected error for 404 response")
	}
}

func TestStooqSymbol(t *testing.T) {
	cases := map[string]string{
		"SPY":    "spy.us",
		" tlt ":  "tlt.us",
		"^spx":   "^spx",
		"spy.us": "spy.us",
	}
	for in, want := range cases {
		if got := stooqSymbol(in); got != want {
			t.Fatalf("stooqSymbol(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteCSVRoundTrips(t *testing.T) {
	srv := stooqServer(t)
	defer srv.Close()
	client := NewClient(zerolog.Nop(), WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	start, end := window()
	table, err := client.Download(context.Background(), []string{"SPY", "TLT"}, start, end)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	path := filepath.Join(t.TempDir(), "data", "prices.csv")
	if err := WriteCSV(path, table, []string{"SPY", "TLT"}); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	loaded, err := prices.Load(path, []string{"SPY", "TLT"}, "adj_close")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Len() != table.Len() {
		t.Fatalf("round trip changed row count: %d != %d", loaded.Len(), table.Len())
	}
	if got := loaded.Value("SPY", 0); got != 400 {
		t.Fatalf("unexpected SPY value %v", got)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat output: %v", err)
	}
}
