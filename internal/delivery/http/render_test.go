package http

import (
	"strings"
	"testing"

	"github.com/cartpilot/backend/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }

func TestFormatResults(t *testing.T) {
	t.Run("empty batch suggests retry", func(t *testing.T) {
		got := formatResults(nil)
		if !strings.Contains(got, "No results found") {
			t.Errorf("formatResults(nil) = %q, want retry suggestion", got)
		}
	})

	t.Run("renders known fields", func(t *testing.T) {
		results := []domain.Listing{
			{
				Title:   "Portable Monitor 15.6 Inch",
				Price:   floatPtr(199.99),
				Rating:  floatPtr(4.5),
				Reviews: 1234,
				URL:     "https://www.amazon.ca/dp/B0AAA",
			},
		}

		got := formatResults(results)

		wants := []string{
			"#1 Portable Monitor 15.6 Inch",
			"$199.99 CAD",
			"4.5/5",
			"(1,234 reviews)",
			"https://www.amazon.ca/dp/B0AAA",
			"add all",
		}
		for _, want := range wants {
			if !strings.Contains(got, want) {
				t.Errorf("formatResults() missing %q in:\n%s", want, got)
			}
		}
	})

	t.Run("unknown price and rating render as N/A", func(t *testing.T) {
		results := []domain.Listing{
			{Title: "Mystery Monitor", Reviews: 0},
		}

		got := formatResults(results)

		if !strings.Contains(got, "N/A CAD | N/A (0 reviews)") {
			t.Errorf("formatResults() = %q, want N/A markers for unknown fields", got)
		}
		if strings.Contains(got, "$0.00") {
			t.Errorf("formatResults() rendered an unknown price as $0.00:\n%s", got)
		}
	})

	t.Run("long titles are truncated", func(t *testing.T) {
		results := []domain.Listing{
			{Title: strings.Repeat("A", 100)},
		}

		got := formatResults(results)
		if strings.Contains(got, strings.Repeat("A", 61)) {
			t.Errorf("formatResults() did not truncate a 100-char title")
		}
	})
}

func TestFormatCartResults(t *testing.T) {
	results := []domain.CartResult{
		{ASIN: "B0AAA", Name: "Portable Monitor", Success: true},
		{ASIN: "B0BBB", Name: "Travel Display", Success: false},
	}

	got := formatCartResults(results)

	if !strings.Contains(got, "[OK] Portable Monitor") {
		t.Errorf("formatCartResults() missing success line:\n%s", got)
	}
	if !strings.Contains(got, "[FAILED] Travel Display") {
		t.Errorf("formatCartResults() missing failure line:\n%s", got)
	}
	if !strings.Contains(got, "1/2 items added to cart") {
		t.Errorf("formatCartResults() missing summary:\n%s", got)
	}
}

func TestFormatStatus(t *testing.T) {
	t.Run("running browser", func(t *testing.T) {
		got := formatStatus(domain.BotStatus{BrowserRunning: true, LastResultCount: 7})
		if !strings.Contains(got, "running") || !strings.Contains(got, "7 items") {
			t.Errorf("formatStatus() = %q", got)
		}
	})

	t.Run("browser not started", func(t *testing.T) {
		got := formatStatus(domain.BotStatus{})
		if !strings.Contains(got, "not started") {
			t.Errorf("formatStatus() = %q, want launch hint", got)
		}
	})
}

func TestFormatThousands(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{12345, "12,345"},
		{1234567, "1,234,567"},
	}

	for _, tt := range tests {
		if got := formatThousands(tt.in); got != tt.want {
			t.Errorf("formatThousands(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
