package usecase

import (
	"regexp"
	"strconv"
	"strings"
)

// Compiled regex patterns for field parsing
var (
	nonPricePattern    = regexp.MustCompile(`[^\d.]`)
	ratingOutOfPattern = regexp.MustCompile(`([\d.]+)\s*(?:out of|/)\s*5`)
	firstNumberPattern = regexp.MustCompile(`[\d.]+`)
	reviewKPattern     = regexp.MustCompile(`([\d.]+)\s*[Kk]`)
	firstIntPattern    = regexp.MustCompile(`\d+`)

	// Textual forms a screen size shows up in: "27-inch", `27"`, "27in".
	// Tried in order; the first in-range match wins.
	screenSizePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+\.?\d*)\s*[-"]?\s*[Ii]nch`),
		regexp.MustCompile(`(\d+\.?\d*)\s*"`),
		regexp.MustCompile(`(\d+\.?\d*)["″]`),
		regexp.MustCompile(`(\d+\.?\d*)\s*[Ii]n\b`),
	}
)

// Plausible physical range for a screen size in inches. Values outside it
// are model numbers or counts mis-captured as sizes.
const (
	minScreenSize = 10.0
	maxScreenSize = 30.0
)

// ParsePrice extracts a currency-agnostic decimal price from raw text.
// Returns nil, not zero, when the text holds no valid number.
func ParsePrice(s string) *float64 {
	if s == "" {
		return nil
	}
	cleaned := nonPricePattern.ReplaceAllString(s, "")
	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &val
}

// ParseRating extracts a 0.0–5.0 rating from raw text. An explicit
// "<n> out of 5" or "<n>/5" form is preferred; a bare number is accepted
// only when ≤ 5.0, since larger values are mis-captured counts.
func ParseRating(s string) *float64 {
	if s == "" {
		return nil
	}
	if m := ratingOutOfPattern.FindStringSubmatch(s); m != nil {
		if val, err := strconv.ParseFloat(m[1], 64); err == nil {
			return &val
		}
	}
	if m := firstNumberPattern.FindString(s); m != "" {
		val, err := strconv.ParseFloat(m, 64)
		if err == nil && val <= 5.0 {
			return &val
		}
	}
	return nil
}

// ParseReviewCount extracts a review count from raw text. "2.3K" style
// suffixes multiply by 1000, truncated. No match degrades to 0: zero
// reviews is a valid, common value, not an unknown.
func ParseReviewCount(s string) int {
	if s == "" {
		return 0
	}
	cleaned := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if m := reviewKPattern.FindStringSubmatch(cleaned); m != nil {
		if val, err := strconv.ParseFloat(m[1], 64); err == nil {
			return int(val * 1000)
		}
	}
	if m := firstIntPattern.FindString(cleaned); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return n
		}
	}
	return 0
}

// ParseScreenSize searches a title for a screen size in inches. Only values
// in the plausible 10–30 inch range are accepted; each pattern's first match
// is checked and the first accepted value wins.
func ParseScreenSize(title string) *float64 {
	for _, pat := range screenSizePatterns {
		m := pat.FindStringSubmatch(title)
		if m == nil {
			continue
		}
		val, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if val >= minScreenSize && val <= maxScreenSize {
			return &val
		}
	}
	return nil
}
