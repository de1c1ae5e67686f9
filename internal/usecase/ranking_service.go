package usecase

import (
	"math"
	"sort"
	"strings"

	"github.com/cartpilot/backend/internal/domain"
)

// Score component weights. Popularity and quality dominate; price and size
// are small nudges. Components are individually capped so the total stays
// within 0–100.
const (
	popularityWeight = 45.0 // scaled against the batch's own max review count
	qualityWeight    = 35.0 // rating, down-weighted at low review counts
	priceWeight      = 10.0 // slight bonus for cheaper items
	sizeMatchBonus   = 10.0 // flat bonus when a screen size was detected
	confidenceFloor  = 50.0 // reviews needed for full rating confidence
	priceCeiling     = 1000.0
)

// defaultCategoryKeywords flag a query (and a title) as targeting the
// primary product category rather than an accessory.
var defaultCategoryKeywords = []string{"monitor", "display", "screen"}

// defaultExcludeKeywords mark accessory listings. These are tuned to the
// storefront's typical phrasing and overridable through RankConfig.
var defaultExcludeKeywords = []string{
	"stand", "holder", "mount", "bracket", "case", "sleeve", "bag",
	"cable", "adapter", "hub", "dock", "charger", "stylus", "pen",
	"keyboard", "mouse", "arm", "riser", "protector", "film", "cleaning",
	"cover", "skin",
}

// RankConfig holds configuration for the ranking service. Zero-value fields
// fall back to defaults.
type RankConfig struct {
	CategoryKeywords []string
	ExcludeKeywords  []string
	BaseURL          string
}

// RankingService converts raw scraped listing fragments into a clean,
// budget-filtered, deduplicated, relevance-ranked list.
type RankingService struct {
	categoryKeywords []string
	excludeKeywords  []string
	baseURL          string
}

// NewRankingService creates a ranking service with the given configuration.
func NewRankingService(config RankConfig) *RankingService {
	categories := config.CategoryKeywords
	if len(categories) == 0 {
		categories = defaultCategoryKeywords
	}

	excludes := config.ExcludeKeywords
	if len(excludes) == 0 {
		excludes = defaultExcludeKeywords
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://www.amazon.ca"
	}

	return &RankingService{
		categoryKeywords: categories,
		excludeKeywords:  excludes,
		baseURL:          strings.TrimRight(baseURL, "/"),
	}
}

// Rank runs the full pipeline over one batch of raw fragments:
// normalize titles -> parse fields -> category filter -> budget filter ->
// deduplicate -> score and sort. The input is never mutated; scores are only
// comparable within the returned batch.
func (s *RankingService) Rank(raw []domain.RawListing, budget float64, categoryOnly bool) []domain.Listing {
	parsed := s.filterAndParse(raw, budget, categoryOnly)
	deduped := deduplicate(parsed)
	return rankByScore(deduped)
}

// CategorySearch reports whether a user query targets the configured product
// category, which enables the accessory filter for that search.
func (s *RankingService) CategorySearch(query string) bool {
	lower := strings.ToLower(query)
	for _, kw := range s.categoryKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// filterAndParse normalizes and parses each fragment, dropping listings that
// fail the category filter or exceed the budget. Listings with an unknown
// price always survive the budget filter: absence of data is not treated as
// exceeding budget.
func (s *RankingService) filterAndParse(raw []domain.RawListing, budget float64, categoryOnly bool) []domain.Listing {
	parsed := make([]domain.Listing, 0, len(raw))

	for _, r := range raw {
		title := NormalizeTitle(r.Title)

		if categoryOnly && !s.isPrimaryCategory(title) {
			continue
		}

		price := ParsePrice(r.PriceText)
		if price != nil && *price > budget {
			continue
		}

		parsed = append(parsed, domain.Listing{
			Title:      title,
			Price:      price,
			Rating:     ParseRating(r.RatingText),
			Reviews:    ParseReviewCount(r.ReviewText),
			ScreenSize: ParseScreenSize(r.Title),
			URL:        s.canonicalURL(r),
			ASIN:       r.ASIN,
		})
	}

	return parsed
}

// isPrimaryCategory rejects accessory listings. A title passes only when it
// contains a category keyword and no exclusion keyword appears in a position
// that signals the listing IS the accessory: as the first word, inside
// "<kw> for ", or immediately followed by a comma. An exclusion keyword
// anywhere in a title lacking a category keyword also rejects.
func (s *RankingService) isPrimaryCategory(title string) bool {
	lower := strings.ToLower(title)

	hasCategory := false
	for _, kw := range s.categoryKeywords {
		if strings.Contains(lower, kw) {
			hasCategory = true
			break
		}
	}

	for _, kw := range s.excludeKeywords {
		if strings.HasPrefix(lower, kw) ||
			strings.Contains(lower, " "+kw+" for ") ||
			strings.Contains(lower, " "+kw+",") {
			return false
		}
		if strings.Contains(lower, kw) && !hasCategory {
			return false
		}
	}

	return hasCategory
}

// canonicalURL builds a stable product URL, preferring the item identifier
// over the scraped link.
func (s *RankingService) canonicalURL(r domain.RawListing) string {
	if r.ASIN != "" {
		return s.baseURL + "/dp/" + r.ASIN
	}
	if strings.HasPrefix(r.Href, "/") {
		return s.baseURL + r.Href
	}
	return r.Href
}

// deduplicate drops listings already seen under either dedup key: the stable
// identifier, then the case- and whitespace-folded title. Input order is
// preserved among survivors.
func deduplicate(listings []domain.Listing) []domain.Listing {
	seenASINs := make(map[string]struct{})
	seenTitles := make(map[string]struct{})
	unique := make([]domain.Listing, 0, len(listings))

	for _, l := range listings {
		if l.ASIN != "" {
			if _, dup := seenASINs[l.ASIN]; dup {
				continue
			}
		}

		titleKey := titleDedupKey(l.Title)
		if _, dup := seenTitles[titleKey]; dup {
			continue
		}

		if l.ASIN != "" {
			seenASINs[l.ASIN] = struct{}{}
		}
		seenTitles[titleKey] = struct{}{}
		unique = append(unique, l)
	}

	return unique
}

// titleDedupKey folds case and whitespace so trivially re-listed items
// compare equal.
func titleDedupKey(title string) string {
	key := whitespacePattern.ReplaceAllString(strings.TrimSpace(title), " ")
	return strings.ToLower(key)
}

// rankByScore computes each listing's score and sorts descending. The sort
// is stable: ties retain the deduplicator's input order.
func rankByScore(listings []domain.Listing) []domain.Listing {
	// Batch-relative scaling base: the max review count in this result
	// set, never a global constant.
	maxReviews := 1
	for _, l := range listings {
		if l.Reviews > maxReviews {
			maxReviews = l.Reviews
		}
	}

	ranked := make([]domain.Listing, len(listings))
	for i, l := range listings {
		l.Score = scoreListing(l, maxReviews)
		ranked[i] = l
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// scoreListing sums the four capped score components, rounded to one
// decimal place.
func scoreListing(l domain.Listing, maxReviews int) float64 {
	var score float64

	if l.Reviews > 0 {
		score += float64(l.Reviews) / float64(maxReviews) * popularityWeight
	}

	if l.Rating != nil {
		// A rating backed by few reviews is statistically unreliable:
		// scale it linearly up to the confidence floor.
		confidence := math.Min(float64(l.Reviews)/confidenceFloor, 1.0)
		score += *l.Rating / 5.0 * qualityWeight * confidence
	}

	if l.Price != nil && *l.Price > 0 {
		score += math.Max(0, 1-*l.Price/priceCeiling) * priceWeight
	}

	if l.ScreenSize != nil {
		score += sizeMatchBonus
	}

	return math.Round(score*10) / 10
}
