package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/cartpilot/backend/internal/domain"
)

// ShoppingConfig holds configuration for the shopping service.
type ShoppingConfig struct {
	// MaxResults caps the ranked shortlist returned per search.
	MaxResults int
	// AddAllLimit caps how many items "add all" pushes to the cart.
	AddAllLimit int
}

// ShoppingService orchestrates one chat turn's work: it drives the
// storefront collaborator, feeds the ranking pipeline, and keeps each
// session's last results as explicit state in the session store.
type ShoppingService struct {
	storefront  domain.Storefront
	sessions    domain.SessionStore
	history     domain.SearchHistory
	ranker      *RankingService
	maxResults  int
	addAllLimit int
}

// NewShoppingService creates a shopping service with its dependencies.
// history may be nil when persistence is disabled.
func NewShoppingService(
	storefront domain.Storefront,
	sessions domain.SessionStore,
	history domain.SearchHistory,
	ranker *RankingService,
	config ShoppingConfig,
) *ShoppingService {
	maxResults := config.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}

	addAllLimit := config.AddAllLimit
	if addAllLimit <= 0 {
		addAllLimit = 5
	}

	return &ShoppingService{
		storefront:  storefront,
		sessions:    sessions,
		history:     history,
		ranker:      ranker,
		maxResults:  maxResults,
		addAllLimit: addAllLimit,
	}
}

// Search runs a storefront search for a parsed search command.
// Flow: scrape raw fragments -> rank -> truncate -> store per-session ->
// best-effort history write -> return.
func (s *ShoppingService) Search(ctx context.Context, sessionID string, cmd domain.Command) ([]domain.Listing, error) {
	if cmd.Query == "" {
		return nil, domain.ErrInvalidRequest
	}

	raw, err := s.storefront.Search(ctx, cmd.Query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorefrontFailure, err)
	}
	log.Printf("[SHOP] Search %q: %d raw fragments", cmd.Query, len(raw))

	// The category flag is computed here, from the user's query; the
	// pipeline itself never re-derives it.
	categoryOnly := s.ranker.CategorySearch(cmd.Query)
	ranked := s.ranker.Rank(raw, cmd.Budget, categoryOnly)
	if len(ranked) > s.maxResults {
		ranked = ranked[:s.maxResults]
	}
	log.Printf("[SHOP] Search %q: %d ranked (category filter: %v, budget: %.2f)",
		cmd.Query, len(ranked), categoryOnly, cmd.Budget)

	if err := s.sessions.Set(ctx, sessionID, ranked); err != nil {
		log.Printf("[SHOP] Failed to store session results: %v", err)
	}

	if s.history != nil {
		rec := &domain.SearchRecord{
			SessionID:   sessionID,
			Query:       cmd.Query,
			Budget:      cmd.Budget,
			ResultCount: len(ranked),
		}
		if len(ranked) > 0 {
			rec.TopResult = ranked[0].Title
		}
		if err := s.history.Save(ctx, rec); err != nil {
			log.Printf("[SHOP] Failed to persist search record: %v", err)
		}
	}

	return ranked, nil
}

// Results returns the session's most recent ranked batch.
func (s *ShoppingService) Results(ctx context.Context, sessionID string) ([]domain.Listing, error) {
	results, err := s.sessions.Get(ctx, sessionID)
	if err != nil || len(results) == 0 {
		return nil, domain.ErrNoResults
	}
	return results, nil
}

// AddToCart resolves a selection against the session's last results and
// drives the storefront cart automation. "all" takes the top results up to
// the add-all limit; explicit indices are 1-based and out-of-range picks are
// skipped.
func (s *ShoppingService) AddToCart(ctx context.Context, sessionID string, sel domain.Selection) ([]domain.CartResult, error) {
	results, err := s.Results(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var picks []domain.Listing
	if sel.All {
		limit := s.addAllLimit
		if limit > len(results) {
			limit = len(results)
		}
		picks = results[:limit]
	} else {
		for _, idx := range sel.Indices {
			if idx >= 1 && idx <= len(results) {
				picks = append(picks, results[idx-1])
			}
		}
	}

	if len(picks) == 0 {
		return nil, domain.ErrEmptySelection
	}

	items := make([]domain.CartItem, len(picks))
	for i, p := range picks {
		items[i] = domain.CartItem{ASIN: p.ASIN, Name: truncateRunes(p.Title, 50)}
	}

	added, err := s.storefront.AddToCart(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorefrontFailure, err)
	}
	return added, nil
}

// CartScreenshot captures the storefront cart page.
func (s *ShoppingService) CartScreenshot(ctx context.Context) (string, error) {
	path, err := s.storefront.CartScreenshot(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrStorefrontFailure, err)
	}
	return path, nil
}

// History returns a session's recent search records, newest first.
// Returns ErrNoResults when persistence is disabled.
func (s *ShoppingService) History(ctx context.Context, sessionID string, limit int) ([]*domain.SearchRecord, error) {
	if s.history == nil {
		return nil, domain.ErrNoResults
	}
	records, err := s.history.Recent(ctx, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch search history: %w", err)
	}
	return records, nil
}

// Status reports browser state and the session's last-result count.
func (s *ShoppingService) Status(ctx context.Context, sessionID string) domain.BotStatus {
	count := 0
	if results, err := s.sessions.Get(ctx, sessionID); err == nil {
		count = len(results)
	}
	return domain.BotStatus{
		BrowserRunning:  s.storefront.Running(),
		LastResultCount: count,
	}
}

// truncateRunes cuts a string to at most n runes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
