package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/cartpilot/backend/internal/domain"
)

// MockStorefront is a mock implementation of domain.Storefront
type MockStorefront struct {
	searchResult []domain.RawListing
	searchError  error
	cartResults  []domain.CartResult
	cartError    error
	addedItems   []domain.CartItem
	running      bool
}

func (m *MockStorefront) Search(ctx context.Context, query string) ([]domain.RawListing, error) {
	if m.searchError != nil {
		return nil, m.searchError
	}
	return m.searchResult, nil
}

func (m *MockStorefront) AddToCart(ctx context.Context, items []domain.CartItem) ([]domain.CartResult, error) {
	m.addedItems = items
	if m.cartError != nil {
		return nil, m.cartError
	}
	if m.cartResults != nil {
		return m.cartResults, nil
	}
	results := make([]domain.CartResult, len(items))
	for i, it := range items {
		results[i] = domain.CartResult{ASIN: it.ASIN, Name: it.Name, Success: true}
	}
	return results, nil
}

func (m *MockStorefront) CartScreenshot(ctx context.Context) (string, error) {
	return "/tmp/cart.png", nil
}

func (m *MockStorefront) Running() bool {
	return m.running
}

// MockSessionStore is a mock implementation of domain.SessionStore
type MockSessionStore struct {
	data     map[string][]domain.Listing
	setError error
}

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{data: make(map[string][]domain.Listing)}
}

func (m *MockSessionStore) Get(ctx context.Context, sessionID string) ([]domain.Listing, error) {
	if results, ok := m.data[sessionID]; ok {
		return results, nil
	}
	return nil, domain.ErrSessionMiss
}

func (m *MockSessionStore) Set(ctx context.Context, sessionID string, results []domain.Listing) error {
	if m.setError != nil {
		return m.setError
	}
	m.data[sessionID] = results
	return nil
}

func (m *MockSessionStore) Delete(ctx context.Context, sessionID string) error {
	delete(m.data, sessionID)
	return nil
}

// MockSearchHistory is a mock implementation of domain.SearchHistory
type MockSearchHistory struct {
	records   []*domain.SearchRecord
	saveError error
}

func (m *MockSearchHistory) Save(ctx context.Context, rec *domain.SearchRecord) error {
	if m.saveError != nil {
		return m.saveError
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *MockSearchHistory) Recent(ctx context.Context, sessionID string, limit int) ([]*domain.SearchRecord, error) {
	var out []*domain.SearchRecord
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		if m.records[i].SessionID == sessionID {
			out = append(out, m.records[i])
		}
	}
	return out, nil
}

func (m *MockSearchHistory) Close() error { return nil }

func newTestService(store *MockStorefront, sessions *MockSessionStore, history domain.SearchHistory) *ShoppingService {
	return NewShoppingService(store, sessions, history, NewRankingService(RankConfig{}), ShoppingConfig{})
}

func searchCmd(query string, budget float64) domain.Command {
	return domain.Command{Intent: domain.IntentSearch, Query: query, Budget: budget}
}

func TestShoppingSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("ranks, truncates and stores results", func(t *testing.T) {
		raw := make([]domain.RawListing, 0, 15)
		for i := 0; i < 15; i++ {
			raw = append(raw, domain.RawListing{
				Title: "Portable Monitor " + string(rune('A'+i)),
				ASIN:  "B0" + string(rune('A'+i)),
			})
		}
		store := &MockStorefront{searchResult: raw}
		sessions := NewMockSessionStore()
		history := &MockSearchHistory{}
		svc := newTestService(store, sessions, history)

		results, err := svc.Search(ctx, "chat-1", searchCmd("portable monitor", 9999))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 10 {
			t.Errorf("got %d results, want 10 (truncated)", len(results))
		}
		if len(sessions.data["chat-1"]) != 10 {
			t.Errorf("session store holds %d, want 10", len(sessions.data["chat-1"]))
		}
		if len(history.records) != 1 || history.records[0].Query != "portable monitor" {
			t.Errorf("history records = %+v, want one for the query", history.records)
		}
	})

	t.Run("empty query is invalid", func(t *testing.T) {
		svc := newTestService(&MockStorefront{}, NewMockSessionStore(), nil)
		_, err := svc.Search(ctx, "chat-1", searchCmd("", 9999))
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("storefront failure wraps sentinel", func(t *testing.T) {
		store := &MockStorefront{searchError: errors.New("navigation timeout")}
		svc := newTestService(store, NewMockSessionStore(), nil)
		_, err := svc.Search(ctx, "chat-1", searchCmd("monitor", 9999))
		if !errors.Is(err, domain.ErrStorefrontFailure) {
			t.Errorf("error = %v, want ErrStorefrontFailure", err)
		}
	})

	t.Run("nil history is tolerated", func(t *testing.T) {
		store := &MockStorefront{searchResult: []domain.RawListing{{Title: "Monitor", ASIN: "X1"}}}
		svc := newTestService(store, NewMockSessionStore(), nil)
		if _, err := svc.Search(ctx, "chat-1", searchCmd("monitor", 9999)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestShoppingResults(t *testing.T) {
	ctx := context.Background()

	t.Run("returns stored batch", func(t *testing.T) {
		sessions := NewMockSessionStore()
		sessions.data["chat-1"] = []domain.Listing{{Title: "Monitor", ASIN: "X1"}}
		svc := newTestService(&MockStorefront{}, sessions, nil)

		results, err := svc.Results(ctx, "chat-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 1 {
			t.Errorf("got %d results, want 1", len(results))
		}
	})

	t.Run("no stored batch", func(t *testing.T) {
		svc := newTestService(&MockStorefront{}, NewMockSessionStore(), nil)
		_, err := svc.Results(ctx, "chat-1")
		if !errors.Is(err, domain.ErrNoResults) {
			t.Errorf("error = %v, want ErrNoResults", err)
		}
	})

	t.Run("sessions are isolated", func(t *testing.T) {
		sessions := NewMockSessionStore()
		sessions.data["chat-1"] = []domain.Listing{{Title: "Monitor", ASIN: "X1"}}
		svc := newTestService(&MockStorefront{}, sessions, nil)

		if _, err := svc.Results(ctx, "chat-2"); !errors.Is(err, domain.ErrNoResults) {
			t.Errorf("error = %v, want ErrNoResults for another session", err)
		}
	})
}

func TestShoppingAddToCart(t *testing.T) {
	ctx := context.Background()

	stored := []domain.Listing{
		{Title: "First Monitor", ASIN: "A1"},
		{Title: "Second Monitor", ASIN: "A2"},
		{Title: "Third Monitor", ASIN: "A3"},
		{Title: "Fourth Monitor", ASIN: "A4"},
		{Title: "Fifth Monitor", ASIN: "A5"},
		{Title: "Sixth Monitor", ASIN: "A6"},
	}

	setup := func() (*MockStorefront, *ShoppingService) {
		sessions := NewMockSessionStore()
		sessions.data["chat-1"] = stored
		store := &MockStorefront{}
		return store, newTestService(store, sessions, nil)
	}

	t.Run("all caps at the add-all limit", func(t *testing.T) {
		store, svc := setup()
		results, err := svc.AddToCart(ctx, "chat-1", domain.Selection{All: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 5 {
			t.Errorf("got %d cart results, want 5", len(results))
		}
		if store.addedItems[0].ASIN != "A1" {
			t.Errorf("first added = %s, want A1", store.addedItems[0].ASIN)
		}
	})

	t.Run("indices are 1-based and ordered", func(t *testing.T) {
		store, svc := setup()
		_, err := svc.AddToCart(ctx, "chat-1", domain.Selection{Indices: []int{1, 3, 5}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"A1", "A3", "A5"}
		for i, w := range want {
			if store.addedItems[i].ASIN != w {
				t.Errorf("addedItems[%d] = %s, want %s", i, store.addedItems[i].ASIN, w)
			}
		}
	})

	t.Run("out-of-range indices skipped", func(t *testing.T) {
		store, svc := setup()
		_, err := svc.AddToCart(ctx, "chat-1", domain.Selection{Indices: []int{2, 99, 0}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(store.addedItems) != 1 || store.addedItems[0].ASIN != "A2" {
			t.Errorf("addedItems = %+v, want only A2", store.addedItems)
		}
	})

	t.Run("only invalid indices", func(t *testing.T) {
		_, svc := setup()
		_, err := svc.AddToCart(ctx, "chat-1", domain.Selection{Indices: []int{99}})
		if !errors.Is(err, domain.ErrEmptySelection) {
			t.Errorf("error = %v, want ErrEmptySelection", err)
		}
	})

	t.Run("no previous search", func(t *testing.T) {
		svc := newTestService(&MockStorefront{}, NewMockSessionStore(), nil)
		_, err := svc.AddToCart(ctx, "chat-1", domain.Selection{All: true})
		if !errors.Is(err, domain.ErrNoResults) {
			t.Errorf("error = %v, want ErrNoResults", err)
		}
	})
}

func TestShoppingHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the session's records newest first", func(t *testing.T) {
		history := &MockSearchHistory{records: []*domain.SearchRecord{
			{SessionID: "chat-1", Query: "portable monitor"},
			{SessionID: "chat-2", Query: "usb hub"},
			{SessionID: "chat-1", Query: "4k monitor"},
		}}
		svc := newTestService(&MockStorefront{}, NewMockSessionStore(), history)

		records, err := svc.History(ctx, "chat-1", 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("got %d records, want 2", len(records))
		}
		if records[0].Query != "4k monitor" {
			t.Errorf("records[0].Query = %q, want the newest record first", records[0].Query)
		}
	})

	t.Run("disabled persistence", func(t *testing.T) {
		svc := newTestService(&MockStorefront{}, NewMockSessionStore(), nil)
		_, err := svc.History(ctx, "chat-1", 10)
		if !errors.Is(err, domain.ErrNoResults) {
			t.Errorf("error = %v, want ErrNoResults", err)
		}
	})
}

func TestShoppingStatus(t *testing.T) {
	ctx := context.Background()

	sessions := NewMockSessionStore()
	sessions.data["chat-1"] = []domain.Listing{{Title: "Monitor"}, {Title: "Display"}}
	store := &MockStorefront{running: true}
	svc := newTestService(store, sessions, nil)

	status := svc.Status(ctx, "chat-1")
	if !status.BrowserRunning {
		t.Error("BrowserRunning = false, want true")
	}
	if status.LastResultCount != 2 {
		t.Errorf("LastResultCount = %d, want 2", status.LastResultCount)
	}

	empty := svc.Status(ctx, "chat-2")
	if empty.LastResultCount != 0 {
		t.Errorf("LastResultCount = %d, want 0 for fresh session", empty.LastResultCount)
	}
}
