package domain

import "context"

// SessionStore keeps each chat session's most recent ranked results.
// Lifetime is caller-controlled: entries live until replaced unless the
// implementation was configured with a TTL.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) ([]Listing, error)
	Set(ctx context.Context, sessionID string, results []Listing) error
	Delete(ctx context.Context, sessionID string) error
}

// Storefront defines the browser-automation collaborator that executes
// searches and cart mutations against the live storefront.
type Storefront interface {
	// Search runs a storefront search and returns the raw, unparsed
	// result fragments from the page. Missing fields come back empty,
	// never as an error.
	Search(ctx context.Context, query string) ([]RawListing, error)

	// AddToCart adds each item in order and reports per-item outcomes.
	AddToCart(ctx context.Context, items []CartItem) ([]CartResult, error)

	// CartScreenshot captures the cart page and returns the image path.
	CartScreenshot(ctx context.Context) (string, error)

	// Running reports whether a browser session has been started.
	Running() bool
}

// SearchHistory persists search records for later analysis.
// (Optional: the service tolerates a nil implementation.)
type SearchHistory interface {
	Save(ctx context.Context, rec *SearchRecord) error

	// Recent returns a session's latest records, newest first.
	Recent(ctx context.Context, sessionID string, limit int) ([]*SearchRecord, error)

	Close() error
}
