package domain

// RawListing is an unprocessed product fragment scraped from a storefront
// results page. Every field except ASIN arrives as noisy free text and any
// of them may be empty or garbled; the parsers downstream never fail on it.
type RawListing struct {
	Title      string `json:"title"`
	PriceText  string `json:"price"`
	RatingText string `json:"rating"`
	ReviewText string `json:"reviews"`
	ASIN       string `json:"asin"`
	Href       string `json:"href"`
}

// Listing is a normalized, scored product record produced by the ranking
// pipeline. Nullable fields use pointers so "unknown" stays distinguishable
// from a legitimate zero (a product with 0 reviews is not a product with an
// unknown review count).
type Listing struct {
	Title      string   `json:"title"`
	Price      *float64 `json:"price,omitempty"`
	Rating     *float64 `json:"rating,omitempty"`
	Reviews    int      `json:"reviews"`
	ScreenSize *float64 `json:"screenSize,omitempty"`
	URL        string   `json:"url"`
	ASIN       string   `json:"asin,omitempty"`

	// Score is only comparable within the batch that produced it: the
	// popularity component is scaled against the batch's own maximum
	// review count.
	Score float64 `json:"score"`
}

// CartItem identifies a product to add to the cart.
type CartItem struct {
	ASIN string `json:"asin"`
	Name string `json:"name"`
}

// CartResult reports the outcome of one add-to-cart attempt.
type CartResult struct {
	ASIN    string `json:"asin"`
	Name    string `json:"name"`
	Success bool   `json:"success"`
}

// BotStatus summarizes the service state for the "status" command.
type BotStatus struct {
	BrowserRunning  bool `json:"browserRunning"`
	LastResultCount int  `json:"lastResultCount"`
}

// SearchRecord is one persisted search-history entry.
type SearchRecord struct {
	SessionID   string  `json:"sessionId"`
	Query       string  `json:"query"`
	Budget      float64 `json:"budget"`
	ResultCount int     `json:"resultCount"`
	TopResult   string  `json:"topResult"`
}
