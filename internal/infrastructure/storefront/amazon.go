package storefront

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"

	"github.com/cartpilot/backend/internal/domain"
)

// Config holds browser configuration for the Amazon storefront driver
type Config struct {
	BaseURL       string
	Headless      bool
	ScreenshotDir string
	// NavPerMinute caps page navigations to stay under bot-detection radar
	NavPerMinute float64
}

// AmazonStorefront drives a headless Chrome session against Amazon.ca.
// All operations share one browser tab, serialized through the rate
// limiter: Amazon throttles aggressively on parallel navigation.
type AmazonStorefront struct {
	baseURL       string
	screenshotDir string
	rateLimiter   *rate.Limiter

	// mu serializes all navigation: there is exactly one tab
	mu sync.Mutex

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	running       bool
}

// New launches the browser and returns a ready storefront driver
func New(config Config) (*AmazonStorefront, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://www.amazon.ca"
	}

	navPerMinute := config.NavPerMinute
	if navPerMinute <= 0 {
		navPerMinute = 12
	}

	screenshotDir := config.ScreenshotDir
	if screenshotDir == "" {
		screenshotDir = os.TempDir()
	}
	if err := os.MkdirAll(screenshotDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create screenshot dir: %w", err)
	}

	chromeBin := findChromeBinary()
	log.Printf("[STOREFRONT] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", config.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	// Suppress chromedp log noise
	browserCtx, browserCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	// Materialize the browser process up front so startup failures surface
	// at construction, not on the first chat turn
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	return &AmazonStorefront{
		baseURL:       strings.TrimRight(baseURL, "/"),
		screenshotDir: screenshotDir,
		rateLimiter:   rate.NewLimiter(rate.Limit(navPerMinute/60.0), 2),
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		running:       true,
	}, nil
}

// Running reports whether the browser session is alive
func (s *AmazonStorefront) Running() bool {
	return s.running && s.browserCtx.Err() == nil
}

// Close tears down the browser session
func (s *AmazonStorefront) Close() error {
	s.running = false
	s.browserCancel()
	s.allocCancel()
	return nil
}

// rawCard mirrors the JSON shape produced by the extraction script
type rawCard struct {
	Title   string `json:"title"`
	Price   string `json:"price"`
	Rating  string `json:"rating"`
	Reviews string `json:"reviews"`
	ASIN    string `json:"asin"`
	Href    string `json:"href"`
}

// Search performs a storefront search and returns raw listing fragments.
// It scrolls for more cards when the first extraction is thin, and walks
// to page 2 when still under ten results.
func (s *AmazonStorefront) Search(ctx context.Context, query string) ([]domain.RawListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	runCtx, cancel := context.WithTimeout(s.browserCtx, 120*time.Second)
	defer cancel()

	var cards []rawCard
	err := chromedp.Run(runCtx,
		chromedp.Navigate(s.baseURL),
		chromedp.Sleep(4*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open storefront: %w", err)
	}

	if s.hitCaptcha(runCtx) {
		// Back off once and re-check; a persistent wall means this
		// session is burned
		log.Printf("[STOREFRONT] CAPTCHA wall on homepage, backing off")
		chromedp.Run(runCtx, chromedp.Sleep(30*time.Second))
		if s.hitCaptcha(runCtx) {
			return nil, fmt.Errorf("storefront presented a CAPTCHA wall")
		}
	}

	err = chromedp.Run(runCtx,
		chromedp.WaitVisible(`#twotabsearchtextbox`, chromedp.ByID),
		chromedp.Click(`#twotabsearchtextbox`, chromedp.ByID),
		chromedp.SendKeys(`#twotabsearchtextbox`, query+"\n", chromedp.ByID),
		chromedp.Sleep(4*time.Second),
		chromedp.Evaluate(extractScript, &cards),
	)
	if err != nil {
		return nil, fmt.Errorf("search navigation failed: %w", err)
	}
	log.Printf("[STOREFRONT] Search %q: initial extraction %d cards", query, len(cards))

	// Scroll for lazy-loaded cards
	if len(cards) < 15 {
		err = chromedp.Run(runCtx,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(3*time.Second),
			chromedp.Evaluate(extractScript, &cards),
		)
		if err != nil {
			return nil, fmt.Errorf("scroll extraction failed: %w", err)
		}
		log.Printf("[STOREFRONT] Search %q: after scroll %d cards", query, len(cards))
	}

	// Walk to page 2 when the first page is thin
	if len(cards) < 10 {
		var page2 []rawCard
		err = chromedp.Run(runCtx,
			chromedp.Click(`a.s-pagination-next`, chromedp.ByQuery),
			chromedp.Sleep(4*time.Second),
			chromedp.Evaluate(extractScript, &page2),
		)
		if err != nil {
			// Page 2 is best-effort; a missing next button is normal
			log.Printf("[STOREFRONT] Search %q: no second page (%v)", query, err)
		} else {
			cards = append(cards, page2...)
			log.Printf("[STOREFRONT] Search %q: total with page 2: %d cards", query, len(cards))
		}
	}

	listings := make([]domain.RawListing, 0, len(cards))
	for _, c := range cards {
		if c.Title == "" {
			continue
		}
		listings = append(listings, domain.RawListing{
			Title:      c.Title,
			PriceText:  c.Price,
			RatingText: c.Rating,
			ReviewText: c.Reviews,
			ASIN:       c.ASIN,
			Href:       c.Href,
		})
	}
	return listings, nil
}

// AddToCart adds each item to the cart by direct product-page navigation.
// Per-item failures are recorded, never fatal: one dead listing must not
// sink the rest of the batch.
func (s *AmazonStorefront) AddToCart(ctx context.Context, items []domain.CartItem) ([]domain.CartResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]domain.CartResult, 0, len(items))

	for _, item := range items {
		if err := s.rateLimiter.Wait(ctx); err != nil {
			return results, fmt.Errorf("rate limiter error: %w", err)
		}

		ok, err := s.addOne(item.ASIN)
		if err != nil {
			log.Printf("[STOREFRONT] Add to cart failed for %s: %v", item.ASIN, err)
			ok = false
		}
		results = append(results, domain.CartResult{
			ASIN:    item.ASIN,
			Name:    item.Name,
			Success: ok,
		})
	}

	return results, nil
}

// addOne navigates to one product page and clicks through the add-to-cart
// flow, probing the selector variants Amazon rotates between layouts
func (s *AmazonStorefront) addOne(asin string) (bool, error) {
	runCtx, cancel := context.WithTimeout(s.browserCtx, 90*time.Second)
	defer cancel()

	var clicked bool
	var verdict string

	err := chromedp.Run(runCtx,
		chromedp.Navigate(s.baseURL+"/dp/"+asin),
		chromedp.Sleep(4*time.Second),

		// Kill the image-zoom overlay that intercepts clicks
		chromedp.Evaluate(`
			document.querySelectorAll('[id*="zoom"], [class*="zoom"], [id*="magnifier"]').forEach(
				el => { el.style.display = 'none'; el.style.pointerEvents = 'none'; }
			);
		`, nil),

		chromedp.Evaluate(addToCartScript, &clicked),
	)
	if err != nil {
		return false, fmt.Errorf("product page navigation: %w", err)
	}
	if !clicked {
		return false, nil
	}

	err = chromedp.Run(runCtx,
		chromedp.Sleep(5*time.Second),
		chromedp.Evaluate(dismissPopupsScript, nil),
		chromedp.Sleep(2*time.Second),
		chromedp.Evaluate(verifyCartScript, &verdict),
	)
	if err != nil {
		return false, fmt.Errorf("cart verification: %w", err)
	}

	return verdict == "ok", nil
}

// CartScreenshot navigates to the cart page and captures it to a file
func (s *AmazonStorefront) CartScreenshot(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	runCtx, cancel := context.WithTimeout(s.browserCtx, 60*time.Second)
	defer cancel()

	var buf []byte
	err := chromedp.Run(runCtx,
		chromedp.Navigate(s.baseURL+"/gp/cart/view.html"),
		chromedp.Sleep(4*time.Second),
		chromedp.CaptureScreenshot(&buf),
	)
	if err != nil {
		return "", fmt.Errorf("cart screenshot failed: %w", err)
	}

	path := filepath.Join(s.screenshotDir, "cart_"+strconv.FormatInt(time.Now().Unix(), 10)+".png")
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}
	log.Printf("[STOREFRONT] Cart screenshot saved: %s", path)
	return path, nil
}

// hitCaptcha checks for Amazon's CAPTCHA interstitial
func (s *AmazonStorefront) hitCaptcha(ctx context.Context) bool {
	var found bool
	err := chromedp.Run(ctx, chromedp.Evaluate(
		`!!document.querySelector("form[action*='validateCaptcha'], #captchacharacters")`, &found))
	return err == nil && found
}

// findChromeBinary locates a Chrome/Chromium binary
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
