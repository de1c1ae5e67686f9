package http

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cartpilot/backend/internal/domain"
)

const helpText = `CartPilot Shopping Bot

Commands:
  search portable monitor 300  - Search Amazon.ca, budget $300 CAD
  find USB-C monitor under 200 - Natural phrasing works too
  add all                      - Add all search results to cart
  add 1 3 5                    - Add specific picks
  cart                         - Screenshot your current cart
  results                      - Show last search results
  status                       - Bot/browser status
  help                         - This message

Tips:
  - Trailing number in a search is treated as the budget (CAD)
  - Without a budget, all prices are considered`

// formatResults renders a ranked result batch as the chat reply. Unknown
// fields render as "N/A", never as zero: a missing price is not a free item.
func formatResults(results []domain.Listing) string {
	if len(results) == 0 {
		return "No results found. Try a different search query or higher budget."
	}

	var b strings.Builder
	b.WriteString("Amazon.ca Search Results\n")
	for i, r := range results {
		price := "N/A"
		if r.Price != nil {
			price = fmt.Sprintf("$%.2f", *r.Price)
		}
		rating := "N/A"
		if r.Rating != nil {
			rating = fmt.Sprintf("%.1f/5", *r.Rating)
		}

		title := r.Title
		if len(title) > 60 {
			title = title[:60]
		}

		fmt.Fprintf(&b, "\n#%d %s\n", i+1, title)
		fmt.Fprintf(&b, "  %s CAD | %s (%s reviews)\n", price, rating, formatThousands(r.Reviews))
		if r.URL != "" {
			fmt.Fprintf(&b, "  %s\n", r.URL)
		}
	}
	b.WriteString("\nReply 'add all' or 'add 1 3' to add to cart")
	return b.String()
}

// formatCartResults renders per-item add-to-cart outcomes
func formatCartResults(results []domain.CartResult) string {
	var b strings.Builder
	b.WriteString("Add to Cart Results\n")

	succeeded := 0
	for _, r := range results {
		mark := "FAILED"
		if r.Success {
			mark = "OK"
			succeeded++
		}
		fmt.Fprintf(&b, "\n[%s] %s", mark, r.Name)
	}

	fmt.Fprintf(&b, "\n\n%d/%d items added to cart", succeeded, len(results))
	return b.String()
}

// formatStatus renders the bot status reply
func formatStatus(status domain.BotStatus) string {
	browser := "not started (will launch on first search)"
	if status.BrowserRunning {
		browser = "running"
	}
	return fmt.Sprintf("Bot Status\n\nBrowser: %s\nLast results: %d items", browser, status.LastResultCount)
}

// formatThousands renders an integer with comma separators
func formatThousands(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return s
	}

	var b strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	return b.String()
}
