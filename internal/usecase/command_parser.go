package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cartpilot/backend/internal/domain"
)

// Fixed phrase sets for the exact-match commands. These run before the
// catch-all search interpretation so short control words ("cart", "help")
// are never swallowed as search queries.
var (
	helpPhrases    = phraseSet("help", "start", "h")
	statusPhrases  = phraseSet("status", "ping")
	cartPhrases    = phraseSet("cart", "showcart", "show cart", "view cart", "my cart")
	resultsPhrases = phraseSet("results", "show results", "last", "last results")
)

// searchTriggers are checked as case-insensitive prefixes, in order. Text
// matching none of them is still treated as a search: unrecognized input is
// never rejected.
var searchTriggers = []string{
	"search", "find", "look for", "looking for", "get me", "find me",
	"show me", "i want", "i need", "buy", "shop for",
}

// budgetPatterns extract a budget ceiling from search text, in priority
// order: currency amount, trailing currency word, qualifier-prefixed,
// qualifier-suffixed. The first matching pattern wins and its matches are
// consumed from the query.
var budgetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\s*(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:dollars?|bucks?|cad|\$)`),
	regexp.MustCompile(`(?:under|below|max|budget|less than|up to)\s*\$?\s*(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:max|budget|limit)`),
}

// wordNumber maps English number and ordinal words to selection indices.
// Checked in slice order; Go map iteration order would make "add first
// three" nondeterministic.
var wordNumbers = []struct {
	word string
	num  int
}{
	{"one", 1}, {"two", 2}, {"three", 3}, {"four", 4}, {"five", 5},
	{"first", 1}, {"second", 2}, {"third", 3}, {"fourth", 4}, {"fifth", 5},
}

// defaultFillerWords are stripped from search queries: articles, politeness,
// superlatives and the storefront's own name.
var defaultFillerWords = []string{
	"a", "an", "the", "me", "for", "on", "amazon", "please",
	"good", "best", "nice", "great",
}

var bareIntPattern = regexp.MustCompile(`^\d+$`)

// CommandConfig holds configuration for the command parser. Zero-value
// fields fall back to defaults.
type CommandConfig struct {
	// DefaultBudget applies when no budget signal is found in the text.
	DefaultBudget float64
	// DefaultQuery replaces a query that strips down to nothing.
	DefaultQuery string
	// FillerWords overrides the default filler stoplist.
	FillerWords []string
	// BareBudgetFloor is the minimum value for the trailing-bare-number
	// budget heuristic; smaller trailing numbers stay in the query
	// (protects product specs like "USB-C 3.0").
	BareBudgetFloor int
}

// CommandParser turns one free-text chat line into a structured command.
// It is a deterministic ordered-rule classifier, not a grammar: the first
// matching rule wins, and anything unrecognized degrades to a search.
type CommandParser struct {
	defaultBudget   float64
	defaultQuery    string
	bareBudgetFloor int
	fillerPattern   *regexp.Regexp
}

// NewCommandParser creates a command parser with the given configuration.
func NewCommandParser(config CommandConfig) *CommandParser {
	budget := config.DefaultBudget
	if budget <= 0 {
		budget = 9999.0
	}

	query := config.DefaultQuery
	if query == "" {
		query = "portable monitor"
	}

	floor := config.BareBudgetFloor
	if floor <= 0 {
		floor = 10
	}

	fillers := config.FillerWords
	if len(fillers) == 0 {
		fillers = defaultFillerWords
	}
	escaped := make([]string, len(fillers))
	for i, w := range fillers {
		escaped[i] = regexp.QuoteMeta(strings.ToLower(w))
	}

	return &CommandParser{
		defaultBudget:   budget,
		defaultQuery:    query,
		bareBudgetFloor: floor,
		fillerPattern:   regexp.MustCompile(`\b(?:` + strings.Join(escaped, "|") + `)\b`),
	}
}

// Parse classifies one chat message. Rules apply in priority order: exact
// phrase commands, "add" selections, then search with budget extraction.
func (p *CommandParser) Parse(text string) domain.Command {
	raw := strings.TrimSpace(text)
	lower := strings.ToLower(raw)

	// Slash commands parse the same as their bare forms.
	lower = strings.TrimPrefix(lower, "/")

	cmd := domain.Command{
		Intent: domain.IntentUnknown,
		Budget: p.defaultBudget,
		Raw:    raw,
	}

	switch {
	case helpPhrases[lower]:
		cmd.Intent = domain.IntentHelp
		return cmd
	case statusPhrases[lower]:
		cmd.Intent = domain.IntentStatus
		return cmd
	case cartPhrases[lower]:
		cmd.Intent = domain.IntentCart
		return cmd
	case resultsPhrases[lower]:
		cmd.Intent = domain.IntentResults
		return cmd
	}

	if strings.HasPrefix(lower, "add") {
		cmd.Intent = domain.IntentAdd
		cmd.Items = parseSelection(strings.TrimSpace(lower[len("add"):]))
		return cmd
	}

	return p.parseSearch(cmd, lower)
}

// parseSelection interprets the text after "add". No arguments, or anything
// mentioning "all", selects everything; otherwise integer tokens become
// 1-based indices, with English number words as a fallback. Nothing
// recognizable defaults back to "all".
func parseSelection(rest string) domain.Selection {
	if rest == "" || strings.Contains(rest, "all") {
		return domain.Selection{All: true}
	}

	if nums := firstIntPattern.FindAllString(rest, -1); nums != nil {
		indices := make([]int, 0, len(nums))
		for _, n := range nums {
			idx, err := strconv.Atoi(n)
			if err != nil {
				continue
			}
			indices = append(indices, idx)
		}
		if len(indices) > 0 {
			return domain.Selection{Indices: indices}
		}
	}

	var indices []int
	for _, wn := range wordNumbers {
		if strings.Contains(rest, wn.word) {
			indices = append(indices, wn.num)
		}
	}
	if len(indices) > 0 {
		return domain.Selection{Indices: indices}
	}

	return domain.Selection{All: true}
}

// parseSearch strips a trigger phrase, extracts a budget and cleans the
// remaining query.
func (p *CommandParser) parseSearch(cmd domain.Command, lower string) domain.Command {
	cmd.Intent = domain.IntentSearch

	rest := lower
	for _, trigger := range searchTriggers {
		if strings.HasPrefix(lower, trigger) {
			rest = strings.TrimSpace(lower[len(trigger):])
			break
		}
	}

	rest = p.extractBudget(&cmd, rest)

	// Strip filler words and collapse what remains.
	rest = p.fillerPattern.ReplaceAllString(rest, "")
	rest = strings.TrimSpace(whitespacePattern.ReplaceAllString(rest, " "))

	if rest == "" {
		rest = p.defaultQuery
	}
	cmd.Query = rest
	return cmd
}

// extractBudget applies the budget patterns in order; the first match sets
// the budget, marks it explicit, and is consumed from the text. When none
// match, a trailing bare integer above the floor is taken as the budget;
// the last-token requirement keeps mid-query numbers intact.
func (p *CommandParser) extractBudget(cmd *domain.Command, rest string) string {
	for _, pat := range budgetPatterns {
		m := pat.FindStringSubmatch(rest)
		if m == nil {
			continue
		}
		if val, err := strconv.ParseFloat(m[1], 64); err == nil {
			cmd.Budget = val
			cmd.BudgetSpecified = true
		}
		return strings.TrimSpace(pat.ReplaceAllString(rest, ""))
	}

	words := strings.Fields(rest)
	if len(words) == 0 {
		return rest
	}
	last := words[len(words)-1]
	if bareIntPattern.MatchString(last) {
		if n, err := strconv.Atoi(last); err == nil && n > p.bareBudgetFloor {
			cmd.Budget = float64(n)
			cmd.BudgetSpecified = true
			return strings.Join(words[:len(words)-1], " ")
		}
	}
	return rest
}

func phraseSet(phrases ...string) map[string]bool {
	set := make(map[string]bool, len(phrases))
	for _, p := range phrases {
		set[p] = true
	}
	return set
}
