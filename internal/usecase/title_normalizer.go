package usecase

import (
	"regexp"
	"strings"
)

// Compiled regex patterns for title normalization
var (
	// Matches "Unisex-Adult" boilerplate with optional spacing/hyphen noise
	unisexAdultPattern = regexp.MustCompile(`(?i)\bunisex\s*-?\s*adult\b\s*-?\s*`)

	// Matches gendered sizing tokens the storefront jams into titles
	genderTokenPattern = regexp.MustCompile(`(?i)\b(?:mens|womens|unisex)\b\s*`)

	// Matches a capitalized word-fragment (a capital followed by 2+ lowercase)
	capFragmentPattern = regexp.MustCompile(`[A-Z][a-z]{2,}`)

	// Matches a capitalized multi-word phrase ("Snow Goggle", "Portable Monitor")
	capPhrasePattern = regexp.MustCompile(`[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*`)

	// Matches a lowercase letter jammed against an uppercase one ("MtbMTB")
	camelJoinPattern = regexp.MustCompile(`([a-z])([A-Z])`)

	// Matches a lone uppercase letter jammed before a capitalized word,
	// only at a token start (avoids splitting acronym-led words mid-token)
	loneCapitalPattern = regexp.MustCompile(`(^|\s)([A-Z])([A-Z][a-z]{2,})`)

	// Matches a lone size-code letter jammed before a short hyphenated token,
	// only at a token start (avoids corrupting "Large-Sized")
	sizeLetterPattern = regexp.MustCompile(`(^|\s)([SMLX])([a-z]{1,3}-)`)

	// Runs of whitespace
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// NormalizeTitle repairs title strings corrupted by the storefront's
// concatenation of brand and product-name fields: duplicated words, jammed
// capitalization, missing spaces. Rules run in a fixed order (each rule's
// output feeds the next) and the whole chain is idempotent: running it on
// its own output changes nothing.
func NormalizeTitle(title string) string {
	// Step 1: Remove gendered/size boilerplate tokens
	cleaned := unisexAdultPattern.ReplaceAllString(title, "")
	cleaned = genderTokenPattern.ReplaceAllString(cleaned, "")

	// Step 2: Collapse immediately repeated whole words ("Oakley Oakley")
	cleaned = collapseRepeatedWords(cleaned)

	// Step 3: Collapse a repeated capitalized fragment with no separating
	// space ("GoggleGoggle")
	cleaned = collapseDoubledFragment(cleaned)

	// Step 4: Collapse a repeated capitalized phrase, absorbing a trailing
	// pluralizing "s" ("Snow GoggleSnow Goggles")
	cleaned = collapseDoubledPhrase(cleaned)

	// Step 5: Mend jammed camel-case joins ("MtbMTB" → "Mtb MTB")
	cleaned = camelJoinPattern.ReplaceAllString(cleaned, "$1 $2")

	// Step 6: Split a lone capital jammed before a capitalized word
	cleaned = loneCapitalPattern.ReplaceAllString(cleaned, "$1$2 $3")

	// Step 7: Split a lone size-code letter from a hyphenated token
	cleaned = sizeLetterPattern.ReplaceAllString(cleaned, "$1$2 $3")

	// Step 8: Collapse whitespace runs and trim
	cleaned = whitespacePattern.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// collapseRepeatedWords drops each word that exactly repeats the one before
// it. Comparison is case-sensitive and whole-token, so "Oakley Oakley"
// collapses but "Oakley, Oakley" does not.
func collapseRepeatedWords(s string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	kept := words[:1]
	for _, w := range words[1:] {
		if w == kept[len(kept)-1] {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// collapseDoubledFragment removes verbatim repeats of a capitalized fragment
// jammed against itself with no separating space: "GoggleGoggle" → "Goggle".
// Runs of three or more copies collapse to one.
func collapseDoubledFragment(s string) string {
	locs := capFragmentPattern.FindAllStringIndex(s, -1)
	if locs == nil {
		return s
	}

	var b strings.Builder
	last := 0
	for _, loc := range locs {
		if loc[0] < last {
			continue
		}
		frag := s[loc[0]:loc[1]]
		end := loc[1]
		for strings.HasPrefix(s[end:], frag) {
			end += len(frag)
		}
		b.WriteString(s[last:loc[1]])
		last = end
	}
	b.WriteString(s[last:])
	return b.String()
}

// collapseDoubledPhrase removes verbatim repeats of a capitalized multi-word
// phrase, keeping a trailing pluralizing "s" when one follows the repeat:
// "Snow GoggleSnow Goggles" → "Snow Goggles". Shorter word-prefixes of the
// phrase are tried when the maximal phrase itself does not repeat.
func collapseDoubledPhrase(s string) string {
	locs := capPhrasePattern.FindAllStringIndex(s, -1)
	if locs == nil {
		return s
	}

	var b strings.Builder
	last := 0
	for _, loc := range locs {
		if loc[0] < last {
			continue
		}
		phrase := s[loc[0]:loc[1]]

		for _, p := range phrasePrefixes(phrase) {
			end := loc[0] + len(p)
			if !strings.HasPrefix(s[end:], p) {
				continue
			}
			for strings.HasPrefix(s[end:], p) {
				end += len(p)
			}
			kept := p
			if strings.HasPrefix(s[end:], "s") {
				kept += "s"
				end++
			}
			b.WriteString(s[last:loc[0]])
			b.WriteString(kept)
			last = end
			break
		}
	}
	b.WriteString(s[last:])
	return b.String()
}

// phrasePrefixes returns the whole-word prefixes of a phrase, longest first.
func phrasePrefixes(phrase string) []string {
	prefixes := []string{phrase}
	rest := phrase
	for {
		idx := strings.LastIndexAny(rest, " \t")
		if idx < 0 {
			break
		}
		rest = strings.TrimRight(rest[:idx], " \t")
		if rest == "" {
			break
		}
		prefixes = append(prefixes, rest)
	}
	return prefixes
}
