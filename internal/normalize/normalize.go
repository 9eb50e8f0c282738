// Package normalize turns free-text product descriptions into the canonical
// form used as the key for confirmed overrides and approximate matching.
package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// synonym rules are applied sequentially in table order on the raw text,
// before lowercasing. A later rule may re-match text produced by an earlier
// one, so order matters.
type synonymRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Each pattern also covers the plural form so that re-running the pipeline
// on its own output cannot produce a new substitution (the de-pluralization
// step below would otherwise expose singular forms on the second pass).
var synonymRules = []synonymRule{
	{regexp.MustCompile(`(?i)\bpegamentos?\b`), "adhesivo"},
	{regexp.MustCompile(`(?i)\bcolas?\b`), "adhesivo"},
	{regexp.MustCompile(`(?i)\bdispensador(?:es)?\b`), "dispensador"},
	{regexp.MustCompile(`(?i)\bpolies?\b`), "polietileno"},
	{regexp.MustCompile(`(?i)\bpes?\b`), "polietileno"},
	{regexp.MustCompile(`(?i)\btuberias?\b`), "tubo"},
	{regexp.MustCompile(`(?i)\bllaves?\b`), "valvula"},
}

var (
	nonWordRe = regexp.MustCompile(`[^\w\s]`)
	// Naive de-pluralization. Known to over-strip short words; the confirmed
	// match corpus was built against this exact behavior, so it stays.
	pluralRe     = regexp.MustCompile(`\b(\w+)(es|s)\b`)
	whitespaceRe = regexp.MustCompile(`\s+`)

	asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Normalize applies the full cleaning pipeline: synonym substitution,
// lowercasing, diacritic stripping, punctuation removal, de-pluralization,
// and stop-word removal. Deterministic and total; empty or stop-word-only
// input yields the empty string.
func Normalize(text string) string {
	for _, rule := range synonymRules {
		text = rule.pattern.ReplaceAllString(text, rule.replacement)
	}

	text = strings.ToLower(text)
	text = stripDiacritics(text)
	text = nonWordRe.ReplaceAllString(text, "")
	text = pluralRe.ReplaceAllString(text, "$1")

	fields := strings.Fields(text)
	kept := fields[:0]
	for _, word := range fields {
		if _, stop := stopWordSet[word]; stop {
			continue
		}
		kept = append(kept, word)
	}

	return strings.Join(kept, " ")
}

// Any normalizes an arbitrary value by coercing it to its textual
// representation first. Useful for payload fields that arrive as numbers.
func Any(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return Normalize(s)
	}
	return Normalize(fmt.Sprint(v))
}

// stripDiacritics decomposes to NFKD and drops combining marks, so
// "válvula" becomes "valvula". Runes that still fall outside ASCII after
// folding are removed by the punctuation pass in Normalize.
func stripDiacritics(s string) string {
	out, _, err := transform.String(asciiFold, s)
	if err != nil {
		return s
	}
	return out
}

// CollapseSpaces reduces internal whitespace runs to single spaces without
// running the full pipeline. Used for display descriptions.
func CollapseSpaces(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
