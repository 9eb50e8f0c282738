// Package match resolves free-text descriptions to catalog article codes.
package match

import (
	"math"
	"regexp"

	"github.com/frsuministros/orderflow/internal/catalog"
	"github.com/frsuministros/orderflow/internal/model"
	"github.com/frsuministros/orderflow/internal/normalize"
)

// ConfirmedLookup is the read side of the confirmed-match store.
type ConfirmedLookup interface {
	Lookup(normalizedDescription string) (string, bool)
}

// Result is the terminal outcome of matching one description.
type Result struct {
	Code       string
	Article    model.Article
	Confidence int
	Matched    bool
	Confirmed  bool
}

// Matcher combines the confirmed-match store with the catalog's approximate
// lookup. Confirmed overrides always win; approximate hits get a confidence
// derived from the similarity score; everything else is a miss.
type Matcher struct {
	confirmed ConfirmedLookup
	index     *catalog.Index
	offset    float64
}

// DefaultOffset is added to the similarity score before scaling it to the
// 0-100 confidence range.
const DefaultOffset = 0.15

var digitRunRe = regexp.MustCompile(`\d+`)

// New creates a matcher. An offset <= 0 selects DefaultOffset.
func New(confirmed ConfirmedLookup, index *catalog.Index, offset float64) *Matcher {
	if offset <= 0 {
		offset = DefaultOffset
	}
	return &Matcher{confirmed: confirmed, index: index, offset: offset}
}

// Match normalizes the description and resolves it to an article code.
// An empty normalized form is a miss, never an error.
func (m *Matcher) Match(description string) Result {
	normalized := normalize.Normalize(description)
	if normalized == "" {
		return Result{}
	}

	if code, ok := m.confirmed.Lookup(normalized); ok {
		result := Result{Code: code, Confidence: 100, Matched: true, Confirmed: true}
		if article, found := m.index.FindByCode(code); found {
			result.Article = article
		}
		return result
	}

	article, similarity, ok := m.index.ApproximateMatch(normalized)
	if !ok {
		return Result{}
	}

	// Numeric tokens are load-bearing: "tubo pvc 110" must not resolve to a
	// 90mm article however close the rest of the text is.
	if !coversDigitRuns(normalized, article.NormalizedDescription) {
		return Result{}
	}

	return Result{
		Code:       article.Code,
		Article:    article,
		Confidence: confidence(similarity, m.offset),
		Matched:    true,
	}
}

func confidence(similarity, offset float64) int {
	c := int(math.Round((similarity + offset) * 100))
	if c > 100 {
		c = 100
	}
	if c < 0 {
		c = 0
	}
	return c
}

// coversDigitRuns reports whether every digit run in the query also occurs
// in the candidate text.
func coversDigitRuns(query, candidate string) bool {
	runs := digitRunRe.FindAllString(query, -1)
	if len(runs) == 0 {
		return true
	}

	candidateRuns := make(map[string]struct{})
	for _, r := range digitRunRe.FindAllString(candidate, -1) {
		candidateRuns[r] = struct{}{}
	}

	for _, r := range runs {
		if _, ok := candidateRuns[r]; !ok {
			return false
		}
	}
	return true
}
