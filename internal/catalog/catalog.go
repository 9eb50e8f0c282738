// Package catalog holds the in-memory article catalog and its approximate
// lookup. The catalog is loaded once from the exported CSV at startup and
// only grows in memory afterwards, when corrections introduce descriptions
// the export did not carry.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/frsuministros/orderflow/internal/common"
	"github.com/frsuministros/orderflow/internal/model"
	"github.com/frsuministros/orderflow/internal/normalize"
)

// Index is the searchable catalog working set. Reads and appends may happen
// concurrently: the poller scans while the update service appends.
type Index struct {
	mu       sync.RWMutex
	articles []model.Article
	cutoff   float64
}

// DefaultCutoff is the minimum similarity an approximate match must reach.
const DefaultCutoff = 0.60

// NewIndex builds an index directly from rows, normalizing any row that
// lacks a precomputed normalized description. Used by tests and by callers
// that assemble the catalog from somewhere other than the CSV export.
func NewIndex(rows []model.Article, cutoff float64) *Index {
	if cutoff <= 0 {
		cutoff = DefaultCutoff
	}
	idx := &Index{cutoff: cutoff}
	for _, r := range rows {
		idx.Append(r)
	}
	return idx
}

// Load reads the catalog CSV (CodArticle, Description, Image, IDArticle),
// drops rows missing a code or description, and precomputes the normalized
// description for every surviving row.
func Load(path string, cutoff float64) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: catalog file %s", common.ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer func() { _ = f.Close() }()

	idx, err := read(f, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return idx, nil
}

func read(r io.Reader, cutoff float64) (*Index, error) {
	if cutoff <= 0 {
		cutoff = DefaultCutoff
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	codeCol, ok := cols["CodArticle"]
	if !ok {
		return nil, fmt.Errorf("missing CodArticle column")
	}
	descCol, ok := cols["Description"]
	if !ok {
		return nil, fmt.Errorf("missing Description column")
	}
	imageCol, hasImage := cols["Image"]
	idCol, hasID := cols["IDArticle"]

	idx := &Index{cutoff: cutoff}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		article := model.Article{
			Code:        field(record, codeCol),
			Description: normalize.CollapseSpaces(field(record, descCol)),
		}
		if article.Code == "" || article.Description == "" {
			continue
		}
		if hasImage {
			article.Image = decodeImageCell(field(record, imageCol))
		}
		if hasID {
			article.ArticleID = field(record, idCol)
		}
		article.NormalizedDescription = normalize.Normalize(article.Description)
		idx.articles = append(idx.articles, article)
	}

	return idx, nil
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}

// FindByCode returns the first catalog row carrying the given code.
func (idx *Index) FindByCode(code string) (model.Article, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	for _, a := range idx.articles {
		if a.Code == code {
			return a, true
		}
	}
	return model.Article{}, false
}

// ApproximateMatch scans every row and returns the best-scoring one if its
// similarity to the normalized query clears the cutoff. Ties resolve to the
// earliest row in index order, so repeated calls are deterministic.
func (idx *Index) ApproximateMatch(normalizedQuery string) (model.Article, float64, bool) {
	if normalizedQuery == "" {
		return model.Article{}, 0, false
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var (
		best      model.Article
		bestScore float64
		found     bool
	)
	for _, a := range idx.articles {
		score := Similarity(normalizedQuery, a.NormalizedDescription)
		if score > bestScore {
			best, bestScore, found = a, score, true
		}
	}

	if !found || bestScore < idx.cutoff {
		return model.Article{}, 0, false
	}
	return best, bestScore, true
}

// Append adds an in-memory-only row, normalizing its description if the
// caller did not. The source file is never rewritten.
func (idx *Index) Append(article model.Article) {
	if article.NormalizedDescription == "" {
		article.NormalizedDescription = normalize.Normalize(article.Description)
	}

	idx.mu.Lock()
	idx.articles = append(idx.articles, article)
	idx.mu.Unlock()
}

// Rows returns a copy of the current working set.
func (idx *Index) Rows() []model.Article {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]model.Article, len(idx.articles))
	copy(out, idx.articles)
	return out
}

// Len reports the number of rows currently indexed.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.articles)
}
