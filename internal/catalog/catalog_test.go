package catalog

import (
	"strings"
	"testing"

	"github.com/frsuministros/orderflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSV = `CodArticle,Description,Image,IDArticle
A1,TUBO PVC 110MM,,1001
A2,VALVULA ESFERICA 1/2,,1002
A3,,,1003
,ABRAZADERA SIN CODIGO,,1004
A5,ADHESIVO PVC 500ML,b'\x89PNG',1005
`

func loadTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := read(strings.NewReader(testCSV), DefaultCutoff)
	require.NoError(t, err)
	return idx
}

func TestLoadDropsIncompleteRows(t *testing.T) {
	idx := loadTestIndex(t)

	// A3 has no description, the fourth row has no code.
	assert.Equal(t, 3, idx.Len())

	_, ok := idx.FindByCode("A3")
	assert.False(t, ok)
}

func TestLoadPrecomputesNormalizedDescriptions(t *testing.T) {
	idx := loadTestIndex(t)

	a, ok := idx.FindByCode("A1")
	require.True(t, ok)
	assert.Equal(t, "tubo pvc 110mm", a.NormalizedDescription)
	assert.Equal(t, "1001", a.ArticleID)
}

func TestLoadDecodesImageLiteral(t *testing.T) {
	idx := loadTestIndex(t)

	a, ok := idx.FindByCode("A5")
	require.True(t, ok)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, a.Image)
}

func TestFindByCodeMissing(t *testing.T) {
	idx := loadTestIndex(t)

	_, ok := idx.FindByCode("NOPE")
	assert.False(t, ok)
}

func TestApproximateMatch(t *testing.T) {
	idx := loadTestIndex(t)

	a, score, ok := idx.ApproximateMatch("tubo pvc 110 mm")
	require.True(t, ok)
	assert.Equal(t, "A1", a.Code)
	assert.Greater(t, score, 0.6)
}

func TestApproximateMatchEmptyQuery(t *testing.T) {
	idx := loadTestIndex(t)

	_, _, ok := idx.ApproximateMatch("")
	assert.False(t, ok)
}

func TestApproximateMatchBelowCutoff(t *testing.T) {
	idx := loadTestIndex(t)

	_, _, ok := idx.ApproximateMatch("bomba sumergible acero")
	assert.False(t, ok)
}

func TestApproximateMatchTieBreakIsStable(t *testing.T) {
	idx := &Index{cutoff: 0.5}
	idx.Append(model.Article{Code: "FIRST", Description: "codo pvc 90", NormalizedDescription: "codo pvc 90"})
	idx.Append(model.Article{Code: "SECOND", Description: "codo pvc 90", NormalizedDescription: "codo pvc 90"})

	for i := 0; i < 20; i++ {
		a, _, ok := idx.ApproximateMatch("codo pvc 90")
		require.True(t, ok)
		assert.Equal(t, "FIRST", a.Code)
	}
}

func TestAppendIsVisibleToMatching(t *testing.T) {
	idx := loadTestIndex(t)

	_, _, ok := idx.ApproximateMatch("manguera riego 25")
	require.False(t, ok)

	idx.Append(model.Article{Code: "M1", Description: "MANGUERA RIEGO 25M"})

	a, _, ok := idx.ApproximateMatch("manguera riego 25")
	require.True(t, ok)
	assert.Equal(t, "M1", a.Code)
}

func TestSimilarityProperties(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("tubo pvc", "tubo pvc"))
	assert.Equal(t, 0.0, Similarity("", "tubo"))

	// Symmetric.
	ab := Similarity("tubo pvc 110mm", "tubo pvc 110 mm")
	ba := Similarity("tubo pvc 110 mm", "tubo pvc 110mm")
	assert.Equal(t, ab, ba)

	// Bounded.
	for _, pair := range [][2]string{
		{"valvula", "bomba"},
		{"tubo pvc", "tubo polietileno"},
		{"a", "abcdefghij"},
	} {
		s := Similarity(pair[0], pair[1])
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}
