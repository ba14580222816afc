package procedures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankExactMatchFirst(t *testing.T) {
	got := Rank("knee  REPLACEMENT", 3)
	require.Len(t, got, 3)
	assert.Equal(t, "Knee Replacement", got[0].Procedure.Name)
	assert.Equal(t, 1.0, got[0].Score)
	assert.GreaterOrEqual(t, got[1].Score, got[2].Score)
}

func TestRankPartialQuery(t *testing.T) {
	got := Rank("gallbladder surgery", 1)
	require.Len(t, got, 1)
	assert.Equal(t, "Gallbladder Stone Surgery", got[0].Procedure.Name)
}

func TestRankEmptyQueryKeepsCatalogOrder(t *testing.T) {
	got := Rank("", -1)
	require.Len(t, got, len(Catalog))
	for i := range got {
		assert.Equal(t, Catalog[i].Name, got[i].Procedure.Name)
		assert.Zero(t, got[i].Score)
	}
}

func TestLookup(t *testing.T) {
	p, ok := Lookup("cataract surgery")
	require.True(t, ok)
	assert.Equal(t, "1000", p.StandardRoomRate.String())

	_, ok = Lookup("teleportation")
	assert.False(t, ok)
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, similarity("abc", "abc"))
	assert.Zero(t, similarity("", "abc"))
	assert.Zero(t, similarity("ab", "cd"))
	assert.InDelta(t, 0.5, similarity("abc", "abd"), 1e-9)
}
