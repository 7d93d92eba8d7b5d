package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	return s
}

func TestCreateIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Create("nutrition", MetricCosine, "desc"))
	require.NoError(t, s.Create("nutrition", MetricCosine, "desc again"))
	assert.True(t, s.Has("nutrition"))
}

func TestDropToleratesNonExistence(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Drop("missing"))
}

func TestInsertArgumentMismatch(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Insert("x", [][]float32{{1, 2}}, []string{"a", "b"}, nil)
	assert.ErrorIs(t, err, ErrArgumentMismatch)
}

func TestInsertSingleAndSearch(t *testing.T) {
	s := newTestStore(t)
	id, err := s.InsertSingle("nutrition", []float32{1, 0, 0}, "番茄炒蛋", map[string]interface{}{"name": "番茄炒蛋"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	results, err := s.Search("nutrition", []float32{1, 0, 0}, 5, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, id, results[0].ID)
	assert.InDelta(t, 0.0, results[0].Distance, 1e-6)
}

func TestInsertIdempotenceYieldsTwoIDs(t *testing.T) {
	s := newTestStore(t)
	v := []float32{0, 1, 0}
	id1, err := s.InsertSingle("c", v, "x", nil)
	require.NoError(t, err)
	id2, err := s.InsertSingle("c", v, "x", nil)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	results, err := s.Search("c", v, 10, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	ids := []string{results[0].ID, results[1].ID}
	assert.Contains(t, ids, id1)
	assert.Contains(t, ids, id2)
}

func TestSearchOrderedByAscendingDistance(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Insert("c",
		[][]float32{{1, 0, 0}, {0, 1, 0}, {0.9, 0.1, 0}},
		[]string{"a", "b", "c"}, nil)
	require.NoError(t, err)

	results, err := s.Search("c", []float32{1, 0, 0}, 3, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Distance, results[i].Distance)
	}
}

func TestSearchWhereFilter(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Insert("c",
		[][]float32{{1, 0}, {1, 0}},
		[]string{"a", "b"},
		[]map[string]interface{}{{"category": "meat"}, {"category": "veg"}})
	require.NoError(t, err)

	results, err := s.Search("c", []float32{1, 0}, 10, map[string]interface{}{"category": "veg"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "b", results[0].Text)
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	stats, err := s.CollectionStats("missing")
	require.NoError(t, err)
	assert.False(t, stats.Exists)

	_, err = s.InsertSingle("c", []float32{1}, "x", nil)
	require.NoError(t, err)
	stats, err = s.CollectionStats("c")
	require.NoError(t, err)
	assert.True(t, stats.Exists)
	assert.Equal(t, int64(1), stats.RowCount)
}

func TestDeleteByIDs(t *testing.T) {
	s := newTestStore(t)
	id, err := s.InsertSingle("c", []float32{1}, "x", nil)
	require.NoError(t, err)
	require.NoError(t, s.DeleteByIDs("c", []string{id}))
	results, err := s.Search("c", []float32{1}, 10, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
