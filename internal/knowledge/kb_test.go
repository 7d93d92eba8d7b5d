package knowledge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheBreeze12/lifehub-backend/internal/vectorstore"
)

func writeSource(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "source.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuildKnowledgeBaseIdempotent(t *testing.T) {
	store, err := vectorstore.New(":memory:")
	require.NoError(t, err)

	src := writeSource(t, `[
		{"name":"番茄炒蛋","category":"家常菜","calories":120,"protein":8,"fat":7,"carbs":5,"fiber":1,"sodium":200,"serving":"一份约200克","cooking_notes":"清炒"}
	]`)

	kb := NewKnowledgeBase(store, "nutrition_test", src, LoadNutritionSource)

	n1, err := kb.Build(false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n1)

	n2, err := kb.Build(false)
	require.NoError(t, err)
	assert.Equal(t, n1, n2)

	n3, err := kb.Build(true)
	require.NoError(t, err)
	n4, err := kb.Build(false)
	require.NoError(t, err)
	assert.Equal(t, n3, n4)
}

func TestEnsureInitializedBuildsOnce(t *testing.T) {
	store, err := vectorstore.New(":memory:")
	require.NoError(t, err)
	src := writeSource(t, `[{"name":"米饭","category":"主食","calories":116,"protein":2.6,"fat":0.3,"carbs":25.9,"fiber":0.3,"sodium":2,"serving":"一碗约150克","cooking_notes":"蒸煮"}]`)
	kb := NewKnowledgeBase(store, "nutrition_test2", src, LoadNutritionSource)

	require.NoError(t, kb.EnsureInitialized())
	require.NoError(t, kb.EnsureInitialized())

	stats, err := store.CollectionStats("nutrition_test2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.RowCount)
}

func TestSearchWithMaxDistance(t *testing.T) {
	store, err := vectorstore.New(":memory:")
	require.NoError(t, err)
	src := writeSource(t, `[{"name":"番茄炒蛋","category":"家常菜","calories":120,"protein":8,"fat":7,"carbs":5,"fiber":1,"sodium":200,"serving":"一份","cooking_notes":"清炒"}]`)
	kb := NewKnowledgeBase(store, "nutrition_test3", src, LoadNutritionSource)
	_, err = kb.Build(false)
	require.NoError(t, err)

	results, err := kb.Search("番茄炒蛋", 5, 1.5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "番茄炒蛋", results[0].Metadata["name"])
}
