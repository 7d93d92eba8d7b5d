package rag

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheBreeze12/lifehub-backend/internal/knowledge"
	"github.com/TheBreeze12/lifehub-backend/internal/vectorstore"
)

func setupNutritionKB(t *testing.T) *knowledge.KnowledgeBase {
	t.Helper()
	store, err := vectorstore.New(":memory:")
	require.NoError(t, err)
	dir := t.TempDir()
	path := filepath.Join(dir, "nutrition.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"name":"番茄炒蛋","category":"家常菜","calories":120,"protein":8,"fat":7,"carbs":5,"fiber":1,"sodium":200,"serving":"一份约200克","cooking_notes":"清炒，含鸡蛋"}
	]`), 0o644))
	kb := knowledge.NewKnowledgeBase(store, "nutrition", path, knowledge.LoadNutritionSource)
	_, err = kb.Build(false)
	require.NoError(t, err)
	return kb
}

func TestNutritionContextHit(t *testing.T) {
	kb := setupNutritionKB(t)
	b := NewNutritionContextBuilder(kb)
	ctx, err := b.Build("番茄炒蛋", 5)
	require.NoError(t, err)
	assert.Contains(t, ctx, "番茄炒蛋")
	assert.Contains(t, ctx, "中国食物成分表")
}

func TestNutritionContextEmptyOnNoSurvivors(t *testing.T) {
	store, err := vectorstore.New(":memory:")
	require.NoError(t, err)
	kb := knowledge.NewKnowledgeBase(store, "empty_nutrition", "", knowledge.LoadNutritionSource)
	require.NoError(t, store.Create("empty_nutrition", vectorstore.MetricCosine, ""))
	b := NewNutritionContextBuilder(kb)
	ctx, err := b.Build("不存在的菜", 5)
	require.NoError(t, err)
	assert.Empty(t, ctx)
}
