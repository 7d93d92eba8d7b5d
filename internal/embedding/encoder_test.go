package embedding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmbedTextsDeterministic(t *testing.T) {
	e := Get()
	a := e.EmbedText("番茄炒蛋", false, true)
	b := e.EmbedText("番茄炒蛋", false, true)
	assert.Equal(t, a, b)
	assert.Len(t, a, Dimension)
}

func TestEmbedTextsAsymmetric(t *testing.T) {
	e := Get()
	doc := e.EmbedText("番茄炒蛋", false, true)
	query := e.EmbedText("番茄炒蛋", true, true)
	assert.NotEqual(t, doc, query)
}

func TestEmbedTextsNormalized(t *testing.T) {
	e := Get()
	v := e.EmbedText("hello world", false, true)
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sumSq), 1e-3)
}

func TestCosineZeroVectorGuard(t *testing.T) {
	zero := make([]float32, Dimension)
	other := make([]float32, Dimension)
	other[0] = 1
	assert.Equal(t, 0.0, Cosine(zero, other))
	assert.Equal(t, 0.0, Cosine(nil, nil))
}

func TestCosineIdentical(t *testing.T) {
	e := Get()
	v := e.EmbedText("swimming", false, true)
	assert.InDelta(t, 1.0, Cosine(v, v), 1e-6)
}
