// Package embedding implements the text→vector encoding contract of
// spec.md §4.1: a process-wide, lazily-initialized, thread-safe encoder
// producing fixed-dimension, optionally L2-normalized vectors, with
// asymmetric handling of query vs. document text.
package embedding

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"sync"
)

// Dimension is the fixed output width, matching the reference model.
const Dimension = 1024

// queryInstruction is prepended to query texts before encoding so that
// queries and documents are embedded asymmetrically, per spec.md §4.1.
const queryInstruction = "为这个句子生成表示以用于检索相关文章："

// Encoder is the process-wide embedding singleton. The zero value is not
// usable; obtain one via Get().
type Encoder struct {
	once sync.Once
}

var (
	singleton     *Encoder
	singletonOnce sync.Once
)

// Get returns the process-wide Encoder, constructing it on first call.
// Safe for concurrent use.
func Get() *Encoder {
	singletonOnce.Do(func() {
		singleton = &Encoder{}
	})
	singleton.ensureLoaded()
	return singleton
}

// ensureLoaded stands in for the one-time load of a real embedding model.
// Subsequent calls are read-only and thread-safe, per spec.md §4.1/§5.
func (e *Encoder) ensureLoaded() {
	e.once.Do(func() {})
}

// EmbedTexts encodes texts into Dimension-wide vectors. When isQuery is
// true, each text is prefixed with the model-specific instruction string
// before encoding. When normalize is true, every output vector is unit
// L2 length. No result is cached; callers that repeat a call pay for it
// again, matching spec.md §4.1.
func (e *Encoder) EmbedTexts(texts []string, isQuery bool, normalize bool) [][]float32 {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		text := t
		if isQuery {
			text = queryInstruction + text
		}
		vec := deterministicVector(text)
		if normalize {
			vec = normalizeVector(vec)
		}
		out[i] = vec
	}
	return out
}

// EmbedText is a convenience wrapper for a single text.
func (e *Encoder) EmbedText(text string, isQuery bool, normalize bool) []float32 {
	return e.EmbedTexts([]string{text}, isQuery, normalize)[0]
}

// deterministicVector derives a reproducible Dimension-wide float32
// vector from text using repeated SHA-256 expansion. This stands in for
// a trained embedding model: no pack example ships one, and the spec's
// contract (deterministic, asymmetric, normalizable) does not depend on
// any particular model runtime.
func deterministicVector(text string) []float32 {
	out := make([]float32, Dimension)
	block := sha256.Sum256([]byte(text))
	seed := block[:]
	for i := 0; i < Dimension; i++ {
		if i > 0 && i%len(seed) == 0 {
			next := sha256.Sum256(seed)
			seed = next[:]
		}
		b := seed[i%len(seed)]
		// Map a byte into a small signed float range so the resulting
		// vector has nontrivial direction once normalized.
		out[i] = float32(int8(b)) / 128.0
	}
	// Fold in text length so texts that hash-collide on a prefix still
	// diverge; uses the low bytes of a length-salted second pass.
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(text)))
	salted := sha256.Sum256(append(seed, lenBuf[:]...))
	for i := 0; i < Dimension && i < len(salted)*4; i++ {
		out[i] += float32(int8(salted[i%len(salted)])) / 512.0
	}
	return out
}

func normalizeVector(v []float32) []float32 {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	norm := math.Sqrt(sumSq)
	if norm == 0 {
		return v
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// Cosine computes cosine similarity between two equal-length vectors,
// returning 0 for a zero-length vector (zero-vector guard per spec.md
// §4.1).
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
