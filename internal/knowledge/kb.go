// Package knowledge implements spec.md §4.3: the identical-shaped
// lifecycle shared by the three knowledge bases (nutrition, recipe-graph,
// exercise-METs) — load JSON source, convert to retrieval text + flat
// metadata, batch-embed as documents, insert into a named vector-store
// collection.
package knowledge

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/TheBreeze12/lifehub-backend/internal/embedding"
	"github.com/TheBreeze12/lifehub-backend/internal/vectorstore"
)

// loadedRecord is one source record converted to its retrieval-friendly
// shape, ready for embedding.
type loadedRecord struct {
	Text     string
	Metadata map[string]interface{}
}

// loader turns the bytes of a KB's JSON source file into loadedRecords.
type loader func(sourceJSON []byte) ([]loadedRecord, error)

// KnowledgeBase is the generic lifecycle shared by all three KBs.
type KnowledgeBase struct {
	CollectionName string
	SourcePath     string

	store  *vectorstore.Store
	encode *embedding.Encoder
	load   loader

	mu          sync.Mutex
	initialized bool
}

// NewKnowledgeBase wires a collection name, its JSON source path, and the
// type-specific loader into a ready-to-use lifecycle.
func NewKnowledgeBase(store *vectorstore.Store, collectionName, sourcePath string, load loader) *KnowledgeBase {
	return &KnowledgeBase{
		CollectionName: collectionName,
		SourcePath:     sourcePath,
		store:          store,
		encode:         embedding.Get(),
		load:           load,
	}
}

// Build is idempotent: if the collection already has rows and
// forceRebuild is false, it's left alone. forceRebuild=true drops and
// recreates it from source.
func (kb *KnowledgeBase) Build(forceRebuild bool) (int64, error) {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	if err := kb.store.Create(kb.CollectionName, vectorstore.MetricCosine, ""); err != nil {
		return 0, err
	}

	if !forceRebuild {
		stats, err := kb.store.CollectionStats(kb.CollectionName)
		if err != nil {
			return 0, err
		}
		if stats.Exists && stats.RowCount > 0 {
			kb.initialized = true
			return stats.RowCount, nil
		}
	} else {
		if err := kb.store.Drop(kb.CollectionName); err != nil {
			return 0, err
		}
		if err := kb.store.Create(kb.CollectionName, vectorstore.MetricCosine, ""); err != nil {
			return 0, err
		}
	}

	raw, err := os.ReadFile(kb.SourcePath)
	if err != nil {
		return 0, err
	}
	records, err := kb.load(raw)
	if err != nil {
		return 0, err
	}

	texts := make([]string, len(records))
	metas := make([]map[string]interface{}, len(records))
	for i, r := range records {
		texts[i] = r.Text
		metas[i] = r.Metadata
	}

	vectors := kb.encode.EmbedTexts(texts, false, true)
	if _, err := kb.store.Insert(kb.CollectionName, vectors, texts, metas); err != nil {
		return 0, err
	}

	kb.initialized = true
	stats, err := kb.store.CollectionStats(kb.CollectionName)
	if err != nil {
		return 0, err
	}
	return stats.RowCount, nil
}

// EnsureInitialized builds the collection on first call and returns the
// cached truth thereafter, guarding concurrent first-callers so at most
// one build runs (spec.md §5 "KB initialization flag").
func (kb *KnowledgeBase) EnsureInitialized() error {
	kb.mu.Lock()
	already := kb.initialized
	kb.mu.Unlock()
	if already {
		return nil
	}
	_, err := kb.Build(false)
	return err
}

// Add embeds and inserts a single record incrementally.
func (kb *KnowledgeBase) Add(text string, metadata map[string]interface{}) (string, error) {
	vec := kb.encode.EmbedText(text, false, true)
	return kb.store.InsertSingle(kb.CollectionName, vec, text, metadata)
}

// Search embeds query as a query-side text and returns the top_k nearest
// rows, optionally filtered by maxDistance (rows with distance >
// maxDistance are dropped; pass a negative maxDistance to disable).
func (kb *KnowledgeBase) Search(query string, topK int, maxDistance float64) ([]vectorstore.SearchResult, error) {
	vec := kb.encode.EmbedText(query, true, true)
	results, err := kb.store.Search(kb.CollectionName, vec, topK, nil)
	if err != nil {
		return nil, err
	}
	if maxDistance < 0 {
		return results, nil
	}
	filtered := make([]vectorstore.SearchResult, 0, len(results))
	for _, r := range results {
		if r.Distance <= maxDistance {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func mustMarshal(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}
