// Package vectorstore implements spec.md §4.2: named collections of
// KnowledgeRecords with a declared similarity metric, persisted to a
// local SQLite file via GORM — grounded on the gorm+sqlite pairing used
// across the example pack (pageza-alchemorsel-v1/v2-backend,
// pageza-alchemorsel-enterprise, DrKhaled123-doctorhealthy1) as the
// closest real-library fit for an embedded, local-file vector store.
package vectorstore

import (
	"encoding/binary"
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/TheBreeze12/lifehub-backend/internal/embedding"
)

// Metric identifies the similarity function a collection was created with.
type Metric string

const (
	MetricCosine Metric = "cosine"
)

// Record is one row of a collection: spec.md §3 "KnowledgeRecord".
type Record struct {
	ID       string
	Vector   []float32
	Text     string
	Metadata map[string]interface{}
}

// SearchResult is one ranked hit from Search, ordered by ascending
// distance (smaller is more similar).
type SearchResult struct {
	ID       string
	Distance float64
	Text     string
	Metadata map[string]interface{}
}

// Stats describes a collection's existence and size.
type Stats struct {
	Exists   bool
	RowCount int64
}

// collectionRow is the GORM-backed table row for a single collection's
// vectors. One table per collection, named "vs_<collection>".
type collectionRow struct {
	ID       string `gorm:"primaryKey;size:36"`
	Vector   []byte `gorm:"type:blob;not null"`
	Text     string `gorm:"type:text;not null"`
	Metadata string `gorm:"type:text"` // JSON-encoded flat scalar map
}

// Store is the process-wide vector-store client. Concurrent reads are
// safe; writes to a given collection are serialized via a per-collection
// mutex (spec.md §5 "a process-wide write mutex per collection is
// acceptable").
type Store struct {
	db *gorm.DB

	mu          sync.RWMutex
	collections map[string]Metric
	locks       map[string]*sync.Mutex
}

var (
	singleton     *Store
	singletonOnce sync.Once
	singletonErr  error
)

// Open returns the process-wide Store backed by the sqlite file at path,
// constructing it on first call. Every later call returns that same
// instance and ignores path, including after the instance has been
// closed; a closed store is not reopened.
func Open(path string) (*Store, error) {
	singletonOnce.Do(func() {
		singleton, singletonErr = New(path)
	})
	return singleton, singletonErr
}

// New constructs an independent Store instance, bypassing the process-wide
// singleton. Tests use it for isolated stores, and cmd/api builds the
// server's single shared Store with it.
func New(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	return &Store{
		db:          db,
		collections: make(map[string]Metric),
		locks:       make(map[string]*sync.Mutex),
	}, nil
}

func (s *Store) lockFor(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}
	return l
}

func tableName(collection string) string {
	return "vs_" + collection
}

// Create is idempotent: creating an existing collection is a no-op.
func (s *Store) Create(name string, metric Metric, description string) error {
	l := s.lockFor(name)
	l.Lock()
	defer l.Unlock()

	s.mu.RLock()
	_, exists := s.collections[name]
	s.mu.RUnlock()
	if exists {
		return nil
	}

	if err := s.db.Table(tableName(name)).AutoMigrate(&collectionRow{}); err != nil {
		return err
	}

	s.mu.Lock()
	s.collections[name] = metric
	s.mu.Unlock()
	return nil
}

// Drop tolerates non-existence.
func (s *Store) Drop(name string) error {
	l := s.lockFor(name)
	l.Lock()
	defer l.Unlock()

	if s.db.Migrator().HasTable(tableName(name)) {
		if err := s.db.Migrator().DropTable(tableName(name)); err != nil {
			return err
		}
	}
	s.mu.Lock()
	delete(s.collections, name)
	s.mu.Unlock()
	return nil
}

// Has reports whether the collection has been created in this process or
// its table already exists in the backing file.
func (s *Store) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.collections[name]
	if ok {
		return true
	}
	return s.db.Migrator().HasTable(tableName(name))
}

// List returns the names of all known collections.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.collections))
	for n := range s.collections {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ErrArgumentMismatch is returned by Insert when the input slices disagree
// in length.
var ErrArgumentMismatch = errors.New("vectorstore: vectors/texts/metadatas length mismatch")

// Insert adds rows to a collection, returning freshly-generated UUIDs.
// metadatas may be nil; when supplied it must be the same length as
// vectors and texts.
func (s *Store) Insert(name string, vectors [][]float32, texts []string, metadatas []map[string]interface{}) ([]string, error) {
	if len(vectors) != len(texts) {
		return nil, ErrArgumentMismatch
	}
	if metadatas != nil && len(metadatas) != len(vectors) {
		return nil, ErrArgumentMismatch
	}

	if err := s.Create(name, MetricCosine, ""); err != nil {
		return nil, err
	}

	l := s.lockFor(name)
	l.Lock()
	defer l.Unlock()

	ids := make([]string, len(vectors))
	rows := make([]collectionRow, len(vectors))
	for i := range vectors {
		id := uuid.New().String()
		ids[i] = id
		var md map[string]interface{}
		if metadatas != nil {
			md = metadatas[i]
		}
		metaJSON, err := encodeMetadata(md)
		if err != nil {
			return nil, err
		}
		rows[i] = collectionRow{
			ID:       id,
			Vector:   encodeVector(vectors[i]),
			Text:     texts[i],
			Metadata: metaJSON,
		}
	}

	if err := s.db.Table(tableName(name)).Create(&rows).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// InsertSingle adds one row to a collection.
func (s *Store) InsertSingle(name string, vector []float32, text string, metadata map[string]interface{}) (string, error) {
	var md []map[string]interface{}
	if metadata != nil {
		md = []map[string]interface{}{metadata}
	}
	ids, err := s.Insert(name, [][]float32{vector}, []string{text}, md)
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// Search returns the top_k nearest rows to queryVector by ascending
// distance. where, when non-nil, restricts results to rows whose
// metadata matches every key/value pair exactly (post-filtered, since
// metadata is stored as opaque JSON).
func (s *Store) Search(name string, queryVector []float32, topK int, where map[string]interface{}) ([]SearchResult, error) {
	if !s.Has(name) {
		return nil, nil
	}
	var rows []collectionRow
	if err := s.db.Table(tableName(name)).Find(&rows).Error; err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(rows))
	for _, r := range rows {
		md, err := decodeMetadata(r.Metadata)
		if err != nil {
			continue
		}
		if where != nil && !matchesWhere(md, where) {
			continue
		}
		vec := decodeVector(r.Vector)
		dist := 1 - embedding.Cosine(queryVector, vec)
		results = append(results, SearchResult{ID: r.ID, Distance: dist, Text: r.Text, Metadata: md})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Distance < results[j].Distance })
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

func matchesWhere(md map[string]interface{}, where map[string]interface{}) bool {
	for k, v := range where {
		if md[k] != v {
			return false
		}
	}
	return true
}

// DeleteByIDs removes rows with the given ids from a collection.
func (s *Store) DeleteByIDs(name string, ids []string) error {
	l := s.lockFor(name)
	l.Lock()
	defer l.Unlock()
	if !s.Has(name) {
		return nil
	}
	return s.db.Table(tableName(name)).Where("id IN ?", ids).Delete(&collectionRow{}).Error
}

// DeleteByFilter removes rows whose metadata matches every key/value pair
// in filter.
func (s *Store) DeleteByFilter(name string, filter map[string]interface{}) error {
	l := s.lockFor(name)
	l.Lock()
	defer l.Unlock()
	if !s.Has(name) {
		return nil
	}
	var rows []collectionRow
	if err := s.db.Table(tableName(name)).Find(&rows).Error; err != nil {
		return err
	}
	var toDelete []string
	for _, r := range rows {
		md, err := decodeMetadata(r.Metadata)
		if err != nil {
			continue
		}
		if matchesWhere(md, filter) {
			toDelete = append(toDelete, r.ID)
		}
	}
	if len(toDelete) == 0 {
		return nil
	}
	return s.db.Table(tableName(name)).Where("id IN ?", toDelete).Delete(&collectionRow{}).Error
}

// CollectionStats reports whether a collection exists and its row count.
func (s *Store) CollectionStats(name string) (Stats, error) {
	if !s.Has(name) {
		return Stats{Exists: false}, nil
	}
	var count int64
	if err := s.db.Table(tableName(name)).Count(&count).Error; err != nil {
		return Stats{}, err
	}
	return Stats{Exists: true, RowCount: count}, nil
}

// Close releases the underlying database handle and is idempotent. A
// closed Store stays closed: Open does not build a new one.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return nil
	}
	return sqlDB.Close()
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(b []byte) []float32 {
	n := len(b) / 4
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}
