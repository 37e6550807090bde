package store

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/modkeeper/modkeeper/internal/domain"
)

// Bucket names
var (
	bucketSwitch    = []byte("switch")
	bucketLibraries = []byte("libraries")
)

const (
	keyCurrent = "current"
	keySavedAt = "saved_at"
)

// SnapshotStore implements domain.SnapshotStore using BoltDB.
// It keeps the last switch the backend confirmed so the CLI can show
// library state while the backend is down.
type SnapshotStore struct {
	db     *bolt.DB
	logger *slog.Logger
	mu     sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte

	// last persisted switch, to skip loading-only notifications
	persistMu sync.Mutex
	last      []byte
}

// NewSnapshotStore opens (or creates) the cache for one backend. An empty
// baseCacheDir gives a memory-only store.
func NewSnapshotStore(baseCacheDir, backendURL string, logger *slog.Logger) (*SnapshotStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if baseCacheDir == "" {
		return &SnapshotStore{cache: make(map[string][]byte), logger: logger}, nil
	}

	dir := baseCacheDir
	if backendURL != "" {
		dir = filepath.Join(baseCacheDir, hashBackendURL(backendURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "snapshot.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketSwitch, bucketLibraries} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SnapshotStore{db: db, logger: logger, cache: make(map[string][]byte)}, nil
}

func hashBackendURL(backendURL string) string {
	normalized := strings.TrimRight(strings.ToLower(backendURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *SnapshotStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *SnapshotStore) get(bucket []byte, key string, dest any) bool {
	cacheKey := string(bucket) + ":" + key

	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil || data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *SnapshotStore) set(bucket []byte, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.setRaw(bucket, key, data)
}

func (s *SnapshotStore) setRaw(bucket []byte, key string, data []byte) error {
	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

func (s *SnapshotStore) delete(bucket []byte, key string) {
	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	delete(s.cache, cacheKey)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	if err := s.db.Update(func(tx *bolt.Tx) error {
		if b := tx.Bucket(bucket); b != nil {
			return b.Delete([]byte(key))
		}
		return nil
	}); err != nil {
		s.logger.Warn("failed to delete cache entry", "key", cacheKey, "error", err)
	}
}

// === Switch ===

// LoadSwitch returns the last saved switch. ok is false when nothing was
// saved yet; a saved nil switch (no libraries) returns (nil, true).
func (s *SnapshotStore) LoadSwitch() (*domain.LibrarySwitch, bool) {
	var sw *domain.LibrarySwitch
	ok := s.get(bucketSwitch, keyCurrent, &sw)
	return sw, ok
}

// SaveSwitch stores sw and refreshes every library entry it contains.
// Entries for libraries no longer in sw are dropped.
func (s *SnapshotStore) SaveSwitch(sw *domain.LibrarySwitch) error {
	if err := s.set(bucketSwitch, keyCurrent, sw); err != nil {
		return err
	}
	keep := make(map[string]bool)
	if sw != nil {
		for _, lib := range sw.Libraries {
			if err := s.SaveLibrary(lib); err != nil {
				return err
			}
			keep[lib.ID] = true
		}
		if sw.Active != nil {
			if err := s.SaveLibrary(*sw.Active); err != nil {
				return err
			}
			keep[sw.Active.ID] = true
		}
	}
	for _, id := range s.libraryIDs() {
		if !keep[id] {
			s.InvalidateLibrary(id)
		}
	}
	return s.set(bucketSwitch, keySavedAt, time.Now().Unix())
}

// SavedAt reports when the switch was last saved.
func (s *SnapshotStore) SavedAt() (time.Time, bool) {
	var ts int64
	if !s.get(bucketSwitch, keySavedAt, &ts) {
		return time.Time{}, false
	}
	return time.Unix(ts, 0), true
}

// === Libraries ===

func (s *SnapshotStore) GetLibrary(id string) (domain.LibraryDTO, bool) {
	var lib domain.LibraryDTO
	ok := s.get(bucketLibraries, "lib:"+id, &lib)
	return lib, ok
}

func (s *SnapshotStore) SaveLibrary(lib domain.LibraryDTO) error {
	return s.set(bucketLibraries, "lib:"+lib.ID, lib)
}

// libraryIDs lists every cached library, in memory or on disk
func (s *SnapshotStore) libraryIDs() []string {
	const prefix = "lib:"
	seen := make(map[string]bool)

	memPrefix := string(bucketLibraries) + ":" + prefix
	s.mu.RLock()
	for k := range s.cache {
		if id, ok := strings.CutPrefix(k, memPrefix); ok {
			seen[id] = true
		}
	}
	s.mu.RUnlock()

	if s.db != nil {
		if err := s.db.View(func(tx *bolt.Tx) error {
			b := tx.Bucket(bucketLibraries)
			if b == nil {
				return nil
			}
			c := b.Cursor()
			for k, _ := c.Seek([]byte(prefix)); k != nil && bytes.HasPrefix(k, []byte(prefix)); k, _ = c.Next() {
				seen[string(k[len(prefix):])] = true
			}
			return nil
		}); err != nil {
			s.logger.Warn("failed to list cached libraries", "error", err)
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	return ids
}

// === Invalidation ===

func (s *SnapshotStore) InvalidateLibrary(id string) {
	s.delete(bucketLibraries, "lib:"+id)
}

func (s *SnapshotStore) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	s.persistMu.Lock()
	s.last = nil
	s.persistMu.Unlock()

	if s.db == nil {
		return
	}

	if err := s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketSwitch, bucketLibraries} {
			if tx.Bucket(bucket) != nil {
				if err := tx.DeleteBucket(bucket); err != nil {
					return err
				}
			}
			if _, err := tx.CreateBucket(bucket); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		s.logger.Warn("failed to clear cache", "error", err)
	}
}

// === State observer ===

// Persist saves the switch carried by snap when it differs from the last one
// written. Pass it to State.Subscribe. Snapshots taken before the backend
// first answered are skipped so an offline start never erases the cache.
func (s *SnapshotStore) Persist(snap domain.StateSnapshot) {
	if !snap.Loaded {
		return
	}
	data, err := json.Marshal(snap.Switch)
	if err != nil {
		s.logger.Error("failed to encode switch", "error", err)
		return
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if s.last != nil && bytes.Equal(s.last, data) {
		return
	}
	if err := s.SaveSwitch(snap.Switch); err != nil {
		s.logger.Error("failed to save switch", "error", err)
		return
	}
	s.last = data
	s.logger.Debug("saved switch snapshot", "libraries", len(snap.Libraries()))
}

var _ domain.SnapshotStore = (*SnapshotStore)(nil)
