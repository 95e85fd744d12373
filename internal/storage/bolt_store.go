package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samvad-hq/samvad-headlines/internal/domain"
	bolt "go.etcd.io/bbolt"
)

const historyBucket = "history"

// boltStore implements a Store backed by BoltDB. Values are JSON-encoded HistoryEntry records keyed by article id.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	ttl             time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(historyBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		ttl:             opts.TTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store, nil
}

func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

func (b *boltStore) WasSelected(id string) (bool, error) {
	if b == nil || b.db == nil {
		return false, nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return false, err
	}

	// Expired entries read as unselected; maybeCleanupExpired deletes them.
	var exists bool
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket, err := historyBucketOf(tx)
		if err != nil {
			return err
		}

		value := bucket.Get([]byte(id))
		if value == nil {
			return nil
		}

		entry, ok := decodeEntry(value)
		exists = ok && entry.ExpiresAt.After(now)
		return nil
	})
	return exists, err
}

func (b *boltStore) MarkSelected(article domain.Article, at time.Time) error {
	if b == nil || b.db == nil {
		return nil
	}
	if article.ID == "" {
		return fmt.Errorf("article id is empty")
	}

	if err := b.maybeCleanupExpired(b.now()); err != nil {
		return err
	}

	payload, err := json.Marshal(HistoryEntry{
		Article:    article,
		SelectedAt: at.UTC(),
		ExpiresAt:  at.Add(b.ttl).UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode history entry: %w", err)
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := historyBucketOf(tx)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(article.ID), payload)
	})
}

func (b *boltStore) History(limit int) ([]HistoryEntry, error) {
	if b == nil || b.db == nil {
		return nil, nil
	}

	now := b.now()
	var entries []HistoryEntry
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket, err := historyBucketOf(tx)
		if err != nil {
			return err
		}
		return bucket.ForEach(func(_, v []byte) error {
			if entry, ok := decodeEntry(v); ok && entry.ExpiresAt.After(now) {
				entries = append(entries, entry)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SelectedAt.After(entries[j].SelectedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// maybeCleanupExpired removes expired entries on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := historyBucketOf(tx)
		if err != nil {
			return err
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			entry, ok := decodeEntry(v)
			if !ok || !entry.ExpiresAt.After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func historyBucketOf(tx *bolt.Tx) (*bolt.Bucket, error) {
	bucket := tx.Bucket([]byte(historyBucket))
	if bucket == nil {
		return nil, fmt.Errorf("history bucket missing")
	}
	return bucket, nil
}

func decodeEntry(value []byte) (HistoryEntry, bool) {
	var entry HistoryEntry
	if err := json.Unmarshal(value, &entry); err != nil {
		return HistoryEntry{}, false
	}
	if entry.ExpiresAt.IsZero() {
		return HistoryEntry{}, false
	}
	return entry, true
}
