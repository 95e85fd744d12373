package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-headlines/internal/domain"
)

// Package storage keeps the local read history of selected articles.

// HistoryEntry is one recorded selection.
type HistoryEntry struct {
	Article    domain.Article `json:"article"`
	SelectedAt time.Time      `json:"selected_at"`
	ExpiresAt  time.Time      `json:"expires_at"`
}

// Store records selected articles with a retention TTL.
type Store interface {
	Close() error
	// WasSelected reports whether id was recorded and has not expired.
	WasSelected(id string) (bool, error)
	// MarkSelected records article as selected at the given time.
	MarkSelected(article domain.Article, at time.Time) error
	// History lists unexpired entries, newest first, up to limit (0 = all).
	History(limit int) ([]HistoryEntry, error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

const (
	defaultTTL             = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                                 { return nil }
func (noopStore) WasSelected(string) (bool, error)             { return false, nil }
func (noopStore) MarkSelected(domain.Article, time.Time) error { return nil }
func (noopStore) History(int) ([]HistoryEntry, error)          { return nil, nil }
