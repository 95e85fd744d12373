package newsapi

import (
	"crypto/sha1" //nolint:gosec // non-cryptographic id generation
	"encoding/hex"

	"github.com/samvad-hq/samvad-headlines/internal/domain"
)

// StableID derives the list key of an article from its URL.
// Equal URLs always produce equal ids; collisions are not guarded against.
func StableID(url string) string {
	sum := sha1.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

// ToDomain converts one upstream record into a domain article.
func ToDomain(raw Article) domain.Article {
	return domain.Article{
		ID:          StableID(raw.URL),
		Title:       raw.Title,
		Description: deref(raw.Description),
		ImageURL:    deref(raw.URLToImage),
		URL:         raw.URL,
		PublishedAt: raw.PublishedAt,
		SourceName:  raw.Source.Name,
	}
}

// ToDomainList maps records 1:1, preserving order.
func ToDomainList(raw []Article) []domain.Article {
	out := make([]domain.Article, len(raw))
	for i := range raw {
		out[i] = ToDomain(raw[i])
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
