package publishers

import (
	"time"

	"github.com/samvad-hq/samvad-headlines/internal/domain"
)

// KindArticleSelected marks an event emitted when a reader opens a headline.
const KindArticleSelected = "article_selected"

// Event represents the payload published downstream.
type Event struct {
	Kind       string         `json:"kind"`
	Country    string         `json:"country"`
	Article    domain.Article `json:"article"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// NewSelectionEvent constructs an Event for an article opened by the reader.
func NewSelectionEvent(country string, article domain.Article) Event {
	return Event{
		Kind:       KindArticleSelected,
		Country:    country,
		Article:    article,
		OccurredAt: time.Now().UTC(),
	}
}

// attributes are copied into transport-level message attributes.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"kind":       e.Kind,
		"country":    e.Country,
		"article_id": e.Article.ID,
	}
}
