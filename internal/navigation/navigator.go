package navigation

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-headlines/internal/domain"
	"github.com/samvad-hq/samvad-headlines/internal/logger"
	"github.com/samvad-hq/samvad-headlines/internal/metrics"
	"github.com/samvad-hq/samvad-headlines/internal/storage"
	"github.com/samvad-hq/samvad-headlines/pkg/publishers"
)

// EventPublisher fans a selection event out to downstream sinks.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
	Size() int
}

// Enricher fills missing article fields from the article page.
type Enricher interface {
	Enrich(ctx context.Context, article domain.Article) (domain.Article, error)
}

// Options wires a Navigator. Only Out is required.
type Options struct {
	Store     storage.Store
	Publisher EventPublisher
	Preview   Enricher
	Country   func() string
	Out       io.Writer
	Log       logger.Logger
}

// Navigator opens a selected article: it records the read, announces it
// once per retention window and renders the detail view.
type Navigator struct {
	store   storage.Store
	pub     EventPublisher
	preview Enricher
	country func() string
	out     io.Writer
	log     logger.Logger
	now     func() time.Time
}

// New constructs a Navigator.
func New(opts Options) *Navigator {
	n := &Navigator{
		store:   opts.Store,
		pub:     opts.Publisher,
		preview: opts.Preview,
		country: opts.Country,
		out:     opts.Out,
		log:     logger.Ensure(opts.Log),
		now:     time.Now,
	}
	if n.out == nil {
		n.out = io.Discard
	}
	if n.country == nil {
		n.country = func() string { return "" }
	}
	return n
}

// Open handles one selection. Bookkeeping failures are logged; only a
// failure to render the detail is returned.
func (n *Navigator) Open(ctx context.Context, article domain.Article) error {
	if n.firstSelection(article) {
		n.announce(ctx, article)
	}

	if n.preview != nil {
		enriched, err := n.preview.Enrich(ctx, article)
		if err != nil {
			n.log.WarnObj("article preview failed", "preview_error", map[string]any{
				"article_id": article.ID,
				"url":        article.URL,
				"error":      err.Error(),
			})
		} else {
			article = enriched
		}
	}

	if err := RenderDetail(n.out, article); err != nil {
		return fmt.Errorf("render article detail: %w", err)
	}
	return nil
}

// firstSelection records the article and reports whether it was unread.
func (n *Navigator) firstSelection(article domain.Article) bool {
	if n.store == nil {
		return true
	}
	seen, err := n.store.WasSelected(article.ID)
	if err != nil {
		n.log.WarnObj("history lookup failed", "history_error", map[string]any{
			"article_id": article.ID,
			"error":      err.Error(),
		})
	}
	if seen {
		n.log.DebugObj("article already read, skipping selection event", "article_id", article.ID)
		return false
	}
	if err := n.store.MarkSelected(article, n.now()); err != nil {
		n.log.WarnObj("history write failed", "history_error", map[string]any{
			"article_id": article.ID,
			"error":      err.Error(),
		})
	}
	return true
}

func (n *Navigator) announce(ctx context.Context, article domain.Article) {
	if n.pub == nil || n.pub.Size() == 0 {
		return
	}
	evt := publishers.NewSelectionEvent(n.country(), article)
	delivered, err := n.pub.Publish(ctx, evt)
	metrics.RecordSelectionPublished(err == nil)
	if err != nil {
		n.log.ErrorObj("selection event publish failed", "publish_result", map[string]any{
			"article_id": article.ID,
			"delivered":  delivered,
			"total":      n.pub.Size(),
			"error":      err.Error(),
		})
		return
	}
	n.log.InfoObj("selection event published", "publish_result", map[string]any{
		"article_id": article.ID,
		"delivered":  delivered,
	})
}

// RenderDetail writes the article detail view.
func RenderDetail(w io.Writer, a domain.Article) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s • %s\n\n", a.SourceName, FormatDate(a.PublishedAt))
	fmt.Fprintf(&b, "%s\n", a.Title)
	if a.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", a.Description)
	}
	if a.ImageURL != "" {
		fmt.Fprintf(&b, "\nImage: %s\n", a.ImageURL)
	}
	fmt.Fprintf(&b, "\n%s\n", a.URL)
	_, err := io.WriteString(w, b.String())
	return err
}

// FormatDate keeps the calendar date of an ISO-8601 timestamp. Values
// without a time part are returned unchanged.
func FormatDate(iso string) string {
	if day, _, ok := strings.Cut(iso, "T"); ok {
		return day
	}
	return iso
}
