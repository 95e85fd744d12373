package navigation

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/samvad-hq/samvad-headlines/internal/domain"
	"github.com/samvad-hq/samvad-headlines/internal/metrics"
	"github.com/samvad-hq/samvad-headlines/internal/storage"
	"github.com/samvad-hq/samvad-headlines/pkg/publishers"
)

type fakePublisher struct {
	events []publishers.Event
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, evt publishers.Event) (int, error) {
	f.events = append(f.events, evt)
	if f.err != nil {
		return 0, f.err
	}
	return 1, nil
}

func (f *fakePublisher) Size() int { return 1 }

type fakeEnricher struct {
	err error
}

func (f fakeEnricher) Enrich(_ context.Context, a domain.Article) (domain.Article, error) {
	if f.err != nil {
		return a, f.err
	}
	a.Description = "From the page"
	return a, nil
}

var article = domain.Article{
	ID:          "c988935235fdecd2804f8f3d1c5386f8f580ae18",
	Title:       "Markets rally",
	URL:         "https://x/1",
	SourceName:  "Wire",
	PublishedAt: "2025-12-21T21:22:27Z",
}

func openStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := storage.NewStore("bbolt", filepath.Join(t.TempDir(), "history.db"), storage.Options{TTL: time.Hour})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenPublishesOncePerRetentionWindow(t *testing.T) {
	store := openStore(t)
	pub := &fakePublisher{}
	var out bytes.Buffer
	nav := New(Options{Store: store, Publisher: pub, Country: func() string { return "us" }, Out: &out})

	for i := 0; i < 2; i++ {
		if err := nav.Open(context.Background(), article); err != nil {
			t.Fatalf("Open: %v", err)
		}
	}

	if len(pub.events) != 1 {
		t.Fatalf("expected one event, got %d", len(pub.events))
	}
	evt := pub.events[0]
	if evt.Kind != publishers.KindArticleSelected || evt.Country != "us" || evt.Article.ID != article.ID {
		t.Fatalf("unexpected event %+v", evt)
	}
	if seen, _ := store.WasSelected(article.ID); !seen {
		t.Fatalf("selection not recorded")
	}
	if strings.Count(out.String(), "Markets rally") != 2 {
		t.Fatalf("detail should render on every open: %q", out.String())
	}
}

func TestOpenPublishFailureIsNotReturned(t *testing.T) {
	before := testutil.ToFloat64(metrics.SelectionsPublishedTotal.WithLabelValues("failure"))
	nav := New(Options{Publisher: &fakePublisher{err: errors.New("queue down")}})

	if err := nav.Open(context.Background(), article); err != nil {
		t.Fatalf("publish failure leaked: %v", err)
	}
	if got := testutil.ToFloat64(metrics.SelectionsPublishedTotal.WithLabelValues("failure")); got != before+1 {
		t.Fatalf("failure metric = %v, want %v", got, before+1)
	}
}

func TestOpenUsesPreviewWhenAvailable(t *testing.T) {
	var out bytes.Buffer
	nav := New(Options{Preview: fakeEnricher{}, Out: &out})
	if err := nav.Open(context.Background(), article); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !strings.Contains(out.String(), "From the page") {
		t.Fatalf("preview not rendered: %q", out.String())
	}

	out.Reset()
	nav = New(Options{Preview: fakeEnricher{err: errors.New("timeout")}, Out: &out})
	if err := nav.Open(context.Background(), article); err != nil {
		t.Fatalf("preview failure leaked: %v", err)
	}
	if !strings.Contains(out.String(), "Markets rally") {
		t.Fatalf("detail missing after preview failure")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestOpenReturnsRenderError(t *testing.T) {
	nav := New(Options{Out: failingWriter{}})
	if err := nav.Open(context.Background(), article); err == nil || !strings.Contains(err.Error(), "closed pipe") {
		t.Fatalf("expected render error, got %v", err)
	}
}

func TestRenderDetail(t *testing.T) {
	var out bytes.Buffer
	a := article
	a.Description = "Stocks up"
	if err := RenderDetail(&out, a); err != nil {
		t.Fatalf("RenderDetail: %v", err)
	}
	want := "Wire • 2025-12-21\n\nMarkets rally\n\nStocks up\n\nhttps://x/1\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestFormatDate(t *testing.T) {
	cases := map[string]string{
		"2025-12-21T21:22:27Z": "2025-12-21",
		"2025-12-21":           "2025-12-21",
		"":                     "",
	}
	for in, want := range cases {
		if got := FormatDate(in); got != want {
			t.Errorf("FormatDate(%q) = %q, want %q", in, got, want)
		}
	}
}
