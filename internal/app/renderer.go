package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/samvad-hq/samvad-headlines/internal/headlines"
	"github.com/samvad-hq/samvad-headlines/internal/navigation"
	"github.com/samvad-hq/samvad-headlines/internal/storage"
)

// ReadChecker reports whether an article was already opened.
type ReadChecker interface {
	WasSelected(id string) (bool, error)
}

// Renderer prints headline states as plain text.
type Renderer struct {
	out       io.Writer
	read      ReadChecker
	errorHint string
}

// NewRenderer returns a renderer writing to out. read may be nil.
func NewRenderer(out io.Writer, read ReadChecker) *Renderer {
	return &Renderer{out: out, read: read}
}

// SetErrorHint sets the line printed under an error, telling the user how
// to recover in the current mode. Empty prints nothing.
func (r *Renderer) SetErrorHint(hint string) {
	r.errorHint = hint
}

// Render writes one state.
func (r *Renderer) Render(s headlines.State) error {
	v := &textVisitor{read: r.read, hint: r.errorHint}
	s.Accept(v)
	_, err := io.WriteString(r.out, v.b.String())
	return err
}

// RenderHistory lists read articles, newest first.
func (r *Renderer) RenderHistory(entries []storage.HistoryEntry) error {
	var b strings.Builder
	if len(entries) == 0 {
		b.WriteString("No articles read yet\n")
	}
	for _, e := range entries {
		fmt.Fprintf(&b, "%s  %s (%s)\n    %s\n",
			e.SelectedAt.Local().Format("2006-01-02 15:04"), e.Article.Title, e.Article.SourceName, e.Article.URL)
	}
	_, err := io.WriteString(r.out, b.String())
	return err
}

type textVisitor struct {
	read ReadChecker
	hint string
	b    strings.Builder
}

func (v *textVisitor) VisitLoading(headlines.Loading) {
	v.b.WriteString("Loading top headlines...\n")
}

func (v *textVisitor) VisitSuccess(s headlines.Success) {
	for i, a := range s.Articles {
		mark := " "
		if v.isRead(a.ID) {
			mark = "✓"
		}
		fmt.Fprintf(&v.b, "%2d. %s %s\n", i+1, mark, a.Title)
		fmt.Fprintf(&v.b, "      %s | %s\n", a.SourceName, navigation.FormatDate(a.PublishedAt))
	}
}

func (v *textVisitor) VisitError(e headlines.Error) {
	fmt.Fprintf(&v.b, "Error: %s\n", e.Message)
	if v.hint != "" {
		fmt.Fprintf(&v.b, "%s\n", v.hint)
	}
}

func (v *textVisitor) isRead(id string) bool {
	if v.read == nil {
		return false
	}
	seen, err := v.read.WasSelected(id)
	return err == nil && seen
}
