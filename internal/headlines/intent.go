package headlines

import "github.com/samvad-hq/samvad-headlines/internal/domain"

// Intent is a user action accepted by the Machine.
type Intent interface {
	isIntent()
}

// LoadOrRefresh loads headlines, replacing whatever is shown.
type LoadOrRefresh struct{}

// RetryLoad is issued after an error; it behaves like LoadOrRefresh.
type RetryLoad struct{}

// ArticleSelected forwards an article to the navigator without changing state.
type ArticleSelected struct {
	Article domain.Article
}

func (LoadOrRefresh) isIntent()   {}
func (RetryLoad) isIntent()       {}
func (ArticleSelected) isIntent() {}

func intentName(i Intent) string {
	switch i.(type) {
	case LoadOrRefresh:
		return "load_or_refresh"
	case RetryLoad:
		return "retry_load"
	case ArticleSelected:
		return "article_selected"
	default:
		return "unknown"
	}
}
