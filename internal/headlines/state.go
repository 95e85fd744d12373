package headlines

import "github.com/samvad-hq/samvad-headlines/internal/domain"

// State is the sealed set of headline screen states: Loading, Success, Error.
type State interface {
	// Accept dispatches to the matching visitor method. Implementing
	// StateVisitor forces every variant to be handled.
	Accept(v StateVisitor)
	isState()
}

// StateVisitor handles every State variant.
type StateVisitor interface {
	VisitLoading(Loading)
	VisitSuccess(Success)
	VisitError(Error)
}

// Loading is the initial state and the state while a fetch is in flight.
type Loading struct{}

// Success holds a non-empty list of headlines.
type Success struct {
	Articles []domain.Article
}

// Error holds a message shown verbatim to the user.
type Error struct {
	Message string
}

func (s Loading) Accept(v StateVisitor) { v.VisitLoading(s) }
func (s Success) Accept(v StateVisitor) { v.VisitSuccess(s) }
func (s Error) Accept(v StateVisitor)   { v.VisitError(s) }

func (Loading) isState() {}
func (Success) isState() {}
func (Error) isState()   {}

// Match folds a state into a value, requiring a handler per variant.
func Match[T any](s State, onLoading func() T, onSuccess func([]domain.Article) T, onError func(string) T) T {
	m := &matcher[T]{onLoading: onLoading, onSuccess: onSuccess, onError: onError}
	s.Accept(m)
	return m.out
}

type matcher[T any] struct {
	onLoading func() T
	onSuccess func([]domain.Article) T
	onError   func(string) T
	out       T
}

func (m *matcher[T]) VisitLoading(Loading)   { m.out = m.onLoading() }
func (m *matcher[T]) VisitSuccess(s Success) { m.out = m.onSuccess(s.Articles) }
func (m *matcher[T]) VisitError(e Error)     { m.out = m.onError(e.Message) }

// StateName is a short label for logs.
func StateName(s State) string {
	return Match(s,
		func() string { return "loading" },
		func([]domain.Article) string { return "success" },
		func(string) string { return "error" },
	)
}
