package headlines

import (
	"context"
	"strings"
	"sync"

	"github.com/samvad-hq/samvad-headlines/internal/domain"
	"github.com/samvad-hq/samvad-headlines/internal/logger"
)

// HeadlinesLoader is the use case driven by load intents.
type HeadlinesLoader interface {
	Invoke(ctx context.Context) ([]domain.Article, error)
}

// Navigator receives selected articles.
type Navigator interface {
	Open(ctx context.Context, article domain.Article) error
}

// Machine holds the current State and reduces intents into new states.
//
// Each load runs on its own goroutine under a context derived from the
// dispatching one. A newer load cancels the previous one and a superseded
// load never writes state, so the last issued load wins.
type Machine struct {
	loader HeadlinesLoader
	nav    Navigator
	log    logger.Logger

	mu       sync.Mutex
	idle     *sync.Cond
	state    State
	subs     map[uint64]chan State
	nextSub  uint64
	gen      uint64
	cancel   context.CancelFunc
	inflight int
	closed   bool
}

// NewMachine returns a machine in the Loading state. No fetch starts until
// a LoadOrRefresh or RetryLoad intent is dispatched.
func NewMachine(loader HeadlinesLoader, nav Navigator, log logger.Logger) *Machine {
	m := &Machine{
		loader: loader,
		nav:    nav,
		log:    logger.Ensure(log),
		state:  Loading{},
		subs:   make(map[uint64]chan State),
	}
	m.idle = sync.NewCond(&m.mu)
	return m
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe returns a channel seeded with the current state. The channel is
// conflating: a slow reader only ever sees the latest state. The returned
// func unsubscribes and closes the channel.
func (m *Machine) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		ch <- m.state
		close(ch)
		return ch, func() {}
	}

	id := m.nextSub
	m.nextSub++
	ch <- m.state
	m.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if sub, ok := m.subs[id]; ok {
				delete(m.subs, id)
				close(sub)
			}
		})
	}
}

// Dispatch reduces an intent. Load intents set Loading before returning and
// complete asynchronously.
func (m *Machine) Dispatch(ctx context.Context, intent Intent) {
	if ctx == nil {
		ctx = context.Background()
	}
	m.log.DebugObj("processing intent", "intent", intentName(intent))

	switch it := intent.(type) {
	case LoadOrRefresh, RetryLoad:
		m.load(ctx)
	case ArticleSelected:
		m.open(ctx, it.Article)
	}
}

// Wait blocks until no load is in flight.
func (m *Machine) Wait() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for m.inflight > 0 {
		m.idle.Wait()
	}
}

// Close cancels any in-flight load, waits for it and closes all subscriptions.
func (m *Machine) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	for id, ch := range m.subs {
		delete(m.subs, id)
		close(ch)
	}
	m.mu.Unlock()

	m.Wait()
}

func (m *Machine) load(ctx context.Context) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	if m.cancel != nil {
		m.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	m.gen++
	gen := m.gen
	m.cancel = cancel
	m.inflight++
	m.setLocked(Loading{})
	m.mu.Unlock()

	go func() {
		defer cancel()

		articles, err := m.loader.Invoke(loadCtx)
		next := reduce(articles, err)

		m.mu.Lock()
		defer m.mu.Unlock()
		defer m.finishLocked()

		if gen != m.gen || m.closed {
			m.log.DebugObj("discarding superseded headlines load", "load_generation", gen)
			return
		}
		m.cancel = nil
		if err != nil {
			m.log.ErrorObj("failed to load top headlines", "error", err.Error())
		} else {
			m.log.DebugObj("loaded top headlines", "articles_count", len(articles))
		}
		m.setLocked(next)
	}()
}

func (m *Machine) finishLocked() {
	m.inflight--
	if m.inflight == 0 {
		m.idle.Broadcast()
	}
}

func (m *Machine) open(ctx context.Context, article domain.Article) {
	if m.nav == nil {
		return
	}
	if err := m.nav.Open(ctx, article); err != nil {
		m.log.WarnObj("article navigation failed", "navigation_error", map[string]any{
			"article_id": article.ID,
			"error":      err.Error(),
		})
	}
}

// setLocked replaces the state and pushes it to every subscriber.
func (m *Machine) setLocked(s State) {
	m.state = s
	for _, ch := range m.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
}

// reduce maps one use-case result to exactly one state.
func reduce(articles []domain.Article, err error) State {
	if err != nil {
		msg := err.Error()
		if strings.TrimSpace(msg) == "" {
			msg = msgFallback
		}
		return Error{Message: msg}
	}
	if len(articles) == 0 {
		return Error{Message: (&EmptyResultError{}).Error()}
	}
	out := make([]domain.Article, len(articles))
	copy(out, articles)
	return Success{Articles: out}
}
