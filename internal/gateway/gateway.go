package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-headlines/internal/domain"
	"github.com/samvad-hq/samvad-headlines/internal/logger"
	"github.com/samvad-hq/samvad-headlines/internal/metrics"
	"github.com/samvad-hq/samvad-headlines/pkg/newsapi"
)

// HeadlinesFetcher performs the upstream call.
type HeadlinesFetcher interface {
	Fetch(ctx context.Context, countryCode, apiKey string) (*newsapi.Envelope, error)
}

// CountryResolver supplies the country code for a request.
type CountryResolver interface {
	CountryCode() string
}

// Gateway is the error boundary of the headlines pipeline: callers only ever
// receive a slice or an error, never a panic from below.
type Gateway struct {
	client HeadlinesFetcher
	locale CountryResolver
	apiKey string
	log    logger.Logger
}

// New wires a gateway.
func New(client HeadlinesFetcher, locale CountryResolver, apiKey string, log logger.Logger) *Gateway {
	return &Gateway{
		client: client,
		locale: locale,
		apiKey: apiKey,
		log:    logger.Ensure(log),
	}
}

// TopHeadlines fetches and maps headlines for the resolved country, preserving upstream order.
// Client errors are returned unchanged so their message reaches the user verbatim.
func (g *Gateway) TopHeadlines(ctx context.Context) (articles []domain.Article, err error) {
	if g == nil || g.client == nil {
		return nil, fmt.Errorf("headlines gateway is not initialized")
	}

	country := g.country()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			articles = nil
			err = fmt.Errorf("headlines fetch panicked: %v", r)
			metrics.RecordFetch(country, metrics.OutcomeOther, time.Since(start), 0)
			g.log.ErrorObj("headlines fetch panicked", "headlines_error", map[string]any{
				"country": country,
				"panic":   fmt.Sprint(r),
			})
		}
	}()

	env, err := g.client.Fetch(ctx, country, g.apiKey)
	if err == nil && env == nil {
		err = &newsapi.ParseError{Err: errors.New("empty envelope")}
	}
	if err == nil && env.Status != newsapi.StatusOK {
		err = &newsapi.APIStatusError{Status: env.Status, Code: env.Code, Message: env.Message}
	}
	if err != nil {
		outcome := outcomeOf(err)
		metrics.RecordFetch(country, outcome, time.Since(start), 0)
		if outcome == metrics.OutcomeCancelled {
			g.log.DebugObj("headlines fetch cancelled", "headlines_error", map[string]any{
				"country":    country,
				"elapsed_ms": time.Since(start).Milliseconds(),
			})
			return nil, err
		}
		g.log.WarnObj("headlines fetch failed", "headlines_error", map[string]any{
			"country":    country,
			"error":      err.Error(),
			"elapsed_ms": time.Since(start).Milliseconds(),
		})
		return nil, err
	}

	articles = newsapi.ToDomainList(env.Articles)
	metrics.RecordFetch(country, metrics.OutcomeSuccess, time.Since(start), len(articles))
	g.log.InfoObj("headlines fetched", "headlines_result", map[string]any{
		"country":       country,
		"total_results": env.TotalResults,
		"articles":      len(articles),
		"elapsed_ms":    time.Since(start).Milliseconds(),
	})
	return articles, nil
}

func (g *Gateway) country() string {
	if g.locale == nil {
		return "us"
	}
	return g.locale.CountryCode()
}

func outcomeOf(err error) string {
	var (
		transportErr *newsapi.TransportError
		httpErr      *newsapi.HTTPError
		parseErr     *newsapi.ParseError
		statusErr    *newsapi.APIStatusError
	)
	switch {
	case errors.Is(err, context.Canceled):
		return metrics.OutcomeCancelled
	case errors.As(err, &transportErr):
		return metrics.OutcomeTransport
	case errors.As(err, &httpErr):
		return metrics.OutcomeHTTP
	case errors.As(err, &parseErr):
		return metrics.OutcomeParse
	case errors.As(err, &statusErr):
		return metrics.OutcomeAPIStatus
	default:
		return metrics.OutcomeOther
	}
}
