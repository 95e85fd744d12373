package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordFetchCountsArticlesOnSuccessOnly(t *testing.T) {
	beforeOK := testutil.ToFloat64(HeadlinesFetchTotal.WithLabelValues("gb", OutcomeSuccess))
	beforeArticles := testutil.ToFloat64(ArticlesFetchedTotal.WithLabelValues("gb"))

	RecordFetch("gb", OutcomeSuccess, 10*time.Millisecond, 4)
	RecordFetch("gb", OutcomeParse, time.Millisecond, 9)

	if got := testutil.ToFloat64(HeadlinesFetchTotal.WithLabelValues("gb", OutcomeSuccess)) - beforeOK; got != 1 {
		t.Fatalf("success count delta = %v", got)
	}
	if got := testutil.ToFloat64(ArticlesFetchedTotal.WithLabelValues("gb")) - beforeArticles; got != 4 {
		t.Fatalf("articles delta = %v", got)
	}
}

func TestRecordSelectionPublished(t *testing.T) {
	before := testutil.ToFloat64(SelectionsPublishedTotal.WithLabelValues("failure"))
	RecordSelectionPublished(false)
	if got := testutil.ToFloat64(SelectionsPublishedTotal.WithLabelValues("failure")) - before; got != 1 {
		t.Fatalf("failure delta = %v", got)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	RecordFetch("us", OutcomeSuccess, time.Millisecond, 1)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "headlines_fetch_total") {
		t.Fatalf("metrics output missing headlines_fetch_total")
	}
}
