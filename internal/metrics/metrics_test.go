package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordTurn(t *testing.T) {
	TurnsTotal.Reset()

	RecordTurn(OutcomeDelivered)
	RecordTurn(OutcomeDelivered)
	RecordTurn(OutcomeQuotaExceeded)

	if got := testutil.ToFloat64(TurnsTotal.WithLabelValues(OutcomeDelivered)); got != 2 {
		t.Errorf("Expected delivered counter to be 2, got %f", got)
	}
	if got := testutil.ToFloat64(TurnsTotal.WithLabelValues(OutcomeQuotaExceeded)); got != 1 {
		t.Errorf("Expected quota counter to be 1, got %f", got)
	}
}

func TestSetCatalogSize(t *testing.T) {
	SetCatalogSize(12)
	if got := testutil.ToFloat64(CatalogVoices); got != 12 {
		t.Errorf("Expected gauge to be 12, got %f", got)
	}
}

func TestRouter(t *testing.T) {
	RecordAdminAction("stats")
	r := Router()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Fatalf("unexpected health response: %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected metrics status: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "voicebot_admin_actions_total") {
		t.Fatalf("metrics output misses admin counter")
	}
}
