package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/jpalmerr/olevel/internal/records"
)

func TestObserveChange(t *testing.T) {
	m := New()
	m.ObserveChange(records.Change{Op: records.OpLoad, Count: 3})
	m.ObserveChange(records.Change{Op: records.OpRegister, Count: 4})
	m.ObserveChange(records.Change{Op: records.OpRegister, Count: 5})
	m.ObserveChange(records.Change{Op: records.OpDelete, Count: 4})

	if got := testutil.ToFloat64(m.changes.WithLabelValues(records.OpRegister)); got != 2 {
		t.Errorf("register changes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.changes.WithLabelValues(records.OpLoad)); got != 0 {
		t.Errorf("load should not count as a change, got %v", got)
	}
	if got := testutil.ToFloat64(m.students); got != 4 {
		t.Errorf("students gauge = %v, want 4", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveRequest("GET /api/students", http.StatusOK, 15*time.Millisecond)
	m.ObserveRejection("duplicate_id")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		`olevel_http_requests_total{code="200",route="GET /api/students"} 1`,
		`olevel_validation_rejections_total{reason="duplicate_id"} 1`,
		"olevel_http_request_duration_seconds_bucket",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
