package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("method", "cash"),
		attribute.String("customer_id", "CUST-100"),
		attribute.String("outcome", "settled"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	for _, attr := range attrs {
		if attr.Key == "customer_id" {
			t.Fatalf("customer_id must not be used as a metric label")
		}
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.RecordReading(context.Background())
	m.RecordPayment(context.Background(), "cash", true)
	m.RecordConflict(context.Background(), "duplicate_bill")
}

func TestNewWithNoopProvider(t *testing.T) {
	m, err := New(Config{ServiceName: "utilitydesk"}, noop.NewMeterProvider())
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}
	m.RecordBill(context.Background(), "reading_value")
	m.RecordCascadeDelete(context.Background(), "customer")
}

func TestHTTPMiddlewareCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m, err := NewHTTPMetrics(reg)
	if err != nil {
		t.Fatalf("register http metrics: %v", err)
	}

	r := gin.New()
	r.Use(GinMiddleware(m))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	}

	got := testutil.ToFloat64(m.requests.WithLabelValues("/health", http.MethodGet, "200"))
	if got != 3 {
		t.Fatalf("expected 3 requests, got %v", got)
	}
}
