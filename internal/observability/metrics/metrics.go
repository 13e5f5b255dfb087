package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes billing-engine instruments.
type Metrics struct {
	readings       metric.Int64Counter
	bills          metric.Int64Counter
	payments       metric.Int64Counter
	cascadeDeletes metric.Int64Counter
	conflicts      metric.Int64Counter
	storeFailures  metric.Int64Counter
	loginAttempts  metric.Int64Counter
	scheduledRuns  metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				log.Info("shutting down meter provider")
				return provider.Shutdown(ctx)
			},
		})
	}

	log.Info("metrics initialized",
		zap.String("endpoint", cfg.ExporterEndpoint),
		zap.String("protocol", cfg.ExporterProtocol),
	)
	return provider, nil
}

// New creates the domain instruments on the given provider.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "utilitydesk"
	}
	meter := provider.Meter(name)

	m := &Metrics{}
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.readings, "utilitydesk_readings_submitted_total", "Meter readings accepted"},
		{&m.bills, "utilitydesk_bills_generated_total", "Bills generated"},
		{&m.payments, "utilitydesk_payments_recorded_total", "Payments recorded"},
		{&m.cascadeDeletes, "utilitydesk_cascade_deletes_total", "Cascading deletes committed"},
		{&m.conflicts, "utilitydesk_conflicts_total", "Engine commands rejected with a conflict"},
		{&m.storeFailures, "utilitydesk_store_failures_total", "Units of work that failed in the store"},
		{&m.loginAttempts, "utilitydesk_login_attempts_total", "Staff login attempts"},
		{&m.scheduledRuns, "utilitydesk_scheduled_bill_runs_total", "Scheduled bill runs per outcome"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, err
		}
		*c.dst = counter
	}
	return m, nil
}

func (m *Metrics) RecordReading(ctx context.Context) {
	if m == nil {
		return
	}
	m.readings.Add(ctx, 1)
}

func (m *Metrics) RecordBill(ctx context.Context, formula string) {
	if m == nil {
		return
	}
	m.bills.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("formula", formula))...))
}

// RecordPayment counts payments by method and whether they settled the bill.
func (m *Metrics) RecordPayment(ctx context.Context, method string, settled bool) {
	if m == nil {
		return
	}
	outcome := "partial"
	if settled {
		outcome = "settled"
	}
	m.payments.Add(ctx, 1, metric.WithAttributes(FilterAttributes(
		attribute.String("method", strings.ToLower(strings.TrimSpace(method))),
		attribute.String("outcome", outcome),
	)...))
}

func (m *Metrics) RecordCascadeDelete(ctx context.Context, target string) {
	if m == nil {
		return
	}
	m.cascadeDeletes.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("target", target))...))
}

func (m *Metrics) RecordConflict(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.conflicts.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("reason", reason))...))
}

func (m *Metrics) RecordStoreFailure(ctx context.Context, operation string) {
	if m == nil {
		return
	}
	m.storeFailures.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("operation", operation))...))
}

func (m *Metrics) RecordLogin(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.loginAttempts.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("outcome", outcome))...))
}

func (m *Metrics) RecordScheduledRun(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.scheduledRuns.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("outcome", outcome))...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"formula":     {},
	"method":      {},
	"outcome":     {},
	"target":      {},
	"reason":      {},
	"operation":   {},
	"route":       {},
	"status_code": {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
