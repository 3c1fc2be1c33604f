// Package tracing 提供 OpenTelemetry 链路追踪
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const defaultServiceName = "hotel-frontdesk"

// Config 追踪配置
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Endpoint       string // OTLP gRPC 地址，为空时输出到 stdout
	SampleRate     float64
	Enabled        bool
}

// Tracer 追踪器
type Tracer struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

var defaultTracer *Tracer

func noopTracer(name string) *Tracer {
	return &Tracer{tracer: noop.NewTracerProvider().Tracer(name)}
}

// Init 初始化全局追踪器，未启用时使用空操作实现
func Init(cfg *Config) (*Tracer, error) {
	if cfg == nil || !cfg.Enabled {
		defaultTracer = noopTracer(defaultServiceName)
		return defaultTracer, nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			attribute.String("environment", cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("创建资源失败: %w", err)
	}

	exporter, err := newExporter(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(newSampler(cfg.SampleRate)),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	defaultTracer = &Tracer{provider: provider, tracer: provider.Tracer(cfg.ServiceName)}
	return defaultTracer, nil
}

func newExporter(endpoint string) (sdktrace.SpanExporter, error) {
	if endpoint == "" {
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("创建 stdout 导出器失败: %w", err)
		}
		return exporter, nil
	}

	client := otlptracegrpc.NewClient(
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	exporter, err := otlptrace.New(context.Background(), client)
	if err != nil {
		return nil, fmt.Errorf("创建 OTLP 导出器失败: %w", err)
	}
	return exporter, nil
}

func newSampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1:
		return sdktrace.AlwaysSample()
	case rate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))
	}
}

// GetTracer 获取全局追踪器
func GetTracer() *Tracer {
	if defaultTracer == nil {
		return noopTracer(defaultServiceName)
	}
	return defaultTracer
}

// Shutdown 刷新并关闭导出器
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

// StartSpan 开始一个带属性的 span
func (t *Tracer) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// SetError 记录错误并将当前 span 标记为失败
func SetError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetAttributes 设置当前 span 属性
func SetAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).SetAttributes(attrs...)
}

// 领域属性
func WithRoomID(id int64) attribute.KeyValue          { return attribute.Int64("room.id", id) }
func WithGuestID(id int64) attribute.KeyValue         { return attribute.Int64("guest.id", id) }
func WithReservationID(id int64) attribute.KeyValue   { return attribute.Int64("reservation.id", id) }
func WithRoomStatus(status string) attribute.KeyValue { return attribute.String("room.status", status) }
func WithOperation(op string) attribute.KeyValue      { return attribute.String("operation", op) }
