package otelx

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/md-rashed-zaman/courtbook/libs/config"
)

type Config struct {
	Enabled      bool
	ServiceName  string
	Environment  string
	OTLPEndpoint string // host:port, e.g. otel-collector:4317
	Insecure     bool
	SampleRatio  float64
}

type envConfig struct {
	Enabled     string `envconfig:"OTEL_ENABLED" default:"true"`
	Endpoint    string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"otel-collector:4317"`
	Insecure    string `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"true"`
	SampleRatio string `envconfig:"OTEL_SAMPLING_RATIO" default:"1"`
	Environment string `envconfig:"DEPLOY_ENV" default:"local"`
}

// ConfigFromEnv reads the OTEL_* variables. Malformed values fall back to the defaults
// so tracing problems never keep the service from starting.
func ConfigFromEnv(serviceName string) Config {
	var env envConfig
	// Every field is a string, so Process cannot fail on a malformed value.
	_ = config.Process("", &env)

	enabled := true
	if v := strings.TrimSpace(env.Enabled); v != "" {
		enabled = v != "false" && v != "0"
	}

	sampleRatio := 1.0
	if f, err := strconv.ParseFloat(strings.TrimSpace(env.SampleRatio), 64); err == nil && f >= 0 && f <= 1 {
		sampleRatio = f
	}

	return Config{
		Enabled:      enabled,
		ServiceName:  serviceName,
		Environment:  strings.TrimSpace(env.Environment),
		OTLPEndpoint: strings.TrimSpace(env.Endpoint),
		Insecure:     config.IsTruthy(env.Insecure),
		SampleRatio:  sampleRatio,
	}
}

// Setup configures a global tracer provider + propagators.
// Call the returned shutdown func during graceful shutdown.
func Setup(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithTimeout(3 * time.Second),
	}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exp, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// Tracer returns a named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
