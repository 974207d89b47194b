package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// OTelExporter provides OpenTelemetry metrics export in Prometheus format
type OTelExporter struct {
	meterProvider *sdkmetric.MeterProvider
	collector     Collector

	meter             metric.Meter
	bufferGauge       metric.Int64ObservableGauge
	ingestedCounter   metric.Int64ObservableCounter
	subscribersGauge  metric.Int64ObservableGauge
	subscriptionGauge metric.Int64ObservableGauge
	deliveriesCounter metric.Int64ObservableCounter
}

// NewOTelExporter creates a new OpenTelemetry metrics exporter for the relay
func NewOTelExporter(collector Collector) (*OTelExporter, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	meter := meterProvider.Meter(
		"botpass-relay",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	oe := &OTelExporter{
		meterProvider: meterProvider,
		collector:     collector,
		meter:         meter,
	}

	if err := oe.registerInstruments(); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}

	return oe, nil
}

func (oe *OTelExporter) registerInstruments() error {
	var err error

	oe.bufferGauge, err = oe.meter.Int64ObservableGauge(
		"relay.buffer.size",
		metric.WithDescription("Number of messages held in the recent buffer"),
		metric.WithUnit("{messages}"),
		metric.WithInt64Callback(func(ctx context.Context, o metric.Int64Observer) error {
			snap, err := oe.collector.Collect(ctx)
			if err != nil {
				return err
			}
			o.Observe(snap.BufferSize)
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("creating buffer size gauge: %w", err)
	}

	oe.ingestedCounter, err = oe.meter.Int64ObservableCounter(
		"relay.messages.ingested",
		metric.WithDescription("Total messages ingested since process start"),
		metric.WithUnit("{messages}"),
		metric.WithInt64Callback(func(ctx context.Context, o metric.Int64Observer) error {
			snap, err := oe.collector.Collect(ctx)
			if err != nil {
				return err
			}
			o.Observe(snap.MessagesIngested)
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("creating ingested counter: %w", err)
	}

	oe.subscribersGauge, err = oe.meter.Int64ObservableGauge(
		"relay.realtime.subscribers",
		metric.WithDescription("Connected real-time subscribers"),
		metric.WithUnit("{subscribers}"),
		metric.WithInt64Callback(func(ctx context.Context, o metric.Int64Observer) error {
			snap, err := oe.collector.Collect(ctx)
			if err != nil {
				return err
			}
			o.Observe(snap.Subscribers)
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("creating subscribers gauge: %w", err)
	}

	oe.subscriptionGauge, err = oe.meter.Int64ObservableGauge(
		"relay.subscriptions.registered",
		metric.WithDescription("Registered outbound webhook subscriptions"),
		metric.WithUnit("{subscriptions}"),
		metric.WithInt64Callback(func(ctx context.Context, o metric.Int64Observer) error {
			snap, err := oe.collector.Collect(ctx)
			if err != nil {
				return err
			}
			o.Observe(snap.Subscriptions)
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("creating subscriptions gauge: %w", err)
	}

	oe.deliveriesCounter, err = oe.meter.Int64ObservableCounter(
		"relay.deliveries.attempts",
		metric.WithDescription("Outbound delivery attempts by outcome"),
		metric.WithUnit("{attempts}"),
		metric.WithInt64Callback(func(ctx context.Context, o metric.Int64Observer) error {
			snap, err := oe.collector.Collect(ctx)
			if err != nil {
				return err
			}
			o.Observe(snap.DeliveriesSucceeded, metric.WithAttributes(
				attribute.String("outcome", "success"),
			))
			o.Observe(snap.DeliveriesFailed, metric.WithAttributes(
				attribute.String("outcome", "failed"),
			))
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("creating deliveries counter: %w", err)
	}

	return nil
}

// Handler serves Prometheus-formatted metrics
func (oe *OTelExporter) Handler() http.Handler {
	return promhttp.Handler()
}

// Shutdown gracefully shuts down the meter provider
func (oe *OTelExporter) Shutdown(ctx context.Context) error {
	if oe.meterProvider != nil {
		return oe.meterProvider.Shutdown(ctx)
	}
	return nil
}
