// Package otel bridges eventauth engine metrics into an OpenTelemetry meter
// using observable instruments: the exporter registers one callback that
// reads Engine.MetricsSnapshot on every collection cycle, so the engine hot
// paths stay free of OTel calls.
package otel
