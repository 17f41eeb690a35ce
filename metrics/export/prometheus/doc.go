// Package prometheus renders eventauth engine metrics in the Prometheus
// text exposition format, without depending on the Prometheus client library.
//
// Counters and the Validate latency histogram come from
// Engine.MetricsSnapshot; audit backpressure drops are exported as
// eventauth_audit_dropped_total.
package prometheus
