package internaldefs

import (
	eventauth "github.com/eventra/eventauth"
)

// CounterDef maps one engine counter to its exported name.
type CounterDef struct {
	ID   eventauth.MetricID
	Name string
	Help string
}

// HistogramDef maps one engine histogram to its exported name.
type HistogramDef struct {
	ID   eventauth.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in a stable order.
var CounterDefs = []CounterDef{
	{ID: eventauth.MetricLoginSuccess, Name: "eventauth_login_success_total", Help: "Issued login tokens."},
	{ID: eventauth.MetricLoginFailure, Name: "eventauth_login_failure_total", Help: "Rejected login attempts."},
	{ID: eventauth.MetricLoginRateLimited, Name: "eventauth_login_rate_limited_total", Help: "Rate-limited login attempts."},
	{ID: eventauth.MetricValidateSuccess, Name: "eventauth_validate_success_total", Help: "Tokens accepted by Validate."},
	{ID: eventauth.MetricValidateRejected, Name: "eventauth_validate_rejected_total", Help: "Tokens rejected by Validate."},
	{ID: eventauth.MetricValidateRevokedHit, Name: "eventauth_validate_revoked_hit_total", Help: "Rejections caused by the revocation denylist."},
	{ID: eventauth.MetricRefreshSuccess, Name: "eventauth_refresh_success_total", Help: "Completed token rotations."},
	{ID: eventauth.MetricRefreshFailure, Name: "eventauth_refresh_failure_total", Help: "Rejected refresh attempts."},
	{ID: eventauth.MetricRefreshRateLimited, Name: "eventauth_refresh_rate_limited_total", Help: "Rate-limited refresh attempts."},
	{ID: eventauth.MetricRefreshRaceLost, Name: "eventauth_refresh_race_lost_total", Help: "Refresh attempts that lost the rotation race."},
	{ID: eventauth.MetricLogout, Name: "eventauth_logout_total", Help: "Logout revocations."},
}

// HistogramDefs lists every exported histogram in a stable order.
var HistogramDefs = []HistogramDef{
	{ID: eventauth.MetricValidateLatency, Name: "eventauth_validate_latency_seconds", Help: "Validate latency histogram."},
}

// HistogramBounds are the upper bucket bounds in seconds.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix are the bound labels rendered into OTel gauge names.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets widens a snapshot slice to the fixed bucket array.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into cumulative counts.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
