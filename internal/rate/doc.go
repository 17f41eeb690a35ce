// Package rate provides Redis-backed fixed-window counters that throttle
// login and refresh traffic for the eventauth engine.
//
// # Window semantics
//
// Fixed-window counters: INCR + conditional EXPIRE on first hit. Key prefixes:
//   - ea:l:  — login per-IP
//   - ea:r:  — refresh per-user
//
// # What this package must NOT do
//
//   - Decide which operations are throttled (the engine owns policy).
//   - Be imported outside the eventauth module.
package rate
