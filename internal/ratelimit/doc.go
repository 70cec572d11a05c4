// Package ratelimit paces bulk submissions using the rate-limit headers the
// PyBossa server returns.
//
// Before each submission the Pacer probes the target endpoint with a
// header-only request. When the remaining budget is at or below
// pbs.RateLimitLowWater, it logs a warning and sleeps until the server's reset
// time. The sleep honors context cancellation.
//
// Evaluate is the pure decision function and is safe to call from tests with
// a fixed clock. Pacing is per process; concurrent pbs invocations sharing a
// quota are not coordinated.
package ratelimit
