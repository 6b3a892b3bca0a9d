/*
Package observability turns engine lifecycle events into signals for operators.

Metrics exposes Prometheus collectors and LoggingHooks writes an audit trail
through slog. Both are plain domain.LifecycleHooks and can be combined with
domain.ChainHooks.
*/
package observability
