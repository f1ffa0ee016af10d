// Package tracing wraps OpenTelemetry span creation so the scheduler can
// record one span per task occupancy (spawn to recycle) without the rest of
// the code base importing the upstream packages directly. When no exporter
// has been installed the global provider is a no-op and span calls cost next
// to nothing.
package tracing
