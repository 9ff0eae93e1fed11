// Package tracing wraps OpenTelemetry so that allocator code can open and
// close spans without importing the upstream packages directly.
package tracing
