// Package idgen wraps identifier generators (UUIDs and request sequences) so
// that they can be stubbed in tests. Callers treat identifiers as opaque.
package idgen
