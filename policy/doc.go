// Package policy provides an optional per-request vehicle filter that can be
// attached to an allocation via context. Allocations without a policy consider
// every vehicle of the profile roster.
package policy
