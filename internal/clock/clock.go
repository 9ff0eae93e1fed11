package clock

import "time"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now returns the current UTC time.
func Now() time.Time { return NowFunc().UTC() }

// Since returns elapsed time from t measured with NowFunc.
func Since(t time.Time) time.Duration { return Now().Sub(t) }
