//go:build !windows

package interp

import "time"

// processStart marks interpreter-process startup; clock() reports seconds
// elapsed since this instant, per spec §4.4.
var processStart = time.Now()

// hiresNow returns a high-resolution monotonic timestamp in nanoseconds
// since processStart.
func hiresNow() int64 {
	return time.Since(processStart).Nanoseconds()
}

// hiresSinceMs returns the elapsed milliseconds since startNano.
func hiresSinceMs(startNano int64) int64 {
	return (hiresNow() - startNano) / 1_000_000
}

// hiresEpochNano returns the nanosecond timestamp of processStart itself,
// i.e. elapsed==0, used as clock()'s reference point.
func hiresEpochNano() int64 {
	return 0
}
