package physics

import (
	"math"
	"time"
)

// MinDistance floors center distances before they are used as divisors or normals
const MinDistance = 1e-6

// clamp restricts a value to a range
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// floorDistance returns d, or MinDistance when d is too small to divide by.
// The second result is false when flooring was needed.
func floorDistance(d float64) (float64, bool) {
	if d < MinDistance || math.IsNaN(d) {
		return MinDistance, false
	}
	return d, true
}

// logLimiter lets at most one diagnostic through per interval
type logLimiter struct {
	interval time.Duration
	last     time.Time
}

func (l *logLimiter) allow() bool {
	now := time.Now()
	if now.Sub(l.last) < l.interval {
		return false
	}
	l.last = now
	return true
}
