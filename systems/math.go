package systems

import "math"

// clamp clamps v between minVal and maxVal.
func clamp(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// wrapEdge applies toroidal wraparound on one axis.
// Leaving below 0 re-enters at the far edge, reaching or passing size re-enters at 0.
// The result always lies in [0, size).
func wrapEdge(v, size float64) (float64, bool) {
	switch {
	case v < 0:
		// Largest value strictly below size keeps the half-open bound
		return math.Nextafter(size, 0), true
	case v >= size:
		return 0, true
	}
	return v, false
}

// distance returns the Euclidean length of (dx, dy).
func distance(dx, dy float64) float64 {
	return math.Sqrt(dx*dx + dy*dy)
}
