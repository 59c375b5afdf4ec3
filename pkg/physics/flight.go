// pkg/physics/flight.go
package physics

import "math"

// Clamp limits a value to the range [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DegToRad converts an angle from degrees to radians
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// RadToDeg converts an angle from radians to degrees
func RadToDeg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// Smooth moves current toward target using frame-rate independent
// exponential smoothing: current + (target - current) * coeff * dt.
// Larger coefficients converge faster. With coeff*dt >= 1 the value
// lands exactly on target instead of overshooting.
func Smooth(current, target, coeff, dt float64) float64 {
	step := coeff * dt
	if step >= 1 {
		return target
	}
	return current + (target-current)*step
}

// Damp applies proportional per-frame decay to a value:
// v * (1 - factor*dt). Used for vertical speed damping and
// ground friction. The result keeps the sign of v for factor*dt < 1.
func Damp(v, factor, dt float64) float64 {
	return v * (1.0 - factor*dt)
}
