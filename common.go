package wiimote

import "math"

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
