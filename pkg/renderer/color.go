package renderer

import (
	"image/color"
	"math"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// QuantizeColor turns an accumulated radiance sum into an 8-bit display color.
// The sum is averaged over samples, gamma corrected with gamma 2, clamped to
// [0, 0.999] and scaled by 256. NaN channels become 0.
func QuantizeColor(sum core.Vec3, samples int) color.RGBA {
	scale := 1.0
	if samples > 0 {
		scale = 1.0 / float64(samples)
	}

	return color.RGBA{
		R: quantizeChannel(sum.X * scale),
		G: quantizeChannel(sum.Y * scale),
		B: quantizeChannel(sum.Z * scale),
		A: 255,
	}
}

func quantizeChannel(c float64) uint8 {
	if math.IsNaN(c) || c <= 0 {
		return 0
	}
	c = math.Sqrt(c)
	c = math.Min(c, 0.999)
	return uint8(256 * c)
}
