package material

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// NewDiffuseLight creates a light-emitting material that never scatters.
// The emitted radiance is color scaled by intensity.
func NewDiffuseLight(color core.Vec3, intensity float64) Material {
	return Material{Kind: KindDiffuseLight, Albedo: color, Intensity: intensity}
}
