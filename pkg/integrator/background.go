package integrator

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

var (
	// SkyBottom is the background color straight down (and at the horizon's lower half)
	SkyBottom = core.NewVec3(1.0, 1.0, 1.0)
	// SkyTop is the background color straight up
	SkyTop = core.NewVec3(0.5, 0.7, 1.0)
)

// SkyGradient returns the background color for a ray that escapes the scene.
// It only depends on the vertical component of the direction.
func SkyGradient(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()

	// Use the y-component to create a gradient (map from -1,1 to 0,1)
	t := 0.5 * (unitDirection.Y + 1.0)

	return SkyBottom.Lerp(SkyTop, t)
}
