package material

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// NewLambertian creates a perfectly diffuse material
func NewLambertian(albedo core.Vec3) Material {
	return Material{Kind: KindLambertian, Albedo: albedo}
}

func scatterLambertian(albedo core.Vec3, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	// normal + unit vector gives a cosine-weighted direction around the normal
	scatterDirection := hit.Normal.Add(core.RandomUnitVector(sampler))

	// Catch degenerate scatter direction
	if scatterDirection.NearZero() {
		scatterDirection = hit.Normal
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, scatterDirection),
		Attenuation: albedo,
	}, true
}
