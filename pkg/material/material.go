package material

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// Kind identifies which scattering model a Material uses
type Kind uint32

// The numeric values are shared with the packed compute representation.
const (
	KindLambertian Kind = iota
	KindMetal
	KindDielectric
	KindDiffuseLight
)

func (k Kind) String() string {
	switch k {
	case KindLambertian:
		return "lambertian"
	case KindMetal:
		return "metal"
	case KindDielectric:
		return "dielectric"
	case KindDiffuseLight:
		return "diffuse_light"
	default:
		return fmt.Sprintf("kind(%d)", uint32(k))
	}
}

// ErrInvalidMaterial is returned (wrapped) by Validate
var ErrInvalidMaterial = errors.New("invalid material")

// Material is a closed set of scattering behaviours selected by Kind.
// Only the fields relevant to the Kind are meaningful.
type Material struct {
	Kind            Kind
	Albedo          core.Vec3 // Reflectance for lambertian/metal, emitted color for lights
	Fuzz            float64   // Metal roughness in [0,1]
	RefractiveIndex float64   // Dielectric index of refraction
	Intensity       float64   // Diffuse light emission scale
}

// Validate checks that the parameters for the material's Kind are usable
func (m Material) Validate() error {
	if !m.Albedo.IsFinite() {
		return fmt.Errorf("%w: %s color %v is not finite", ErrInvalidMaterial, m.Kind, m.Albedo)
	}
	switch m.Kind {
	case KindLambertian:
		return nil
	case KindMetal:
		if m.Fuzz < 0 || m.Fuzz > 1 || math.IsNaN(m.Fuzz) {
			return fmt.Errorf("%w: metal fuzz %f outside [0,1]", ErrInvalidMaterial, m.Fuzz)
		}
		return nil
	case KindDielectric:
		if !(m.RefractiveIndex > 0) || math.IsInf(m.RefractiveIndex, 0) {
			return fmt.Errorf("%w: refractive index %f must be positive", ErrInvalidMaterial, m.RefractiveIndex)
		}
		return nil
	case KindDiffuseLight:
		if !(m.Intensity >= 0) || math.IsInf(m.Intensity, 0) {
			return fmt.Errorf("%w: light intensity %f must be non-negative", ErrInvalidMaterial, m.Intensity)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown %s", ErrInvalidMaterial, m.Kind)
	}
}

// Scatter computes the outgoing ray and attenuation for a hit.
// It returns false when the ray is absorbed or the material only emits.
func (m *Material) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	switch m.Kind {
	case KindLambertian:
		return scatterLambertian(m.Albedo, hit, sampler)
	case KindMetal:
		return scatterMetal(m.Albedo, m.Fuzz, rayIn, hit, sampler)
	case KindDielectric:
		return scatterDielectric(m.RefractiveIndex, rayIn, hit, sampler)
	default:
		return ScatterResult{}, false
	}
}

// Emit returns the light emitted at a hit; black for non-emissive materials
func (m *Material) Emit(rayIn core.Ray, hit HitRecord) core.Vec3 {
	if m.Kind == KindDiffuseLight {
		return m.Albedo.Multiply(m.Intensity)
	}
	return core.Vec3{}
}
