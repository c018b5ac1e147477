package compute

import (
	"fmt"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

// unused marks packed material fields that do not apply to the material's kind
const unused float32 = -1

// Byte sizes of the fixed-layout records
const (
	PackedMaterialSize = 4 + 3*4 + 3*4
	PackedSphereSize   = 3*4 + 4 + PackedMaterialSize
	PackedCameraSize   = 4 * 3 * 4
	ParamsSize         = 6 * 4
)

// PackedMaterial is the flat single precision form of material.Material
type PackedMaterial struct {
	Kind              uint32
	Color             [3]float32
	EmissionIntensity float32
	RefractiveIndex   float32
	Fuzz              float32
}

// PackedSphere is one entry of the sphere buffer
type PackedSphere struct {
	Center   [3]float32
	Radius   float32
	Material PackedMaterial
}

// PackedCamera holds the viewport the kernel generates primary rays from
type PackedCamera struct {
	Origin     [3]float32
	LowerLeft  [3]float32
	Horizontal [3]float32
	Vertical   [3]float32
}

// Params is the fixed per-render configuration shared by every invocation
type Params struct {
	ImageWidth      uint32
	ImageHeight     uint32
	MaxDepth        uint32
	ObjectCount     uint32
	SamplesPerPixel uint32
	Seed            uint32
}

// Validate checks that params describe a renderable image
func (p Params) Validate() error {
	if p.ImageWidth == 0 || p.ImageHeight == 0 {
		return fmt.Errorf("%w: image size %dx%d", core.ErrInvalidConfig, p.ImageWidth, p.ImageHeight)
	}
	if p.SamplesPerPixel == 0 {
		return fmt.Errorf("%w: samples per pixel must be positive", core.ErrInvalidConfig)
	}
	return nil
}

func packVec3(v core.Vec3) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

// PackMaterial converts a material, filling fields its kind ignores with -1
func PackMaterial(m material.Material) PackedMaterial {
	packed := PackedMaterial{
		Kind:              uint32(m.Kind),
		Color:             packVec3(m.Albedo),
		EmissionIntensity: unused,
		RefractiveIndex:   unused,
		Fuzz:              unused,
	}

	switch m.Kind {
	case material.KindMetal:
		packed.Fuzz = float32(m.Fuzz)
	case material.KindDielectric:
		packed.RefractiveIndex = float32(m.RefractiveIndex)
	case material.KindDiffuseLight:
		packed.EmissionIntensity = float32(m.Intensity)
	}
	return packed
}

// PackSphere converts a sphere and its material
func PackSphere(s *geometry.Sphere) PackedSphere {
	return PackedSphere{
		Center:   packVec3(s.Center),
		Radius:   float32(s.Radius),
		Material: PackMaterial(s.Material),
	}
}

// PackSpheres converts every sphere in order
func PackSpheres(spheres []*geometry.Sphere) []PackedSphere {
	packed := make([]PackedSphere, len(spheres))
	for i, s := range spheres {
		packed[i] = PackSphere(s)
	}
	return packed
}

// PackCamera captures the camera's viewport
func PackCamera(c *geometry.Camera) PackedCamera {
	origin, lowerLeft, horizontal, vertical := c.Viewport()
	return PackedCamera{
		Origin:     packVec3(origin),
		LowerLeft:  packVec3(lowerLeft),
		Horizontal: packVec3(horizontal),
		Vertical:   packVec3(vertical),
	}
}
