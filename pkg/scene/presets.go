package scene

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

// sphereSpec is one entry of a preset's object list
type sphereSpec struct {
	center   core.Vec3
	radius   float64
	material material.Material
}

func build(cameraConfig geometry.CameraConfig, samplingConfig core.SamplingConfig, spheres []sphereSpec) (*Scene, error) {
	s, err := NewScene(cameraConfig, samplingConfig)
	if err != nil {
		return nil, err
	}
	for _, spec := range spheres {
		if err := s.AddSphere(spec.center, spec.radius, spec.material); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// NewDefaultScene creates the reference scene: a yellow ground, a glowing
// center sphere, a hollow glass sphere on the left and a mirror on the right.
func NewDefaultScene() (*Scene, error) {
	materialGround := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	materialGlass := material.NewDielectric(1.5)
	materialLight := material.NewDiffuseLight(core.NewVec3(0.9, 0.9, 0.1), 1.5)
	materialMetal := material.NewMetal(core.NewVec3(0.5, 0.5, 0.5), 0.0)

	return build(geometry.DefaultCameraConfig(), core.DefaultSamplingConfig(), []sphereSpec{
		{core.NewVec3(0, -100.5, -1), 100, materialGround},
		{core.NewVec3(0, 0, -1), 0.5, materialLight},
		{core.NewVec3(-1, 0, -1), 0.5, materialGlass},
		{core.NewVec3(-1, 0, -1), -0.45, materialGlass}, // Hollow interior
		{core.NewVec3(1, 0, -1), 0.5, materialMetal},
	})
}

// NewThreeSpheresScene creates the classic diffuse, glass and fuzzy metal row lit only by the sky
func NewThreeSpheresScene() (*Scene, error) {
	cameraConfig := geometry.DefaultCameraConfig()
	cameraConfig.LookFrom = core.NewVec3(0, 0.5, 1.5)
	cameraConfig.VFov = 60

	materialGlass := material.NewDielectric(1.5)

	return build(cameraConfig, core.DefaultSamplingConfig(), []sphereSpec{
		{core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))},
		{core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))},
		{core.NewVec3(-1, 0, -1), 0.5, materialGlass},
		{core.NewVec3(-1, 0, -1), -0.4, materialGlass},
		{core.NewVec3(1, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)},
	})
}

// absorberCameraConfig looks down -z from the origin with a view narrow
// enough that the lower-left pixel of a 2x2 image always hits the sphere.
func absorberCameraConfig() geometry.CameraConfig {
	return geometry.CameraConfig{
		LookFrom:    core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: 1,
	}
}

// NewAbsorberScene creates a single black sphere in front of the camera
func NewAbsorberScene() (*Scene, error) {
	samplingConfig := core.SamplingConfig{Width: 2, Height: 2, SamplesPerPixel: 1, MaxDepth: 1}

	return build(absorberCameraConfig(), samplingConfig, []sphereSpec{
		{core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0, 0, 0))},
	})
}

// NewEmptyScene creates a scene with no primitives; every pixel shows the sky
func NewEmptyScene() (*Scene, error) {
	cameraConfig := absorberCameraConfig()
	cameraConfig.VFov = 90

	samplingConfig := core.SamplingConfig{Width: 64, Height: 64, SamplesPerPixel: 4, MaxDepth: 5}
	return build(cameraConfig, samplingConfig, nil)
}
