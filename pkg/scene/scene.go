package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

// Scene contains all the elements needed for rendering.
// It is built up front and only read once rendering starts.
type Scene struct {
	Camera         *geometry.Camera
	CameraConfig   geometry.CameraConfig
	Spheres        []*geometry.Sphere     // Primitives in insertion order
	World          *geometry.HittableList // Same primitives, as the CPU intersection world
	SamplingConfig core.SamplingConfig
}

// NewScene creates an empty scene with a camera built from cameraConfig
func NewScene(cameraConfig geometry.CameraConfig, samplingConfig core.SamplingConfig) (*Scene, error) {
	camera, err := geometry.NewCamera(cameraConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create camera: %w", err)
	}
	if err := samplingConfig.Validate(); err != nil {
		return nil, err
	}

	return &Scene{
		Camera:         camera,
		CameraConfig:   cameraConfig,
		Spheres:        make([]*geometry.Sphere, 0),
		World:          geometry.NewHittableList(),
		SamplingConfig: samplingConfig,
	}, nil
}

// AddSphere appends a sphere. A negative radius is allowed and flips the normal
// inward, which is how hollow glass is modelled.
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat material.Material) error {
	if !center.IsFinite() {
		return fmt.Errorf("%w: sphere center %v is not finite", core.ErrInvalidConfig, center)
	}
	if radius == 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return fmt.Errorf("%w: sphere radius %f", core.ErrInvalidConfig, radius)
	}
	if err := mat.Validate(); err != nil {
		return err
	}

	sphere := geometry.NewSphere(center, radius, mat)
	s.Spheres = append(s.Spheres, sphere)
	s.World.Add(sphere)
	return nil
}

// SetWidth changes the image width and derives the height from the camera's aspect ratio
func (s *Scene) SetWidth(width int) error {
	if width <= 0 {
		return fmt.Errorf("%w: image width %d", core.ErrInvalidConfig, width)
	}
	s.SamplingConfig.Width = width
	s.SamplingConfig.Height = core.HeightForAspect(width, s.CameraConfig.AspectRatio)
	return nil
}

// GetCamera returns the scene camera
func (s *Scene) GetCamera() *geometry.Camera {
	return s.Camera
}

// GetWorld returns the intersection world for the CPU renderer
func (s *Scene) GetWorld() integrator.World {
	return s.World
}

// GetSpheres returns the primitives for packing into compute buffers
func (s *Scene) GetSpheres() []*geometry.Sphere {
	return s.Spheres
}

// GetSamplingConfig returns the image and sampling settings
func (s *Scene) GetSamplingConfig() core.SamplingConfig {
	return s.SamplingConfig
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Spheres)
}
