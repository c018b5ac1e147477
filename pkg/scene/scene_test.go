package scene

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/df07/go-sphere-pathtracer/pkg/compute"
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"three-spheres", "Three Spheres"},
		{"dragon_gold", "Dragon Gold"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestListAndBuildEveryScene(t *testing.T) {
	scenes := List()
	if len(scenes) != 4 || scenes[0].ID != "default" {
		t.Fatalf("Unexpected scene list: %+v", scenes)
	}

	for _, info := range scenes {
		t.Run(info.ID, func(t *testing.T) {
			if info.DisplayName == "" || info.Description == "" {
				t.Errorf("Scene %q is missing metadata: %+v", info.ID, info)
			}
			s, err := New(info.ID)
			if err != nil {
				t.Fatalf("New(%q) failed: %v", info.ID, err)
			}
			if s.GetCamera() == nil {
				t.Error("Scene has no camera")
			}
			if err := s.GetSamplingConfig().Validate(); err != nil {
				t.Errorf("Invalid sampling config: %v", err)
			}
			if s.World.Len() != len(s.Spheres) || s.GetPrimitiveCount() != len(s.Spheres) {
				t.Errorf("World holds %d shapes, scene %d spheres", s.World.Len(), len(s.Spheres))
			}
		})
	}
}

func TestNewUnknownScene(t *testing.T) {
	if _, err := New("cornell-box"); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}
}

func TestDefaultSceneLayout(t *testing.T) {
	s, err := NewDefaultScene()
	if err != nil {
		t.Fatalf("NewDefaultScene failed: %v", err)
	}

	config := s.GetSamplingConfig()
	if config.Width != 400 || config.Height != 225 || config.SamplesPerPixel != 50 || config.MaxDepth != 50 {
		t.Errorf("Unexpected sampling config %+v", config)
	}
	if len(s.Spheres) != 5 {
		t.Fatalf("Expected 5 spheres, got %d", len(s.Spheres))
	}

	expected := []struct {
		center core.Vec3
		radius float64
		kind   material.Kind
	}{
		{core.NewVec3(0, -100.5, -1), 100, material.KindLambertian},
		{core.NewVec3(0, 0, -1), 0.5, material.KindDiffuseLight},
		{core.NewVec3(-1, 0, -1), 0.5, material.KindDielectric},
		{core.NewVec3(-1, 0, -1), -0.45, material.KindDielectric},
		{core.NewVec3(1, 0, -1), 0.5, material.KindMetal},
	}
	for i, e := range expected {
		got := s.Spheres[i]
		if got.Center != e.center || got.Radius != e.radius || got.Material.Kind != e.kind {
			t.Errorf("Sphere %d = (%v, %f, %s), expected (%v, %f, %s)",
				i, got.Center, got.Radius, got.Material.Kind, e.center, e.radius, e.kind)
		}
	}
	if light := s.Spheres[1].Material; light.Albedo != core.NewVec3(0.9, 0.9, 0.1) || light.Intensity != 1.5 {
		t.Errorf("Unexpected light material %+v", light)
	}
}

func TestAddSphereValidation(t *testing.T) {
	s, err := NewScene(geometry.DefaultCameraConfig(), core.DefaultSamplingConfig())
	if err != nil {
		t.Fatalf("NewScene failed: %v", err)
	}
	lambertian := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))

	tests := []struct {
		name   string
		center core.Vec3
		radius float64
		mat    material.Material
	}{
		{"zero radius", core.NewVec3(0, 0, 0), 0, lambertian},
		{"NaN radius", core.NewVec3(0, 0, 0), math.NaN(), lambertian},
		{"infinite center", core.NewVec3(math.Inf(1), 0, 0), 1, lambertian},
		{"bad dielectric", core.NewVec3(0, 0, 0), 1, material.Material{Kind: material.KindDielectric, RefractiveIndex: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.AddSphere(tt.center, tt.radius, tt.mat); err == nil {
				t.Error("Expected error")
			}
		})
	}
	if len(s.Spheres) != 0 || s.World.Len() != 0 {
		t.Error("Rejected spheres must not be added")
	}

	if err := s.AddSphere(core.NewVec3(0, 0, -1), -0.3, material.NewDielectric(1.5)); err != nil {
		t.Errorf("Negative radius should be accepted: %v", err)
	}
}

func TestSetWidthKeepsAspect(t *testing.T) {
	s, err := NewDefaultScene()
	if err != nil {
		t.Fatalf("NewDefaultScene failed: %v", err)
	}
	if err := s.SetWidth(160); err != nil {
		t.Fatalf("SetWidth failed: %v", err)
	}
	if s.SamplingConfig.Width != 160 || s.SamplingConfig.Height != 90 {
		t.Errorf("Expected 160x90, got %dx%d", s.SamplingConfig.Width, s.SamplingConfig.Height)
	}
	if err := s.SetWidth(0); !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestAbsorberSceneBothBackends(t *testing.T) {
	s, err := NewAbsorberScene()
	if err != nil {
		t.Fatalf("NewAbsorberScene failed: %v", err)
	}

	renderConfig := renderer.DefaultRenderConfig()
	renderConfig.Seed = 17
	rt, err := renderer.NewRaytracer(s, renderConfig, nil)
	if err != nil {
		t.Fatalf("NewRaytracer failed: %v", err)
	}
	cpuImg, _, err := rt.Render(context.Background())
	if err != nil {
		t.Fatalf("CPU render failed: %v", err)
	}

	tracer, err := compute.NewTracer(compute.NewCPUDevice(0), s, 17, nil)
	if err != nil {
		t.Fatalf("NewTracer failed: %v", err)
	}
	computeImg, err := tracer.Render(context.Background())
	if err != nil {
		t.Fatalf("Compute render failed: %v", err)
	}

	for name, c := range map[string][4]uint8{
		"cpu":     {cpuImg.RGBAAt(0, 1).R, cpuImg.RGBAAt(0, 1).G, cpuImg.RGBAAt(0, 1).B, cpuImg.RGBAAt(0, 1).A},
		"compute": {computeImg.RGBAAt(0, 1).R, computeImg.RGBAAt(0, 1).G, computeImg.RGBAAt(0, 1).B, computeImg.RGBAAt(0, 1).A},
	} {
		if c != [4]uint8{0, 0, 0, 255} {
			t.Errorf("%s: expected opaque black bottom-left pixel, got %v", name, c)
		}
	}
}
