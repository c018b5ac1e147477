package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

var testMaterial = material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
		{
			name:           "unnormalized direction scales t",
			rayOrigin:      core.NewVec3(0, 0, 3),
			rayDirection:   core.NewVec3(0, 0, -2),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := sphere.Hit(ray, 0.001, 1000.0)

			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}

			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}

			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, hit.FrontFace)
			}

			if hit.Normal.Subtract(tt.expectedNormal).Length() > 1e-9 {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}

			if hit.Material == nil || hit.Material.Kind != material.KindLambertian {
				t.Errorf("Expected hit to carry the sphere material, got %v", hit.Material)
			}
		})
	}
}

func TestSphere_Hit_NegativeRadiusShell(t *testing.T) {
	// A negative radius sphere has inward-pointing outward normals
	bubble := NewSphere(core.NewVec3(0, 0, 0), -0.5, testMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := bubble.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected hit on the bubble")
	}
	if math.Abs(hit.T-1.5) > 1e-9 {
		t.Errorf("Expected t=1.5, got %f", hit.T)
	}
	// Outward normal (p-c)/r = (0,0,0.5)/-0.5 = (0,0,-1) points along the ray, so it is a back face
	if hit.FrontFace {
		t.Error("Expected the outside of a hollow shell to be a back face")
	}
	if hit.Normal.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-9 {
		t.Errorf("Expected normal flipped against the ray, got %v", hit.Normal)
	}
}

func TestSphere_Hit_Bounds(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	tests := []struct {
		name      string
		tMin      float64
		tMax      float64
		expectHit bool
		expectedT float64
	}{
		{"tMax before sphere", 0.001, 0.5, false, 0},
		{"tMin past sphere", 3.5, 1000.0, false, 0},
		{"tMax equals near root is exclusive", 0.001, 1.0, false, 0},
		{"tMin equals near root falls through to far root", 1.0, 1000.0, true, 3.0},
		{"tMax equals far root is exclusive", 1.0, 3.0, false, 0},
		{"both roots inside", 0.5, 3.5, true, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := sphere.Hit(ray, tt.tMin, tt.tMax)
			if isHit != tt.expectHit {
				t.Fatalf("Expected hit=%t, got %t", tt.expectHit, isHit)
			}
			if isHit {
				if math.Abs(hit.T-tt.expectedT) > 1e-9 {
					t.Errorf("Expected t=%f, got %f", tt.expectedT, hit.T)
				}
				if hit.T <= tt.tMin || hit.T >= tt.tMax {
					t.Errorf("Hit t=%f escapes open interval (%f, %f)", hit.T, tt.tMin, tt.tMax)
				}
			}
		})
	}
}

func TestSphere_Hit_PointsLieOnSurface(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	center := core.NewVec3(0.3, -1.2, -4)
	radius := 1.7
	sphere := NewSphere(center, radius, testMaterial)

	hits := 0
	for i := 0; i < 2000; i++ {
		origin := core.NewVec3(random.Float64()*2-1, random.Float64()*2-1, 5)
		target := center.Add(core.NewVec3(random.Float64()*4-2, random.Float64()*4-2, random.Float64()*4-2))
		ray := core.NewRay(origin, target.Subtract(origin))

		hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1))
		if !isHit {
			continue
		}
		hits++
		if d := hit.Point.Subtract(center).Length(); math.Abs(d-radius) > 1e-9 {
			t.Fatalf("Hit point %v is %f from center, expected %f", hit.Point, d, radius)
		}
		if math.Abs(hit.Normal.Length()-1) > 1e-9 {
			t.Fatalf("Normal %v is not unit length", hit.Normal)
		}
		if ray.Direction.Dot(hit.Normal) > 0 {
			t.Fatalf("Normal %v does not oppose ray %v", hit.Normal, ray.Direction)
		}

		// The far root must also lie on the surface
		far, ok := sphere.Hit(ray, hit.T, math.Inf(1))
		if ok {
			if d := far.Point.Subtract(center).Length(); math.Abs(d-radius) > 1e-9 {
				t.Fatalf("Far hit %v is %f from center, expected %f", far.Point, d, radius)
			}
		}
	}

	if hits == 0 {
		t.Fatal("Expected at least some rays to hit the sphere")
	}
}

func TestSphere_Hit_DegenerateInputs(t *testing.T) {
	tests := []struct {
		name   string
		sphere *Sphere
		ray    core.Ray
	}{
		{"zero direction", NewSphere(core.NewVec3(0, 0, 0), 1, testMaterial), core.NewRay(core.NewVec3(0, 0, 2), core.Vec3{})},
		{"zero radius", NewSphere(core.NewVec3(0, 0, 0), 0, testMaterial), core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))},
		{"NaN origin", NewSphere(core.NewVec3(0, 0, 0), 1, testMaterial), core.NewRay(core.NewVec3(math.NaN(), 0, 2), core.NewVec3(0, 0, -1))},
		{"NaN radius", NewSphere(core.NewVec3(0, 0, 0), math.NaN(), testMaterial), core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if hit, isHit := tt.sphere.Hit(tt.ray, 0.001, math.Inf(1)); isHit {
				t.Errorf("Expected no hit, got t=%f", hit.T)
			}
		})
	}
}
