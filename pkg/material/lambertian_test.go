package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

func TestLambertian_Scatter(t *testing.T) {
	albedo := core.NewVec3(0.7, 0.3, 0.1)
	lambertian := NewLambertian(albedo)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))
	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: true,
		Material:  &lambertian,
	}

	for i := 0; i < 1000; i++ {
		scatter, didScatter := lambertian.Scatter(ray, hit, sampler)
		if !didScatter {
			t.Fatal("Lambertian material should always scatter")
		}
		if scatter.Attenuation != albedo {
			t.Fatalf("Expected attenuation %v, got %v", albedo, scatter.Attenuation)
		}
		if scatter.Scattered.Origin != hit.Point {
			t.Fatalf("Scattered ray should start at hit point, got %v", scatter.Scattered.Origin)
		}
		// normal + unit vector never points below the surface
		if scatter.Scattered.Direction.Dot(hit.Normal) < -1e-12 {
			t.Fatalf("Scattered direction %v points into the surface", scatter.Scattered.Direction)
		}
	}
}

// oppositeSampler makes RandomUnitVector return exactly -normal for a +Y normal
type oppositeSampler struct {
	values []float64
	i      int
}

func (s *oppositeSampler) Get1D() float64 {
	v := s.values[s.i%len(s.values)]
	s.i++
	return v
}

func TestLambertian_DegenerateDirectionFallsBackToNormal(t *testing.T) {
	lambertian := NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	// (2*0.5-1, 2*0.25-1, 2*0.5-1) = (0, -0.5, 0) normalizes to (0,-1,0)
	sampler := &oppositeSampler{values: []float64{0.5, 0.25, 0.5}}

	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		FrontFace: true,
	}
	scatter, ok := lambertian.Scatter(core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)), hit, sampler)
	if !ok {
		t.Fatal("Lambertian material should always scatter")
	}
	if scatter.Scattered.Direction != hit.Normal {
		t.Errorf("Expected fallback to normal %v, got %v", hit.Normal, scatter.Scattered.Direction)
	}
}

func TestLambertian_CosineWeighted(t *testing.T) {
	lambertian := NewLambertian(core.NewVec3(1, 1, 1))
	sampler := core.NewSeededSampler(3)
	hit := HitRecord{Normal: core.NewVec3(0, 0, 1), FrontFace: true}

	// For cosine-weighted sampling E[cos θ] = 2/3
	var sum float64
	const n = 20000
	for i := 0; i < n; i++ {
		scatter, _ := lambertian.Scatter(core.Ray{}, hit, sampler)
		sum += scatter.Scattered.Direction.Normalize().Z
	}
	mean := sum / n
	if math.Abs(mean-2.0/3.0) > 0.02 {
		t.Errorf("Expected mean cosine near 2/3, got %f", mean)
	}
}
