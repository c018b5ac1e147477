package geometry

import (
	"math"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

// Sphere represents a sphere shape. A negative radius flips the normals
// inward, which turns the sphere into a hollow shell (e.g. a glass bubble).
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// Hit tests if a ray intersects with the sphere strictly inside (tMin, tMax)
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + 2·halfB·t + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := ray.Direction.Dot(oc)
	c := oc.Dot(oc) - s.Radius*s.Radius

	// Degenerate ray or sphere would only produce NaN/Inf roots
	if a == 0 || s.Radius == 0 {
		return nil, false
	}

	discriminant := halfB*halfB - a*c
	if !(discriminant >= 0) {
		return nil, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if !inOpenInterval(root, tMin, tMax) {
		// Try the farther intersection point
		root = (-halfB + sqrtD) / a
		if !inOpenInterval(root, tMin, tMax) {
			return nil, false
		}
	}

	hitRecord := &material.HitRecord{
		T:        root,
		Point:    ray.At(root),
		Material: &s.Material,
	}

	// Dividing by the signed radius keeps hollow shells pointing inward
	outwardNormal := hitRecord.Point.Subtract(s.Center).Divide(s.Radius)
	if !outwardNormal.IsFinite() || !hitRecord.Point.IsFinite() {
		return nil, false
	}
	hitRecord.SetFaceNormal(ray, outwardNormal)

	return hitRecord, true
}

func inOpenInterval(t, tMin, tMax float64) bool {
	return t > tMin && t < tMax
}
