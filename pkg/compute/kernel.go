package compute

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

const shadowAcneEpsilon float32 = 0.001

var (
	skyBottom = vec3f{1.0, 1.0, 1.0}
	skyTop    = vec3f{0.5, 0.7, 1.0}
)

type ray struct {
	origin, direction vec3f
}

func (r ray) at(t float32) vec3f {
	return r.origin.add(r.direction.scale(t))
}

type hitRecord struct {
	point     vec3f
	normal    vec3f
	t         float32
	frontFace bool
	material  *PackedMaterial
}

// PathTraceKernel renders one pixel per invocation into an RGBA8 buffer.
// Its inputs are read-only once the dispatch is submitted.
type PathTraceKernel struct {
	params  Params
	camera  PackedCamera
	spheres []PackedSphere
	output  []byte
}

// NewPathTraceKernel binds decoded buffers to an output of width*height*4 bytes
func NewPathTraceKernel(params Params, camera PackedCamera, spheres []PackedSphere, output []byte) *PathTraceKernel {
	return &PathTraceKernel{
		params:  params,
		camera:  camera,
		spheres: spheres,
		output:  output,
	}
}

// Invoke traces every sample of pixel (x, y); y is the image row from the top
func (k *PathTraceKernel) Invoke(x, y uint32) {
	width, height := k.params.ImageWidth, k.params.ImageHeight
	if x >= width || y >= height {
		return
	}

	// Camera rows count from the bottom
	j := height - 1 - y
	rng := newPixelRNG(y*width+x, k.params.Seed)

	uSpan := float32(max(width-1, 1))
	vSpan := float32(max(height-1, 1))

	var sum vec3f
	for s := uint32(0); s < k.params.SamplesPerPixel; s++ {
		u := (float32(x) + rng.float()) / uSpan
		v := (float32(j) + rng.float()) / vSpan

		c := k.trace(k.primaryRay(u, v), rng)
		if c.isFinite() {
			sum = sum.add(c)
		}
	}

	offset := (y*width + x) * 4
	scale := 1 / float32(k.params.SamplesPerPixel)
	k.output[offset] = quantize(sum.x * scale)
	k.output[offset+1] = quantize(sum.y * scale)
	k.output[offset+2] = quantize(sum.z * scale)
	k.output[offset+3] = 255
}

func (k *PathTraceKernel) primaryRay(u, v float32) ray {
	origin := fromArray(k.camera.Origin)
	direction := fromArray(k.camera.LowerLeft).
		add(fromArray(k.camera.Horizontal).scale(u)).
		add(fromArray(k.camera.Vertical).scale(v)).
		sub(origin)
	return ray{origin: origin, direction: direction}
}

// trace follows one path for at most MaxDepth bounces. A path that runs out
// of bounces contributes black.
func (k *PathTraceKernel) trace(r ray, rng *pcg) vec3f {
	throughput := vec3f{1, 1, 1}

	for depth := uint32(0); depth < k.params.MaxDepth; depth++ {
		hit, ok := k.hitWorld(r)
		if !ok {
			return throughput.mul(sky(r))
		}

		m := hit.material
		if material.Kind(m.Kind) == material.KindDiffuseLight {
			return throughput.mul(fromArray(m.Color).scale(m.EmissionIntensity))
		}

		scattered, attenuation, ok := scatter(r, hit, rng)
		if !ok {
			return vec3f{}
		}
		throughput = throughput.mul(attenuation)
		r = scattered
	}

	return vec3f{}
}

func sky(r ray) vec3f {
	t := 0.5 * (r.direction.normalize().y + 1)
	return skyBottom.scale(1 - t).add(skyTop.scale(t))
}

func (k *PathTraceKernel) hitWorld(r ray) (hitRecord, bool) {
	var closest hitRecord
	hitAnything := false
	tMax := math32.Inf(1)

	for i := range k.spheres {
		if hit, ok := hitSphere(&k.spheres[i], r, shadowAcneEpsilon, tMax); ok {
			hitAnything = true
			tMax = hit.t
			closest = hit
		}
	}
	return closest, hitAnything
}

func hitSphere(s *PackedSphere, r ray, tMin, tMax float32) (hitRecord, bool) {
	if s.Radius == 0 {
		return hitRecord{}, false
	}

	center := fromArray(s.Center)
	oc := r.origin.sub(center)
	a := r.direction.lengthSquared()
	if a == 0 {
		return hitRecord{}, false
	}
	halfB := oc.dot(r.direction)
	c := oc.lengthSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 || math32.IsNaN(discriminant) {
		return hitRecord{}, false
	}
	sqrtd := math32.Sqrt(discriminant)

	// Nearest root in the open interval (tMin, tMax)
	root := (-halfB - sqrtd) / a
	if root <= tMin || root >= tMax {
		root = (-halfB + sqrtd) / a
		if root <= tMin || root >= tMax {
			return hitRecord{}, false
		}
	}

	point := r.at(root)
	outwardNormal := point.sub(center).scale(1 / s.Radius)
	if !outwardNormal.isFinite() {
		return hitRecord{}, false
	}

	hit := hitRecord{point: point, t: root, material: &s.Material}
	hit.frontFace = r.direction.dot(outwardNormal) < 0
	if hit.frontFace {
		hit.normal = outwardNormal
	} else {
		hit.normal = outwardNormal.neg()
	}
	return hit, true
}

func scatter(r ray, hit hitRecord, rng *pcg) (ray, vec3f, bool) {
	m := hit.material
	albedo := fromArray(m.Color)

	switch material.Kind(m.Kind) {
	case material.KindLambertian:
		direction := hit.normal.add(rng.unitVector())
		if direction.nearZero() {
			direction = hit.normal
		}
		return ray{hit.point, direction}, albedo, true

	case material.KindMetal:
		reflected := reflect(r.direction.normalize(), hit.normal)
		direction := reflected.add(rng.inUnitSphere().scale(m.Fuzz))
		if direction.dot(hit.normal) <= 0 {
			return ray{}, vec3f{}, false
		}
		return ray{hit.point, direction}, albedo, true

	case material.KindDielectric:
		refractionRatio := m.RefractiveIndex
		if hit.frontFace {
			refractionRatio = 1 / m.RefractiveIndex
		}
		unitDirection := r.direction.normalize()
		cosTheta := math32.Min(unitDirection.neg().dot(hit.normal), 1)
		sinTheta := math32.Sqrt(1 - cosTheta*cosTheta)

		var direction vec3f
		if refractionRatio*sinTheta > 1 || reflectance(cosTheta, refractionRatio) > rng.float() {
			direction = reflect(unitDirection, hit.normal)
		} else {
			direction = refract(unitDirection, hit.normal, refractionRatio)
		}
		return ray{hit.point, direction}, vec3f{1, 1, 1}, true

	default:
		return ray{}, vec3f{}, false
	}
}

// reflectance is Schlick's approximation; an index-matched boundary never reflects
func reflectance(cosine, refractionRatio float32) float32 {
	if refractionRatio == 1 {
		return 0
	}
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math32.Pow(1-cosine, 5)
}

// quantize applies gamma 2 and maps [0, 0.999] to a byte; NaN becomes 0
func quantize(c float32) uint8 {
	if math32.IsNaN(c) || c <= 0 {
		return 0
	}
	return uint8(256 * math32.Min(math32.Sqrt(c), 0.999))
}
