package compute

import (
	"github.com/chewxy/math32"
)

// vec3f is the single precision vector used inside the kernel
type vec3f struct {
	x, y, z float32
}

func fromArray(a [3]float32) vec3f {
	return vec3f{a[0], a[1], a[2]}
}

func (v vec3f) add(u vec3f) vec3f {
	return vec3f{v.x + u.x, v.y + u.y, v.z + u.z}
}

func (v vec3f) sub(u vec3f) vec3f {
	return vec3f{v.x - u.x, v.y - u.y, v.z - u.z}
}

func (v vec3f) scale(t float32) vec3f {
	return vec3f{v.x * t, v.y * t, v.z * t}
}

func (v vec3f) mul(u vec3f) vec3f {
	return vec3f{v.x * u.x, v.y * u.y, v.z * u.z}
}

func (v vec3f) neg() vec3f {
	return vec3f{-v.x, -v.y, -v.z}
}

func (v vec3f) dot(u vec3f) float32 {
	return v.x*u.x + v.y*u.y + v.z*u.z
}

func (v vec3f) lengthSquared() float32 {
	return v.dot(v)
}

func (v vec3f) length() float32 {
	return math32.Sqrt(v.lengthSquared())
}

func (v vec3f) normalize() vec3f {
	l := v.length()
	if l == 0 {
		return v
	}
	return v.scale(1 / l)
}

func (v vec3f) nearZero() bool {
	const s = 1e-8
	return math32.Abs(v.x) < s && math32.Abs(v.y) < s && math32.Abs(v.z) < s
}

func (v vec3f) isFinite() bool {
	return isFinite32(v.x) && isFinite32(v.y) && isFinite32(v.z)
}

func isFinite32(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

func reflect(v, n vec3f) vec3f {
	return v.sub(n.scale(2 * v.dot(n)))
}

func refract(uv, n vec3f, etaiOverEtat float32) vec3f {
	cosTheta := math32.Min(uv.neg().dot(n), 1)
	rOutPerp := uv.add(n.scale(cosTheta)).scale(etaiOverEtat)
	rOutParallel := n.scale(-math32.Sqrt(math32.Abs(1 - rOutPerp.lengthSquared())))
	return rOutPerp.add(rOutParallel)
}
