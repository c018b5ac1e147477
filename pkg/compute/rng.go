package compute

// pcg is a per-invocation PCG hash random stream. It carries no shared state
// so invocations can run in any order and still reproduce the same image.
type pcg struct {
	state uint32
}

func pcgHash(v uint32) uint32 {
	state := v*747796405 + 2891336453
	word := ((state >> ((state >> 28) + 4)) ^ state) * 277803737
	return (word >> 22) ^ word
}

// newPixelRNG derives the stream for one pixel from the render seed
func newPixelRNG(pixelIndex, seed uint32) *pcg {
	return &pcg{state: pcgHash(pixelIndex ^ pcgHash(seed))}
}

func (r *pcg) next() uint32 {
	r.state = pcgHash(r.state)
	return r.state
}

// float returns a uniform float32 in [0, 1)
func (r *pcg) float() float32 {
	return float32(r.next()>>8) / (1 << 24)
}

func (r *pcg) inUnitSphere() vec3f {
	for {
		p := vec3f{2*r.float() - 1, 2*r.float() - 1, 2*r.float() - 1}
		if p.lengthSquared() < 1 {
			return p
		}
	}
}

func (r *pcg) unitVector() vec3f {
	for {
		p := r.inUnitSphere()
		if p.lengthSquared() > 1e-30 {
			return p.normalize()
		}
	}
}
