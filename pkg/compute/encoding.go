package compute

import (
	"encoding/binary"
	"fmt"

	"github.com/chewxy/math32"
)

// All records use a little-endian layout of 4-byte fields in declaration order.

func appendFloat(b []byte, f float32) []byte {
	return binary.LittleEndian.AppendUint32(b, math32.Float32bits(f))
}

func appendVec(b []byte, v [3]float32) []byte {
	for _, f := range v {
		b = appendFloat(b, f)
	}
	return b
}

// reader consumes 4-byte little-endian fields from a buffer
type reader struct {
	buf []byte
	off int
}

func (r *reader) uint32() uint32 {
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v
}

func (r *reader) float() float32 {
	return math32.Float32frombits(r.uint32())
}

func (r *reader) vec() [3]float32 {
	return [3]float32{r.float(), r.float(), r.float()}
}

func (m PackedMaterial) appendTo(b []byte) []byte {
	b = binary.LittleEndian.AppendUint32(b, m.Kind)
	b = appendVec(b, m.Color)
	b = appendFloat(b, m.EmissionIntensity)
	b = appendFloat(b, m.RefractiveIndex)
	return appendFloat(b, m.Fuzz)
}

func (r *reader) material() PackedMaterial {
	return PackedMaterial{
		Kind:              r.uint32(),
		Color:             r.vec(),
		EmissionIntensity: r.float(),
		RefractiveIndex:   r.float(),
		Fuzz:              r.float(),
	}
}

func (s PackedSphere) appendTo(b []byte) []byte {
	b = appendVec(b, s.Center)
	b = appendFloat(b, s.Radius)
	return s.Material.appendTo(b)
}

func (r *reader) sphere() PackedSphere {
	return PackedSphere{
		Center:   r.vec(),
		Radius:   r.float(),
		Material: r.material(),
	}
}

// EncodeSpheres serializes the sphere buffer
func EncodeSpheres(spheres []PackedSphere) []byte {
	b := make([]byte, 0, len(spheres)*PackedSphereSize)
	for _, s := range spheres {
		b = s.appendTo(b)
	}
	return b
}

// DecodeSpheres parses a buffer produced by EncodeSpheres
func DecodeSpheres(data []byte) ([]PackedSphere, error) {
	if len(data)%PackedSphereSize != 0 {
		return nil, fmt.Errorf("sphere buffer length %d is not a multiple of %d", len(data), PackedSphereSize)
	}
	r := &reader{buf: data}
	spheres := make([]PackedSphere, len(data)/PackedSphereSize)
	for i := range spheres {
		spheres[i] = r.sphere()
	}
	return spheres, nil
}

// MarshalBinary implements encoding.BinaryMarshaler
func (c PackedCamera) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, PackedCameraSize)
	b = appendVec(b, c.Origin)
	b = appendVec(b, c.LowerLeft)
	b = appendVec(b, c.Horizontal)
	return appendVec(b, c.Vertical), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler
func (c *PackedCamera) UnmarshalBinary(data []byte) error {
	if len(data) != PackedCameraSize {
		return fmt.Errorf("camera buffer length %d, expected %d", len(data), PackedCameraSize)
	}
	r := &reader{buf: data}
	c.Origin = r.vec()
	c.LowerLeft = r.vec()
	c.Horizontal = r.vec()
	c.Vertical = r.vec()
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler
func (p Params) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, ParamsSize)
	for _, v := range []uint32{p.ImageWidth, p.ImageHeight, p.MaxDepth, p.ObjectCount, p.SamplesPerPixel, p.Seed} {
		b = binary.LittleEndian.AppendUint32(b, v)
	}
	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler
func (p *Params) UnmarshalBinary(data []byte) error {
	if len(data) != ParamsSize {
		return fmt.Errorf("params buffer length %d, expected %d", len(data), ParamsSize)
	}
	r := &reader{buf: data}
	p.ImageWidth = r.uint32()
	p.ImageHeight = r.uint32()
	p.MaxDepth = r.uint32()
	p.ObjectCount = r.uint32()
	p.SamplesPerPixel = r.uint32()
	p.Seed = r.uint32()
	return nil
}
