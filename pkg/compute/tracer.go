package compute

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
)

// Scene is the subset of a scene the compute tracer can upload
type Scene interface {
	GetCamera() *geometry.Camera
	GetSpheres() []*geometry.Sphere
	GetSamplingConfig() core.SamplingConfig
}

// Tracer renders a scene as a single dispatch on a Device
type Tracer struct {
	device Device
	params Params
	// Encoded buffers, uploaded once at construction
	cameraBuf  []byte
	spheresBuf []byte
	paramsBuf  []byte
	logger     core.Logger
}

// NewTracer packs the scene into device buffers. A zero seed is replaced by a clock-derived one.
func NewTracer(device Device, scene Scene, seed int64, logger core.Logger) (*Tracer, error) {
	if device == nil {
		return nil, fmt.Errorf("%w: no device", ErrInvalidDispatch)
	}
	if logger == nil {
		logger = core.NopLogger{}
	}

	config := scene.GetSamplingConfig()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	camera := scene.GetCamera()
	if camera == nil {
		return nil, fmt.Errorf("%w: scene has no camera", core.ErrInvalidConfig)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	spheres := PackSpheres(scene.GetSpheres())
	params := Params{
		ImageWidth:      uint32(config.Width),
		ImageHeight:     uint32(config.Height),
		MaxDepth:        uint32(config.MaxDepth),
		ObjectCount:     uint32(len(spheres)),
		SamplesPerPixel: uint32(config.SamplesPerPixel),
		Seed:            uint32(seed),
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	cameraBuf, err := PackCamera(camera).MarshalBinary()
	if err != nil {
		return nil, err
	}
	paramsBuf, err := params.MarshalBinary()
	if err != nil {
		return nil, err
	}

	return &Tracer{
		device:     device,
		params:     params,
		cameraBuf:  cameraBuf,
		spheresBuf: EncodeSpheres(spheres),
		paramsBuf:  paramsBuf,
		logger:     logger,
	}, nil
}

// Params returns the per-render configuration the kernel will see
func (t *Tracer) Params() Params {
	return t.params
}

// Render dispatches the whole image and waits for it. Device failures are
// returned as *DeviceError; cancelling ctx abandons the wait but not the dispatch.
func (t *Tracer) Render(ctx context.Context) (*image.RGBA, error) {
	kernel, err := t.bindKernel()
	if err != nil {
		return nil, &DeviceError{Op: "bind", Err: err}
	}

	groupsX, groupsY := GroupsFor(t.params.ImageWidth, t.params.ImageHeight)
	t.logger.Printf("Dispatching %dx%d workgroups for %dx%d image, %d samples per pixel...\n",
		groupsX, groupsY, t.params.ImageWidth, t.params.ImageHeight, t.params.SamplesPerPixel)

	start := time.Now()
	sub := t.device.Submit(Dispatch{GroupsX: groupsX, GroupsY: groupsY, Kernel: kernel})
	if err := sub.Wait(ctx); err != nil {
		return nil, err
	}
	t.logger.Printf("Done in %v\n", time.Since(start))

	width, height := int(t.params.ImageWidth), int(t.params.ImageHeight)
	return &image.RGBA{
		Pix:    kernel.output,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}

// bindKernel decodes the uploaded buffers into a kernel with a fresh output buffer
func (t *Tracer) bindKernel() (*PathTraceKernel, error) {
	var params Params
	if err := params.UnmarshalBinary(t.paramsBuf); err != nil {
		return nil, err
	}
	var camera PackedCamera
	if err := camera.UnmarshalBinary(t.cameraBuf); err != nil {
		return nil, err
	}
	spheres, err := DecodeSpheres(t.spheresBuf)
	if err != nil {
		return nil, err
	}
	if uint32(len(spheres)) != params.ObjectCount {
		return nil, fmt.Errorf("sphere buffer holds %d objects, params expect %d", len(spheres), params.ObjectCount)
	}

	output := make([]byte, int(params.ImageWidth)*int(params.ImageHeight)*4)
	return NewPathTraceKernel(params, camera, spheres, output), nil
}
