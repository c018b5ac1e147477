package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
)

// Scene interface to avoid circular imports
type Scene interface {
	GetCamera() *geometry.Camera
	GetWorld() integrator.World
	GetSamplingConfig() core.SamplingConfig
}

// RenderConfig contains the execution settings of the CPU renderer
type RenderConfig struct {
	TileSize   int   // Size of each square tile in pixels
	NumWorkers int   // Number of parallel workers (0 = use CPU count)
	Seed       int64 // Base seed for tile samplers (0 = seed from the clock)
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		TileSize:   16,
		NumWorkers: 0,
		Seed:       0,
	}
}

// Validate checks the execution settings
func (c RenderConfig) Validate() error {
	if c.TileSize <= 0 {
		return fmt.Errorf("%w: tile size %d", core.ErrInvalidConfig, c.TileSize)
	}
	if c.NumWorkers < 0 {
		return fmt.Errorf("%w: worker count %d", core.ErrInvalidConfig, c.NumWorkers)
	}
	return nil
}

// Raytracer renders a scene on the CPU, one tile per worker task
type Raytracer struct {
	scene        Scene
	config       core.SamplingConfig
	renderConfig RenderConfig
	integrator   integrator.Integrator
	logger       core.Logger
}

// NewRaytracer creates a new raytracer using the path tracing integrator
func NewRaytracer(scene Scene, renderConfig RenderConfig, logger core.Logger) (*Raytracer, error) {
	config := scene.GetSamplingConfig()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if err := renderConfig.Validate(); err != nil {
		return nil, err
	}
	if scene.GetCamera() == nil {
		return nil, fmt.Errorf("%w: scene has no camera", core.ErrInvalidConfig)
	}
	if logger == nil {
		logger = core.NopLogger{}
	}

	return &Raytracer{
		scene:        scene,
		config:       config,
		renderConfig: renderConfig,
		integrator:   integrator.NewPathTracingIntegrator(config.MaxDepth),
		logger:       logger,
	}, nil
}

// SamplePixel accumulates SamplesPerPixel radiance samples for pixel (i, j).
// j counts rows from the bottom of the image. The sum is returned unaveraged.
func (rt *Raytracer) SamplePixel(i, j int, sampler core.Sampler) core.Vec3 {
	camera := rt.scene.GetCamera()
	world := rt.scene.GetWorld()

	uSpan := float64(max(rt.config.Width-1, 1))
	vSpan := float64(max(rt.config.Height-1, 1))

	colorAccum := core.Vec3{X: 0, Y: 0, Z: 0}
	for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
		// Jitter inside the pixel footprint
		u := (float64(i) + sampler.Get1D()) / uSpan
		v := (float64(j) + sampler.Get1D()) / vSpan

		c := rt.integrator.RayColor(camera.GetRay(u, v), world, sampler)
		if !c.IsFinite() {
			// A numerically broken path contributes black
			continue
		}
		colorAccum = colorAccum.Add(c)
	}
	return colorAccum
}

// Render renders the whole image in parallel and blocks until every tile is done.
// Cancelling ctx skips tiles that have not started yet and returns ctx.Err().
func (rt *Raytracer) Render(ctx context.Context) (*image.RGBA, RenderStats, error) {
	startTime := time.Now()

	seed := rt.renderConfig.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	width, height := rt.config.Width, rt.config.Height
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	tiles := NewTileGrid(width, height, rt.renderConfig.TileSize, seed)

	tileRenderer := NewTileRenderer(rt)
	workerPool := NewWorkerPool(tileRenderer, rt.renderConfig.NumWorkers, len(tiles))

	rt.logger.Printf("Rendering %dx%d, %d samples per pixel, %d tiles on %d workers...\n",
		width, height, rt.config.SamplesPerPixel, len(tiles), workerPool.GetNumWorkers())

	workerPool.Start(ctx)
	for i, tile := range tiles {
		workerPool.SubmitTask(TileTask{
			Tile:   tile,
			Image:  img,
			TaskID: i,
		})
	}

	stats := RenderStats{
		Width:   width,
		Height:  height,
		Tiles:   len(tiles),
		Workers: workerPool.GetNumWorkers(),
		Seed:    seed,
	}

	var renderErr error
	for remaining := len(tiles); remaining > 0; remaining-- {
		result, ok := workerPool.GetResult()
		if !ok {
			renderErr = fmt.Errorf("worker pool closed unexpectedly")
			break
		}
		if result.Error != nil {
			if renderErr == nil {
				renderErr = result.Error
			}
			continue
		}
		stats.Merge(result.Stats)
		if remaining%max(1, len(tiles)/10) == 0 {
			rt.logger.Printf("Tiles remaining: %d\n", remaining-1)
		}
	}
	workerPool.Stop()

	if renderErr != nil {
		return nil, stats, renderErr
	}

	stats.Elapsed = time.Since(startTime)
	stats.AverageLuminance = CalculateAverageLuminance(img)
	rt.logger.Printf("Done in %v\n", stats.Elapsed)

	return img, stats, nil
}
