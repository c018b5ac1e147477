package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/df07/go-sphere-pathtracer/pkg/compute"
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

// Config holds the command line options
type Config struct {
	SceneType string
	Width     int    // 0 keeps the scene's width
	Samples   int    // 0 keeps the scene's samples per pixel
	MaxDepth  int    // -1 keeps the scene's depth
	Workers   int    // CPU workers or compute parallelism (0 = CPU count)
	Seed      int64  // 0 seeds from the clock
	Backend   string // "cpu" or "compute"
	Format    string // "png" or "ppm"
	Output    string // Output path, "-" for stdout, empty for output/<scene>/render_<timestamp>.<format>
}

func main() {
	config := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, config, newLogger(config)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() Config {
	config := Config{}
	flag.StringVar(&config.SceneType, "scene", "default", "Scene to render (see -help)")
	flag.IntVar(&config.Width, "width", 0, "Image width in pixels; height follows the camera aspect (0 = scene default)")
	flag.IntVar(&config.Samples, "spp", 0, "Samples per pixel (0 = scene default)")
	flag.IntVar(&config.MaxDepth, "depth", -1, "Maximum bounce depth (-1 = scene default)")
	flag.IntVar(&config.Workers, "workers", 0, "Number of parallel workers (0 = auto)")
	flag.Int64Var(&config.Seed, "seed", 0, "Random seed for reproducible renders (0 = from clock)")
	flag.StringVar(&config.Backend, "backend", "cpu", "Renderer: 'cpu' (tiled recursive) or 'compute' (data-parallel dispatch)")
	flag.StringVar(&config.Format, "format", "png", "Output format: 'png' or 'ppm'")
	flag.StringVar(&config.Output, "out", "", "Output file, '-' for stdout (default output/<scene>/render_<timestamp>.<format>)")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		showHelp()
		os.Exit(0)
	}
	return config
}

func showHelp() {
	fmt.Println("Sphere Path Tracer")
	fmt.Println("Usage: pathtracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	for _, info := range scene.List() {
		fmt.Printf("  %-14s - %s\n", info.ID, info.Description)
	}
	fmt.Println()
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.<format>")
}

// newLogger keeps progress off stdout when the image is streamed there
func newLogger(config Config) core.Logger {
	if config.Output == "-" {
		return renderer.NewLogger(os.Stderr)
	}
	return renderer.NewDefaultLogger()
}

// run renders the configured scene and writes the image
func run(ctx context.Context, config Config, logger core.Logger) error {
	if config.Format != "png" && config.Format != "ppm" {
		return fmt.Errorf("%w: unknown format %q", core.ErrInvalidConfig, config.Format)
	}

	s, err := createScene(config)
	if err != nil {
		return err
	}
	sampling := s.GetSamplingConfig()
	logger.Printf("Scene %s: %d spheres, %dx%d, %d spp, depth %d\n", config.SceneType,
		s.GetPrimitiveCount(), sampling.Width, sampling.Height, sampling.SamplesPerPixel, sampling.MaxDepth)

	img, err := render(ctx, s, config, logger)
	if err != nil {
		return err
	}

	return writeOutput(img, config, logger)
}

// createScene builds the named scene and applies the size and sampling overrides
func createScene(config Config) (*scene.Scene, error) {
	s, err := scene.New(config.SceneType)
	if err != nil {
		return nil, err
	}

	if config.Width > 0 {
		if err := s.SetWidth(config.Width); err != nil {
			return nil, err
		}
	}
	if config.Samples > 0 {
		s.SamplingConfig.SamplesPerPixel = config.Samples
	}
	if config.MaxDepth >= 0 {
		s.SamplingConfig.MaxDepth = config.MaxDepth
	}

	if err := s.SamplingConfig.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func render(ctx context.Context, s *scene.Scene, config Config, logger core.Logger) (image.Image, error) {
	switch config.Backend {
	case "cpu":
		renderConfig := renderer.DefaultRenderConfig()
		renderConfig.NumWorkers = config.Workers
		renderConfig.Seed = config.Seed

		rt, err := renderer.NewRaytracer(s, renderConfig, logger)
		if err != nil {
			return nil, err
		}
		img, stats, err := rt.Render(ctx)
		if err != nil {
			return nil, err
		}
		logger.Printf("Render completed in %v (%d samples, seed %d)\n", stats.Elapsed, stats.TotalSamples, stats.Seed)
		return img, nil

	case "compute":
		tracer, err := compute.NewTracer(compute.NewCPUDevice(config.Workers), s, config.Seed, logger)
		if err != nil {
			return nil, err
		}
		return tracer.Render(ctx)

	default:
		return nil, fmt.Errorf("%w: unknown backend %q", core.ErrInvalidConfig, config.Backend)
	}
}

func writeOutput(img image.Image, config Config, logger core.Logger) error {
	encode := renderer.WritePNG
	if config.Format == "ppm" {
		encode = renderer.WritePPM
	}

	if config.Output == "-" {
		return encode(os.Stdout, img)
	}

	filename := config.Output
	if filename == "" {
		outputDir := filepath.Join("output", config.SceneType)
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		timestamp := time.Now().Format("20060102_150405")
		filename = filepath.Join(outputDir, fmt.Sprintf("render_%s.%s", timestamp, config.Format))
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writeAndClose(file, img, encode); err != nil {
		return err
	}

	logger.Printf("Render saved as %s\n", filename)
	return nil
}

func writeAndClose(file io.WriteCloser, img image.Image, encode func(io.Writer, image.Image) error) error {
	if err := encode(file, img); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}
