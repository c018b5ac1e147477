package core

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned (wrapped) for any rejected configuration value
var ErrInvalidConfig = errors.New("invalid configuration")

// SamplingConfig contains the image and estimator settings of a render
type SamplingConfig struct {
	Width           int // Image width in pixels
	Height          int // Image height in pixels
	SamplesPerPixel int // Number of jittered rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// DefaultSamplingConfig returns the reference render settings (400px wide, 16:9)
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 50,
		MaxDepth:        50,
	}
}

// Validate checks that every field is usable
func (c SamplingConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.SamplesPerPixel <= 0 {
		return fmt.Errorf("%w: samples per pixel %d", ErrInvalidConfig, c.SamplesPerPixel)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("%w: max depth %d", ErrInvalidConfig, c.MaxDepth)
	}
	return nil
}

// HeightForAspect returns the image height for a width and aspect ratio, at least 1
func HeightForAspect(width int, aspectRatio float64) int {
	return max(1, int(float64(width)/aspectRatio))
}
