package renderer

import (
	"image"
)

// TileRenderer handles the actual rendering of individual tiles
type TileRenderer struct {
	raytracer *Raytracer
}

// NewTileRenderer creates a new tile renderer for the given raytracer
func NewTileRenderer(raytracer *Raytracer) *TileRenderer {
	return &TileRenderer{raytracer: raytracer}
}

// RenderTile samples every pixel of tile and writes the quantized colors into img.
// Tiles have non-overlapping bounds, so concurrent calls on one image are safe.
func (tr *TileRenderer) RenderTile(tile *Tile, img *image.RGBA) RenderStats {
	samples := tr.raytracer.config.SamplesPerPixel
	height := tr.raytracer.config.Height
	bounds := tile.Bounds

	stats := RenderStats{TotalPixels: bounds.Dx() * bounds.Dy()}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		// Image rows run top to bottom, camera rows bottom to top
		j := height - 1 - y
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			sum := tr.raytracer.SamplePixel(i, j, tile.Sampler)
			img.SetRGBA(i, y, QuantizeColor(sum, samples))
			stats.TotalSamples += samples
		}
	}

	return stats
}
