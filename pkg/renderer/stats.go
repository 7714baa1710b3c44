package renderer

import (
	"image"
	"time"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width           int           // Image width in pixels
	Height          int           // Image height in pixels
	TotalPixels     int           // Total number of pixels rendered
	TotalSamples    int           // Total number of camera rays traced
	SamplesPerPixel int           // Samples taken for every pixel
	MaxDepth        int           // Bounce limit used
	Workers         int           // Scanlines rendered concurrently
	Elapsed         time.Duration // Wall-clock render time
}

// newRenderStats initializes statistics for a camera
func newRenderStats(camera *Camera, workers int) RenderStats {
	return RenderStats{
		Width:           camera.Width(),
		Height:          camera.Height(),
		SamplesPerPixel: camera.SamplesPerPixel(),
		MaxDepth:        camera.MaxDepth(),
		Workers:         workers,
	}
}

// addRow records a completed scanline
func (s *RenderStats) addRow(pixels int) {
	s.TotalPixels += pixels
	s.TotalSamples += pixels * s.SamplesPerPixel
}

// SamplesPerSecond returns camera rays traced per second of wall time
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Elapsed.Seconds()
}

// CalculateAverageLuminance computes the average luminance of an image using
// Rec. 709 weights. Pixels are read as stored, without undoing gamma.
func CalculateAverageLuminance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			r := float64(c.R) / 255.0
			g := float64(c.G) / 255.0
			b := float64(c.B) / 255.0
			total += 0.2126*r + 0.7152*g + 0.0722*b
		}
	}

	return total / float64(pixels)
}
