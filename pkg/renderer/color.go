package renderer

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// intensity is the channel range before scaling to [0, 255]
var intensity = core.NewInterval(0.000, 0.999)

// LinearToGamma applies the gamma 2 transform. Non-positive input maps to 0.
func LinearToGamma(linearComponent float64) float64 {
	if linearComponent > 0 {
		return math.Sqrt(linearComponent)
	}
	return 0
}

// QuantizeColor converts a linear color to 8-bit sRGB-ish channels.
// Out of range channels are clamped, so the result never overflows.
func QuantizeColor(pixelColor core.Vec3) color.RGBA {
	return color.RGBA{
		R: quantize(pixelColor.X),
		G: quantize(pixelColor.Y),
		B: quantize(pixelColor.Z),
		A: 255,
	}
}

func quantize(linear float64) uint8 {
	return uint8(int(256 * intensity.Clamp(LinearToGamma(linear))))
}

// WriteColor writes one pixel as an "R G B" line
func WriteColor(w io.Writer, pixelColor core.Vec3) error {
	c := QuantizeColor(pixelColor)
	_, err := fmt.Fprintf(w, "%d %d %d\n", c.R, c.G, c.B)
	return err
}
