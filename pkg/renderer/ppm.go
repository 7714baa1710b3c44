package renderer

import (
	"bufio"
	"fmt"
	"image"
	"io"
)

// WritePPMHeader writes the plain-text P3 header for a width x height image
// with a maximum channel value of 255.
func WritePPMHeader(w io.Writer, width, height int) error {
	_, err := fmt.Fprintf(w, "P3\n%d %d\n255\n", width, height)
	return err
}

// EncodePPM writes img as a P3 image, one pixel per line in raster order.
// Alpha is ignored.
func EncodePPM(w io.Writer, img *image.RGBA) error {
	bw := bufio.NewWriter(w)
	bounds := img.Bounds()
	if err := WritePPMHeader(bw, bounds.Dx(), bounds.Dy()); err != nil {
		return fmt.Errorf("while writing ppm header: %w", err)
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", c.R, c.G, c.B); err != nil {
				return fmt.Errorf("while writing pixel (%d, %d): %w", x, y, err)
			}
		}
	}

	return bw.Flush()
}
