package renderer

import (
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
)

// shadowAcneEpsilon keeps secondary rays from re-hitting the surface they left
const shadowAcneEpsilon = 0.001

// RayColor returns the radiance carried back along ray.
// Recursion stops at black once depth is exhausted or a material absorbs the ray.
func RayColor(ray core.Ray, depth int, world geometry.Hittable, background Background, sampler core.Sampler) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, isHit := world.Hit(ray, core.NewInterval(shadowAcneEpsilon, math.Inf(1)))
	if !isHit {
		return background.Color(ray)
	}

	scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
	if !didScatter {
		return core.Vec3{} // Material absorbed the ray
	}

	return scatter.Attenuation.MultiplyVec(
		RayColor(scatter.Scattered, depth-1, world, background, sampler))
}

// SamplePixel averages SamplesPerPixel jittered radiance estimates for pixel i, j.
// The result is linear; use QuantizeColor to convert it for display.
func (c *Camera) SamplePixel(i, j int, world geometry.Hittable, sampler core.Sampler) core.Vec3 {
	pixelColor := core.Vec3{}
	for sample := 0; sample < c.config.SamplesPerPixel; sample++ {
		ray := c.GetRay(i, j, sampler)
		pixelColor = pixelColor.Add(RayColor(ray, c.config.MaxDepth, world, c.background, sampler))
	}
	return pixelColor.Multiply(c.pixelSamplesScale)
}

// renderRow traces every pixel of scanline j
func (c *Camera) renderRow(j int, world geometry.Hittable, sampler core.Sampler) []core.Vec3 {
	row := make([]core.Vec3, c.config.Width)
	for i := range row {
		row[i] = c.SamplePixel(i, j, world, sampler)
	}
	return row
}
