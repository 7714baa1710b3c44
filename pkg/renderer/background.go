package renderer

import "github.com/df07/go-weekend-raytracer/pkg/core"

// Background supplies the radiance of rays that leave the scene.
// A camera holds exactly one background.
type Background interface {
	Color(ray core.Ray) core.Vec3
}

// GradientBackground blends vertically between two colors based on the
// ray's unit direction.
type GradientBackground struct {
	Bottom core.Vec3 // Color looking straight down
	Top    core.Vec3 // Color looking straight up
}

// NewGradientBackground creates a vertical gradient
func NewGradientBackground(bottom, top core.Vec3) *GradientBackground {
	return &GradientBackground{Bottom: bottom, Top: top}
}

// NewSkyGradient returns the white to sky-blue gradient used when no
// background is configured.
func NewSkyGradient() *GradientBackground {
	return NewGradientBackground(core.NewVec3(1.0, 1.0, 1.0), core.NewVec3(0.5, 0.7, 1.0))
}

// Color returns the gradient color for the ray direction
func (g *GradientBackground) Color(ray core.Ray) core.Vec3 {
	unitDirection := ray.Direction.Normalize()

	// Map y from [-1,1] to [0,1]
	a := 0.5 * (unitDirection.Y + 1.0)
	return g.Bottom.Lerp(g.Top, a)
}

// SolidBackground returns the same radiance for every escaping ray
type SolidBackground struct {
	Radiance core.Vec3
}

// NewSolidBackground creates a flat background
func NewSolidBackground(radiance core.Vec3) *SolidBackground {
	return &SolidBackground{Radiance: radiance}
}

// Color returns the flat background radiance
func (s *SolidBackground) Color(ray core.Ray) core.Vec3 {
	return s.Radiance
}
