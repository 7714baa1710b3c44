package scene

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// NewFloatingSpheresScene creates a 3x3 block of diffuse spheres with two
// small spheres floating above it, lit only by a flat pale-blue background.
func NewFloatingSpheresScene() *Scene {
	cameraConfig := renderer.CameraConfig{
		Center:          core.NewVec3(8, 5, 2),
		LookAt:          core.NewVec3(1, 1, 1.5),
		Up:              core.NewVec3(0, 1, 0),
		Width:           800,
		AspectRatio:     16.0 / 9.0,
		VFov:            20,
		DefocusAngle:    0,
		FocusDistance:   10,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		Background:      renderer.NewSolidBackground(core.NewVec3(0.70, 0.80, 1.00)),
	}

	s := newScene("floating-spheres", cameraConfig)

	ground := material.NewLambertian(core.NewVec3(0.35, 0.55, 0.2))
	block := material.NewLambertian(core.NewVec3(0.5, 0.25, 0.1))
	pearl := material.NewMetal(core.NewVec3(0.1, 0.5, 0.4), 0.2)
	fireball := material.NewLambertian(core.NewVec3(0.9, 0.35, 0.05))
	// Albedo above one brightens whatever it reflects
	glow := material.NewLambertian(core.NewVec3(4, 4, 4))

	s.Add(geometry.NewSphere(core.NewVec3(1.5, -1000, 1.5), 1000, ground))

	const size, spacing = 1.0, 0.01
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			x := float64(col)*(size+spacing) + size/2
			z := float64(row)*(size+spacing) + size/2
			s.Add(geometry.NewSphere(core.NewVec3(x, size/2, z), size/2, block))
		}
	}

	s.Add(
		geometry.NewSphere(core.NewVec3(2.5, size+0.5, 2.5), 0.3, pearl),
		geometry.NewSphere(core.NewVec3(0.5, size+0.5, 0.5), 0.3, fireball),
		geometry.NewSphere(core.NewVec3(5, 5, -5), 1.0, glow),
	)

	return s
}
