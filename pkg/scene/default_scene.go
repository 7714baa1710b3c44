package scene

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// NewDefaultScene creates a default scene with spheres, ground, and camera
func NewDefaultScene() *Scene {
	cameraConfig := renderer.CameraConfig{
		Center:          core.NewVec3(-2, 2, 1),
		LookAt:          core.NewVec3(0, 0, -1),
		Up:              core.NewVec3(0, 1, 0),
		Width:           400,
		AspectRatio:     16.0 / 9.0,
		VFov:            20.0,
		DefocusAngle:    10.0,
		FocusDistance:   3.4,
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}

	s := newScene(DefaultSceneName, cameraConfig)

	// Create materials
	materialGround := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	materialCenter := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	materialGlass := material.NewDielectric(1.50)
	materialBubble := material.NewDielectric(1.00 / 1.50)
	metalGold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 1.0)

	s.Add(
		geometry.NewSphere(core.NewVec3(0.0, -100.5, -1.0), 100.0, materialGround),
		geometry.NewSphere(core.NewVec3(0.0, 0.0, -1.2), 0.5, materialCenter),
		// Hollow glass: an air bubble inside a glass shell
		geometry.NewSphere(core.NewVec3(-1.0, 0.0, -1.0), 0.5, materialGlass),
		geometry.NewSphere(core.NewVec3(-1.0, 0.0, -1.0), 0.4, materialBubble),
		geometry.NewSphere(core.NewVec3(1.0, 0.0, -1.0), 0.5, metalGold),
	)

	return s
}

// NewSingleSphereScene creates one diffuse sphere at the origin viewed from
// (0,0,1) with a 90 degree field of view.
func NewSingleSphereScene() *Scene {
	cameraConfig := renderer.DefaultCameraConfig()
	cameraConfig.Center = core.NewVec3(0, 0, 1)
	cameraConfig.LookAt = core.NewVec3(0, 0, 0)
	cameraConfig.VFov = 90

	s := newScene("single-sphere", cameraConfig)
	s.Add(geometry.NewSphere(core.NewVec3(0, 0, 0), 0.5, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))))
	return s
}
