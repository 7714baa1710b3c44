package renderer

import (
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// CameraConfig contains all camera configuration parameters
type CameraConfig struct {
	Center          core.Vec3  // Camera position (look-from)
	LookAt          core.Vec3  // Point the camera is looking at
	Up              core.Vec3  // Up direction (usually 0,1,0)
	Width           int        // Image width in pixels
	AspectRatio     float64    // Width/height ratio
	VFov            float64    // Vertical field of view in degrees
	DefocusAngle    float64    // Variation angle of rays through each pixel, in degrees (0 = pinhole)
	FocusDistance   float64    // Distance from camera center to the plane of perfect focus
	SamplesPerPixel int        // Random samples for each pixel
	MaxDepth        int        // Maximum number of ray bounces
	Background      Background // Color returned for rays that escape the scene (nil = sky gradient)
}

// DefaultCameraConfig returns the baseline camera: a 100px square pinhole
// looking down -Z with a 90 degree field of view.
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Center:          core.NewVec3(0, 0, 0),
		LookAt:          core.NewVec3(0, 0, -1),
		Up:              core.NewVec3(0, 1, 0),
		Width:           100,
		AspectRatio:     1.0,
		VFov:            90,
		DefocusAngle:    0,
		FocusDistance:   10,
		SamplesPerPixel: 10,
		MaxDepth:        10,
	}
}

// Camera is the compiled form of a CameraConfig. All derived state is computed
// once by NewCamera and never changes, so a Camera can be shared by any number
// of render workers.
type Camera struct {
	config CameraConfig

	imageHeight       int
	pixelSamplesScale float64 // Color scale factor for a sum of pixel samples

	center       core.Vec3 // Camera center
	pixel00      core.Vec3 // Location of pixel (0, 0)
	pixelDeltaU  core.Vec3 // Offset to pixel to the right
	pixelDeltaV  core.Vec3 // Offset to pixel below
	u, v, w      core.Vec3 // Camera frame basis vectors
	defocusDiskU core.Vec3 // Defocus disk horizontal radius
	defocusDiskV core.Vec3 // Defocus disk vertical radius
	background   Background
}

// NewCamera derives the viewport geometry from config
func NewCamera(config CameraConfig) *Camera {
	imageHeight := max(1, int(float64(config.Width)/config.AspectRatio))

	background := config.Background
	if background == nil {
		background = NewSkyGradient()
	}

	center := config.Center

	// Viewport dimensions at the focus plane
	theta := core.DegreesToRadians(config.VFov)
	h := math.Tan(theta / 2)
	viewportHeight := 2 * h * config.FocusDistance
	viewportWidth := viewportHeight * (float64(config.Width) / float64(imageHeight))

	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	// Vectors across the horizontal and down the vertical viewport edges
	viewportU := u.Multiply(viewportWidth)
	viewportV := v.Negate().Multiply(viewportHeight)

	pixelDeltaU := viewportU.Divide(float64(config.Width))
	pixelDeltaV := viewportV.Divide(float64(imageHeight))

	viewportUpperLeft := center.
		Subtract(w.Multiply(config.FocusDistance)).
		Subtract(viewportU.Multiply(0.5)).
		Subtract(viewportV.Multiply(0.5))
	pixel00 := viewportUpperLeft.Add(pixelDeltaU.Add(pixelDeltaV).Multiply(0.5))

	defocusRadius := config.FocusDistance * math.Tan(core.DegreesToRadians(config.DefocusAngle/2))

	return &Camera{
		config:            config,
		imageHeight:       imageHeight,
		pixelSamplesScale: 1.0 / float64(config.SamplesPerPixel),
		center:            center,
		pixel00:           pixel00,
		pixelDeltaU:       pixelDeltaU,
		pixelDeltaV:       pixelDeltaV,
		u:                 u,
		v:                 v,
		w:                 w,
		defocusDiskU:      u.Multiply(defocusRadius),
		defocusDiskV:      v.Multiply(defocusRadius),
		background:        background,
	}
}

// Width returns the image width in pixels
func (c *Camera) Width() int { return c.config.Width }

// Height returns the derived image height in pixels (at least 1)
func (c *Camera) Height() int { return c.imageHeight }

// SamplesPerPixel returns the number of rays traced per pixel
func (c *Camera) SamplesPerPixel() int { return c.config.SamplesPerPixel }

// MaxDepth returns the bounce limit
func (c *Camera) MaxDepth() int { return c.config.MaxDepth }

// Background returns the color source for escaping rays
func (c *Camera) Background() Background { return c.background }

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig { return c.config }

// GetCameraForward returns the unit direction the camera is looking
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.w.Negate()
}

// GetRay constructs a camera ray originating from the defocus disk and
// directed at a randomly sampled point around the pixel location i, j.
func (c *Camera) GetRay(i, j int, sampler core.Sampler) core.Ray {
	offset := core.SampleSquare(sampler)
	pixelSample := c.pixel00.
		Add(c.pixelDeltaU.Multiply(float64(i) + offset.X)).
		Add(c.pixelDeltaV.Multiply(float64(j) + offset.Y))

	rayOrigin := c.center
	if c.config.DefocusAngle > 0 {
		rayOrigin = c.defocusDiskSample(sampler)
	}

	return core.NewRay(rayOrigin, pixelSample.Subtract(rayOrigin))
}

// defocusDiskSample returns a random point in the camera defocus disk
func (c *Camera) defocusDiskSample(sampler core.Sampler) core.Vec3 {
	p := core.RandomInUnitDisk(sampler)
	return c.center.Add(c.defocusDiskU.Multiply(p.X)).Add(c.defocusDiskV.Multiply(p.Y))
}
