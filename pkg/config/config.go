package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v2"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

var (
	// ErrUnknownMaterial is returned when an object names a material that is not defined
	ErrUnknownMaterial = errors.New("unknown material")
	// ErrUnknownMaterialType is returned for a material type other than lambertian, metal or dielectric
	ErrUnknownMaterialType = errors.New("unknown material type")
	// ErrInvalidVector is returned when a vector does not have exactly three components
	ErrInvalidVector = errors.New("vector must have three components")
	// ErrInvalidValue is returned for out of range settings
	ErrInvalidValue = errors.New("invalid value")
	// ErrAmbiguousScene is returned when both a preset name and explicit objects are given
	ErrAmbiguousScene = errors.New("scene name and objects are mutually exclusive")
)

// Material types understood by BuildWorld
const (
	MaterialLambertian = "lambertian"
	MaterialMetal      = "metal"
	MaterialDielectric = "dielectric"
)

// Config represents a render description
type Config struct {
	Scene     SceneConfig               `yaml:"scene"`
	Camera    CameraConfig              `yaml:"camera"`
	Sampling  SamplingConfig            `yaml:"sampling"`
	Output    OutputConfig              `yaml:"output"`
	Materials map[string]MaterialConfig `yaml:"materials,omitempty"`
	Objects   []SphereConfig            `yaml:"objects,omitempty"`
}

// SceneConfig selects a built-in scene
type SceneConfig struct {
	Name string `yaml:"name,omitempty"` // Built-in scene; empty selects the default unless objects are listed
	Seed int64  `yaml:"seed"`           // Seed for randomized scenes and for rendering
}

// CameraConfig contains camera overrides. Zero or empty values keep the
// scene's own setting.
type CameraConfig struct {
	Width           int     `yaml:"width,omitempty"`
	AspectRatio     float64 `yaml:"aspect_ratio,omitempty"`
	VFov            float64 `yaml:"vfov,omitempty"`
	LookFrom        Vector  `yaml:"look_from,omitempty"`
	LookAt          Vector  `yaml:"look_at,omitempty"`
	Up              Vector  `yaml:"vup,omitempty"`
	DefocusAngle    float64 `yaml:"defocus_angle,omitempty"`
	FocusDistance   float64 `yaml:"focus_dist,omitempty"`
	BackgroundColor Vector  `yaml:"background_color,omitempty"` // Flat background; empty keeps the scene's
}

// SamplingConfig contains sampling settings
type SamplingConfig struct {
	SamplesPerPixel int `yaml:"samples_per_pixel,omitempty"`
	MaxDepth        int `yaml:"max_depth,omitempty"`
	Workers         int `yaml:"workers,omitempty"` // 0 = use CPU count
}

// OutputConfig contains output settings
type OutputConfig struct {
	Path string `yaml:"path"` // .ppm or .png; "-" writes PPM to stdout
}

// MaterialConfig describes one named material
type MaterialConfig struct {
	Type            string  `yaml:"type"`
	Albedo          Vector  `yaml:"albedo,omitempty"`
	Fuzz            float64 `yaml:"fuzz,omitempty"`
	RefractionIndex float64 `yaml:"refraction_index,omitempty"`
}

// SphereConfig describes one sphere. Material refers to a key of Materials.
type SphereConfig struct {
	Center   Vector  `yaml:"center"`
	Radius   float64 `yaml:"radius"`
	Material string  `yaml:"material"`
}

// Vector is a YAML sequence of three numbers
type Vector []float64

// NewVector converts a core.Vec3 to its YAML form
func NewVector(v core.Vec3) Vector {
	return Vector{v.X, v.Y, v.Z}
}

// Vec3 converts the vector. It must have been validated first.
func (v Vector) Vec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

func (v Vector) validate(field string, optional bool) error {
	if optional && len(v) == 0 {
		return nil
	}
	if len(v) != 3 {
		return fmt.Errorf("%s has %d components: %w", field, len(v), ErrInvalidVector)
	}
	return nil
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	return &Config{
		Scene: SceneConfig{
			Seed: 42,
		},
		Output: OutputConfig{
			Path: "image.ppm",
		},
	}
}

// LoadConfig loads the configuration from a file, layered over DefaultConfig
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("while reading config %s: %w", filePath, err)
	}

	config, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("while loading config %s: %w", filePath, err)
	}
	return config, nil
}

// Parse decodes and validates YAML configuration data
func Parse(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.UnmarshalStrict(data, config); err != nil {
		return nil, fmt.Errorf("while parsing config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, filePath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("while serializing config: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("while writing config %s: %w", filePath, err)
	}
	return nil
}

// Validate checks ranges, vector shapes and material references
func (c *Config) Validate() error {
	if c.Scene.Name != "" && len(c.Objects) > 0 {
		return ErrAmbiguousScene
	}

	if c.Camera.Width < 0 {
		return fmt.Errorf("camera.width %d: %w", c.Camera.Width, ErrInvalidValue)
	}
	if c.Camera.AspectRatio < 0 {
		return fmt.Errorf("camera.aspect_ratio %g: %w", c.Camera.AspectRatio, ErrInvalidValue)
	}
	if c.Camera.VFov < 0 || c.Camera.VFov >= 180 {
		return fmt.Errorf("camera.vfov %g: %w", c.Camera.VFov, ErrInvalidValue)
	}
	if c.Camera.FocusDistance < 0 {
		return fmt.Errorf("camera.focus_dist %g: %w", c.Camera.FocusDistance, ErrInvalidValue)
	}
	if c.Sampling.SamplesPerPixel < 0 {
		return fmt.Errorf("sampling.samples_per_pixel %d: %w", c.Sampling.SamplesPerPixel, ErrInvalidValue)
	}
	if c.Sampling.MaxDepth < 0 {
		return fmt.Errorf("sampling.max_depth %d: %w", c.Sampling.MaxDepth, ErrInvalidValue)
	}

	vectors := []struct {
		field string
		v     Vector
	}{
		{"camera.look_from", c.Camera.LookFrom},
		{"camera.look_at", c.Camera.LookAt},
		{"camera.vup", c.Camera.Up},
		{"camera.background_color", c.Camera.BackgroundColor},
	}
	for _, vec := range vectors {
		if err := vec.v.validate(vec.field, true); err != nil {
			return err
		}
	}

	for _, name := range c.materialNames() {
		if err := c.Materials[name].validate(name); err != nil {
			return err
		}
	}

	for i, object := range c.Objects {
		if err := object.Center.validate(fmt.Sprintf("objects[%d].center", i), false); err != nil {
			return err
		}
		if _, ok := c.Materials[object.Material]; !ok {
			return fmt.Errorf("objects[%d] references %q: %w", i, object.Material, ErrUnknownMaterial)
		}
	}

	return nil
}

func (m MaterialConfig) validate(name string) error {
	field := fmt.Sprintf("materials.%s", name)
	switch m.Type {
	case MaterialLambertian, MaterialMetal:
		return m.Albedo.validate(field+".albedo", false)
	case MaterialDielectric:
		if m.RefractionIndex <= 0 {
			return fmt.Errorf("%s.refraction_index %g: %w", field, m.RefractionIndex, ErrInvalidValue)
		}
		return nil
	default:
		return fmt.Errorf("%s type %q: %w", field, m.Type, ErrUnknownMaterialType)
	}
}

// materialNames returns material keys in a stable order
func (c *Config) materialNames() []string {
	names := make([]string, 0, len(c.Materials))
	for name := range c.Materials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build creates the material described by m
func (m MaterialConfig) Build() (material.Material, error) {
	switch m.Type {
	case MaterialLambertian:
		return material.NewLambertian(m.Albedo.Vec3()), nil
	case MaterialMetal:
		return material.NewMetal(m.Albedo.Vec3(), m.Fuzz), nil
	case MaterialDielectric:
		return material.NewDielectric(m.RefractionIndex), nil
	default:
		return nil, fmt.Errorf("material type %q: %w", m.Type, ErrUnknownMaterialType)
	}
}

// BuildWorld creates the spheres listed in Objects. Each named material is
// built once and shared by every sphere that references it.
func (c *Config) BuildWorld() (*geometry.HittableList, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	materials := make(map[string]material.Material, len(c.Materials))
	for _, name := range c.materialNames() {
		mat, err := c.Materials[name].Build()
		if err != nil {
			return nil, fmt.Errorf("while building material %s: %w", name, err)
		}
		materials[name] = mat
	}

	world := geometry.NewHittableList()
	for _, object := range c.Objects {
		world.Add(geometry.NewSphere(object.Center.Vec3(), object.Radius, materials[object.Material]))
	}
	return world, nil
}

// ApplyCamera overlays the camera and sampling settings on base
func (c *Config) ApplyCamera(base renderer.CameraConfig) renderer.CameraConfig {
	camera := base

	if c.Camera.Width > 0 {
		camera.Width = c.Camera.Width
	}
	if c.Camera.AspectRatio > 0 {
		camera.AspectRatio = c.Camera.AspectRatio
	}
	if c.Camera.VFov > 0 {
		camera.VFov = c.Camera.VFov
	}
	if len(c.Camera.LookFrom) == 3 {
		camera.Center = c.Camera.LookFrom.Vec3()
	}
	if len(c.Camera.LookAt) == 3 {
		camera.LookAt = c.Camera.LookAt.Vec3()
	}
	if len(c.Camera.Up) == 3 {
		camera.Up = c.Camera.Up.Vec3()
	}
	if c.Camera.DefocusAngle > 0 {
		camera.DefocusAngle = c.Camera.DefocusAngle
	}
	if c.Camera.FocusDistance > 0 {
		camera.FocusDistance = c.Camera.FocusDistance
	}
	if len(c.Camera.BackgroundColor) == 3 {
		camera.Background = renderer.NewSolidBackground(c.Camera.BackgroundColor.Vec3())
	}
	if c.Sampling.SamplesPerPixel > 0 {
		camera.SamplesPerPixel = c.Sampling.SamplesPerPixel
	}
	if c.Sampling.MaxDepth > 0 {
		camera.MaxDepth = c.Sampling.MaxDepth
	}

	return camera
}

// RenderOptions returns the renderer options implied by the config
func (c *Config) RenderOptions() renderer.RenderOptions {
	opts := renderer.DefaultRenderOptions()
	opts.Workers = c.Sampling.Workers
	opts.Seed = c.Scene.Seed
	return opts
}
