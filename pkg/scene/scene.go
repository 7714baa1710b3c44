package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-weekend-raytracer/pkg/config"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// ErrUnknownScene is returned when a scene name matches no built-in scene
var ErrUnknownScene = errors.New("unknown scene")

// DefaultSceneName is used when a config names neither a scene nor objects
const DefaultSceneName = "three-spheres"

// Scene contains all the elements needed for rendering
type Scene struct {
	Name         string
	CameraConfig renderer.CameraConfig
	World        *geometry.HittableList
}

// Camera compiles the scene's camera configuration
func (s *Scene) Camera() *renderer.Camera {
	return renderer.NewCamera(s.CameraConfig)
}

// Add appends objects to the scene
func (s *Scene) Add(objects ...geometry.Hittable) {
	for _, object := range objects {
		s.World.Add(object)
	}
}

func newScene(name string, cameraConfig renderer.CameraConfig) *Scene {
	return &Scene{
		Name:         name,
		CameraConfig: cameraConfig,
		World:        geometry.NewHittableList(),
	}
}

type builtin struct {
	info  SceneInfo
	build func(seed int64) *Scene
}

var builtins = map[string]builtin{
	"single-sphere": {
		info:  builtinInfo("single-sphere", "Single Sphere", "One diffuse sphere seen head-on"),
		build: func(int64) *Scene { return NewSingleSphereScene() },
	},
	"three-spheres": {
		info:  builtinInfo("three-spheres", "Three Spheres", "Diffuse, hollow glass and metal spheres on a ground sphere"),
		build: func(int64) *Scene { return NewDefaultScene() },
	},
	"sphere-grid": {
		info:  builtinInfo("sphere-grid", "Sphere Grid", "10x10 grid of rainbow-colored metallic spheres"),
		build: func(int64) *Scene { return NewSphereGridScene() },
	},
	"weekend": {
		info:  builtinInfo("weekend", "Weekend Cover", "Randomized field of small spheres around three large ones"),
		build: NewWeekendScene,
	},
	"floating-spheres": {
		info:  builtinInfo("floating-spheres", "Floating Spheres", "Small spheres under a flat sky-colored background"),
		build: func(int64) *Scene { return NewFloatingSpheresScene() },
	},
}

func builtinInfo(id, name, description string) SceneInfo {
	return SceneInfo{
		ID:          id,
		Name:        name,
		DisplayName: name,
		Description: description,
		Group:       builtinGroup,
		Type:        "builtin",
	}
}

// ListBuiltinScenes returns the built-in scenes sorted by ID
func ListBuiltinScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtins))
	for _, b := range builtins {
		scenes = append(scenes, b.info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].ID < scenes[j].ID
	})
	return scenes
}

// New builds the named built-in scene. seed only affects randomized scenes.
func New(name string, seed int64) (*Scene, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("scene %q: %w", name, ErrUnknownScene)
	}
	return b.build(seed), nil
}

// FromConfig builds the scene a config describes: its own objects if it
// lists any, otherwise a built-in scene. Camera and sampling settings in the
// config override the scene's.
func FromConfig(cfg *config.Config) (*Scene, error) {
	if len(cfg.Objects) > 0 {
		world, err := cfg.BuildWorld()
		if err != nil {
			return nil, fmt.Errorf("while building world: %w", err)
		}
		return &Scene{
			Name:         "custom",
			CameraConfig: cfg.ApplyCamera(renderer.DefaultCameraConfig()),
			World:        world,
		}, nil
	}

	name := cfg.Scene.Name
	if name == "" {
		name = DefaultSceneName
	}

	s, err := New(name, cfg.Scene.Seed)
	if err != nil {
		return nil, err
	}
	s.CameraConfig = cfg.ApplyCamera(s.CameraConfig)
	return s, nil
}
