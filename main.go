package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/df07/go-weekend-raytracer/pkg/config"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

var cmdRoot = &cobra.Command{
	Use:   "raytracer",
	Short: "Render sphere scenes with a Monte-Carlo path tracer",
}

var (
	configPath string
	sceneID    string
	scenesDir  string
	outputPath string
	width      int
	samples    int
	depth      int
	workers    int
	seed       int64
)

var cmdRender = &cobra.Command{
	Use:   "render",
	Short: "Render a scene to a PPM or PNG image",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		s, err := createScene(cfg, sceneID, scenesDir)
		if err != nil {
			return fmt.Errorf("while creating scene: %w", err)
		}

		opts := cfg.RenderOptions()
		opts.Progress = os.Stderr
		opts.Logger = renderer.NewDefaultLogger()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		glog.Infof("Rendering scene %q to %s", s.Name, cfg.Output.Path)
		stats, err := renderToPath(ctx, s, opts, cfg.Output.Path, cmd.OutOrStdout())
		if err != nil {
			return fmt.Errorf("while rendering %q: %w", s.Name, err)
		}

		glog.Infof("Rendered %d pixels in %v", stats.TotalPixels, stats.Elapsed)
		return nil
	},
}

var cmdScenes = &cobra.Command{
	Use:   "scenes",
	Short: "List built-in scenes and scene files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		response, err := scene.ListAllScenes(scenesDir)
		if err != nil {
			return fmt.Errorf("while listing scenes: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, group := range response.Groups {
			fmt.Fprintf(out, "%s:\n", group.Name)
			for _, info := range group.Scenes {
				if info.Description != "" {
					fmt.Fprintf(out, "  %-20s %s (%s)\n", info.ID, info.DisplayName, info.Description)
				} else {
					fmt.Fprintf(out, "  %-20s %s\n", info.ID, info.DisplayName)
				}
			}
		}
		return nil
	},
}

var cmdConfig = &cobra.Command{
	Use:   "config [path]",
	Short: "Print the default config, or write it to path",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.DefaultConfig()

		if len(args) == 1 {
			if err := config.SaveConfig(cfg, args[0]); err != nil {
				return fmt.Errorf("while saving config: %w", err)
			}
			glog.Infof("Wrote default config to %s", args[0])
			return nil
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("while marshaling config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	cmdRoot.PersistentFlags().StringVar(&scenesDir, "scenes-dir", "scenes", "Directory searched for YAML scene files")

	cmdRender.Flags().StringVar(&configPath, "config", "", "YAML config file describing the render")
	cmdRender.Flags().StringVar(&sceneID, "scene", "", "Built-in scene name, file:<name> from --scenes-dir, or a YAML path")
	cmdRender.Flags().StringVar(&outputPath, "output", "", "Output file (.ppm or .png), or - for PPM on stdout")
	cmdRender.Flags().IntVar(&width, "width", 0, "Image width in pixels (0 = scene default)")
	cmdRender.Flags().IntVar(&samples, "samples", 0, "Samples per pixel (0 = scene default)")
	cmdRender.Flags().IntVar(&depth, "depth", 0, "Maximum ray bounces (0 = scene default)")
	cmdRender.Flags().IntVar(&workers, "workers", 0, "Scanlines rendered in parallel (0 = CPU count)")
	cmdRender.Flags().Int64Var(&seed, "seed", 42, "Seed for sampling and randomized scenes")
}

// loadConfig reads --config if given and layers the render flags over it
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("while loading config: %w", err)
		}
		cfg = loaded
	}

	if width > 0 {
		cfg.Camera.Width = width
	}
	if samples > 0 {
		cfg.Sampling.SamplesPerPixel = samples
	}
	if depth > 0 {
		cfg.Sampling.MaxDepth = depth
	}
	if workers > 0 {
		cfg.Sampling.Workers = workers
	}
	if cmd.Flags().Changed("seed") {
		cfg.Scene.Seed = seed
	}
	if outputPath != "" {
		cfg.Output.Path = outputPath
	}
	return cfg, nil
}

// createScene builds the scene named by id, or the one cfg describes when
// id is empty. Camera and sampling settings from cfg apply either way.
func createScene(cfg *config.Config, id, dir string) (*scene.Scene, error) {
	if id == "" {
		return scene.FromConfig(cfg)
	}

	s, err := scene.Resolve(id, dir, cfg.Scene.Seed)
	if err != nil {
		return nil, err
	}
	s.CameraConfig = cfg.ApplyCamera(s.CameraConfig)
	return s, nil
}

// renderToPath renders s to path, choosing the format from its extension.
// "-" streams PPM to stdout.
func renderToPath(ctx context.Context, s *scene.Scene, opts renderer.RenderOptions, path string, stdout io.Writer) (renderer.RenderStats, error) {
	if path == "-" {
		return renderer.Render(ctx, s.Camera(), s.World, stdout, opts)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return renderer.RenderStats{}, fmt.Errorf("while creating output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return renderer.RenderStats{}, fmt.Errorf("while creating output file: %w", err)
	}
	defer file.Close()

	var stats renderer.RenderStats
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		img, imgStats, err := renderer.RenderImage(ctx, s.Camera(), s.World, opts)
		if err != nil {
			return imgStats, err
		}
		stats = imgStats
		if err := png.Encode(file, img); err != nil {
			return stats, fmt.Errorf("while encoding png: %w", err)
		}
	default:
		stats, err = renderer.Render(ctx, s.Camera(), s.World, file, opts)
		if err != nil {
			return stats, err
		}
	}

	if err := file.Close(); err != nil {
		return stats, fmt.Errorf("while closing output file: %w", err)
	}
	return stats, nil
}

func main() {
	glog.CopyStandardLogTo("INFO")

	cmdRoot.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	cmdRoot.AddCommand(cmdRender)
	cmdRoot.AddCommand(cmdScenes)
	cmdRoot.AddCommand(cmdConfig)

	err := cmdRoot.Execute()
	glog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
