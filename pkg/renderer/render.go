package renderer

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"io"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
)

// RenderOptions controls how an image is rendered
type RenderOptions struct {
	Workers  int         // Scanlines rendered in parallel (0 = use CPU count)
	Seed     int64       // Base seed; scanline j draws from Seed+j
	Progress io.Writer   // Diagnostic stream for the progress line (nil = logger only)
	Logger   core.Logger // Logger for rendering output (nil = silent)
}

// DefaultRenderOptions returns sensible default values
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Workers: 0,
		Seed:    42,
	}
}

// Render traces every pixel of camera's image over world and writes a P3
// image to w. Scanlines are rendered in parallel but always written top to
// bottom, left to right. Output is identical for any worker count.
func Render(ctx context.Context, camera *Camera, world geometry.Hittable, w io.Writer, opts RenderOptions) (RenderStats, error) {
	bw := bufio.NewWriter(w)
	if err := WritePPMHeader(bw, camera.Width(), camera.Height()); err != nil {
		return RenderStats{}, fmt.Errorf("while writing ppm header: %w", err)
	}

	stats, err := renderRows(ctx, camera, world, opts, func(j int, row []core.Vec3) error {
		for i, pixelColor := range row {
			if err := WriteColor(bw, pixelColor); err != nil {
				return fmt.Errorf("while writing pixel (%d, %d): %w", i, j, err)
			}
		}
		return nil
	})
	if err != nil {
		return stats, err
	}

	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("while flushing image: %w", err)
	}
	return stats, nil
}

// RenderImage renders into an in-memory image with the same quantized
// values Render would write.
func RenderImage(ctx context.Context, camera *Camera, world geometry.Hittable, opts RenderOptions) (*image.RGBA, RenderStats, error) {
	img := image.NewRGBA(image.Rect(0, 0, camera.Width(), camera.Height()))

	stats, err := renderRows(ctx, camera, world, opts, func(j int, row []core.Vec3) error {
		for i, pixelColor := range row {
			img.SetRGBA(i, j, QuantizeColor(pixelColor))
		}
		return nil
	})
	if err != nil {
		return nil, stats, err
	}
	return img, stats, nil
}

// renderRows fans scanlines out to at most opts.Workers goroutines and hands
// finished rows to emit strictly in order. emit runs on the calling goroutine.
func renderRows(ctx context.Context, camera *Camera, world geometry.Hittable, opts RenderOptions, emit func(j int, row []core.Vec3) error) (RenderStats, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	height := camera.Height()
	stats := newRenderStats(camera, workers)
	progress := NewProgress(opts.Progress, height, opts.Logger)
	startTime := time.Now()

	if opts.Logger != nil {
		opts.Logger.Printf("Rendering %dx%d at %d samples/pixel, max depth %d (using %d workers)...\n",
			camera.Width(), height, camera.SamplesPerPixel(), camera.MaxDepth(), workers)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// One slot per scanline so workers never block on a slow consumer
	rows := make([]chan []core.Vec3, height)
	for j := range rows {
		rows[j] = make(chan []core.Vec3, 1)
	}

	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(workers))

	g.Go(func() error {
		for j := 0; j < height; j++ {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			j := j
			g.Go(func() error {
				defer sem.Release(1)
				if gctx.Err() != nil {
					return nil
				}
				sampler := core.NewSeededSampler(opts.Seed + int64(j))
				rows[j] <- camera.renderRow(j, world, sampler)
				return nil
			})
		}
		return nil
	})

	stopped := func(j int) (RenderStats, error) {
		err := g.Wait()
		if err == nil {
			err = gctx.Err()
		}
		return stats, fmt.Errorf("while rendering scanline %d: %w", j, err)
	}

	for j := 0; j < height; j++ {
		if gctx.Err() != nil {
			return stopped(j)
		}
		progress.Remaining(height - j)

		select {
		case row := <-rows[j]:
			if err := emit(j, row); err != nil {
				cancel()
				_ = g.Wait()
				return stats, err
			}
			stats.addRow(len(row))
		case <-gctx.Done():
			return stopped(j)
		}
	}

	if err := g.Wait(); err != nil {
		return stats, fmt.Errorf("while rendering: %w", err)
	}

	progress.Done()
	stats.Elapsed = time.Since(startTime)

	if opts.Logger != nil {
		opts.Logger.Printf("Render completed in %v (%d pixels, %.0f samples/sec)\n",
			stats.Elapsed, stats.TotalPixels, stats.SamplesPerSecond())
	}

	return stats, nil
}
