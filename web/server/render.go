package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"

	"github.com/golang/glog"

	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

// RenderRequest represents a render request from the client. Zero values
// keep the scene's own settings.
type RenderRequest struct {
	Scene   string `json:"scene"`
	Width   int    `json:"width"`
	Samples int    `json:"samples"`
	Depth   int    `json:"depth"`
	Seed    int64  `json:"seed"`
	Format  string `json:"format"` // "png" or "ppm"
}

// Stats represents render statistics
type Stats struct {
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	TotalPixels      int     `json:"totalPixels"`
	TotalSamples     int     `json:"totalSamples"`
	SamplesPerPixel  int     `json:"samplesPerPixel"`
	MaxDepth         int     `json:"maxDepth"`
	Workers          int     `json:"workers"`
	ElapsedMs        int64   `json:"elapsedMs"`
	SamplesPerSecond float64 `json:"samplesPerSecond"`
	AverageLuminance float64 `json:"averageLuminance,omitempty"`
}

// CompleteEvent is the final event of a streamed render
type CompleteEvent struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
}

// parseRenderRequest parses and validates request parameters
func parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()

	req := &RenderRequest{
		Scene:  query.Get("scene"),
		Format: query.Get("format"),
	}
	if req.Scene == "" {
		req.Scene = scene.DefaultSceneName
	}
	switch req.Format {
	case "":
		req.Format = "png"
	case "png", "ppm":
	default:
		return nil, fmt.Errorf("format must be png or ppm, got: %s", req.Format)
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, minWidth, maxWidth); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(query, "samples", 0, minSamples, maxSamples); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(query, "depth", 0, minDepth, maxDepth); err != nil {
		return nil, err
	}
	seed, err := parseIntParam(query, "seed", 42, 0, maxSeed)
	if err != nil {
		return nil, err
	}
	req.Seed = int64(seed)

	return req, nil
}

// prepareScene builds the requested scene with the request's overrides applied
func (s *Server) prepareScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := s.createScene(req.Scene, req.Seed)
	if err != nil {
		return nil, err
	}

	if req.Width > 0 {
		sceneObj.CameraConfig.Width = req.Width
	}
	if req.Samples > 0 {
		sceneObj.CameraConfig.SamplesPerPixel = req.Samples
	}
	if req.Depth > 0 {
		sceneObj.CameraConfig.MaxDepth = req.Depth
	}

	camera := sceneObj.CameraConfig
	if camera.Width > 800 && camera.SamplesPerPixel > 100 {
		glog.Warningf("Render warning: %d px wide at %d samples/pixel may render slowly", camera.Width, camera.SamplesPerPixel)
	}
	return sceneObj, nil
}

func (s *Server) nextRenderID() string {
	return fmt.Sprintf("render-%d", s.renders.Add(1))
}

// handleRender renders synchronously and responds with the encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenderRequest(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj, err := s.prepareScene(req)
	if err != nil {
		s.writeSceneError(w, err)
		return
	}

	ctx := r.Context()
	opts := renderer.RenderOptions{
		Seed:   req.Seed,
		Logger: NewWebLogger(s.nextRenderID(), nil),
	}

	var (
		buf         bytes.Buffer
		contentType string
	)
	switch req.Format {
	case "ppm":
		contentType = "image/x-portable-pixmap"
		_, err = renderer.Render(ctx, sceneObj.Camera(), sceneObj.World, &buf, opts)
	default:
		contentType = "image/png"
		img, _, renderErr := renderer.RenderImage(ctx, sceneObj.Camera(), sceneObj.World, opts)
		err = renderErr
		if err == nil {
			err = png.Encode(&buf, img)
		}
	}
	if err != nil {
		if errors.Is(err, ctx.Err()) {
			// Client went away
			return
		}
		glog.Errorf("Render of %q failed: %v", req.Scene, err)
		s.writeError(w, http.StatusInternalServerError, "render failed")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		glog.Warningf("Failed to write render response: %v", err)
	}
}

// handleRenderStream renders while streaming console output via SSE, then
// sends the finished image as a base64 PNG
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	req, err := parseRenderRequest(r)
	if err != nil {
		s.sendSSEEvent(w, "error", fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj, err := s.prepareScene(req)
	if err != nil {
		s.sendSSEEvent(w, "error", err.Error())
		return
	}

	// Console messages are written by a single goroutine
	consoleChan := make(chan ConsoleMessage, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range consoleChan {
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			s.sendSSEEvent(w, "console", string(data))
		}
	}()

	opts := renderer.RenderOptions{
		Seed:   req.Seed,
		Logger: NewWebLogger(s.nextRenderID(), consoleChan),
	}
	img, stats, err := renderer.RenderImage(r.Context(), sceneObj.Camera(), sceneObj.World, opts)

	close(consoleChan)
	<-writerDone

	if err != nil {
		s.sendSSEEvent(w, "error", fmt.Sprintf("Render error: %v", err))
		return
	}

	imageData, err := imageToBase64PNG(img)
	if err != nil {
		s.sendSSEEvent(w, "error", fmt.Sprintf("failed to encode image: %v", err))
		return
	}

	event := CompleteEvent{ImageData: imageData, Stats: toStats(stats)}
	event.Stats.AverageLuminance = renderer.CalculateAverageLuminance(img)

	data, err := json.Marshal(event)
	if err != nil {
		s.sendSSEEvent(w, "error", err.Error())
		return
	}
	s.sendSSEEvent(w, "complete", string(data))
}

func toStats(stats renderer.RenderStats) Stats {
	return Stats{
		Width:            stats.Width,
		Height:           stats.Height,
		TotalPixels:      stats.TotalPixels,
		TotalSamples:     stats.TotalSamples,
		SamplesPerPixel:  stats.SamplesPerPixel,
		MaxDepth:         stats.MaxDepth,
		Workers:          stats.Workers,
		ElapsedMs:        stats.Elapsed.Milliseconds(),
		SamplesPerSecond: stats.SamplesPerSecond(),
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img *image.RGBA) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// setSSEHeaders sets the headers required for server-sent events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if flusher, ok := w.(http.Flusher); ok {
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
		return nil
	}
	return fmt.Errorf("streaming not supported")
}
