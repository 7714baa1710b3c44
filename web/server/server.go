package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

// Request limits shared by the render, inspect and scene-config endpoints
const (
	minWidth, maxWidth     = 1, 2000
	minSamples, maxSamples = 1, 10000
	minDepth, maxDepth     = 1, 1000
	maxSeed                = 1<<31 - 1
)

// Server handles web requests for the raytracer
type Server struct {
	port      int
	scenesDir string
	mux       *http.ServeMux
	renders   atomic.Int64
}

// NewServer creates a new web server. scenesDir is searched for YAML scene
// files in addition to the built-in scenes.
func NewServer(port int, scenesDir string) *Server {
	s := &Server{
		port:      port,
		scenesDir: scenesDir,
		mux:       http.NewServeMux(),
	}

	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/scenes", s.handleScenes)
	s.mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	s.mux.HandleFunc("/api/render", s.handleRender)
	s.mux.HandleFunc("/api/render/stream", s.handleRenderStream)
	s.mux.HandleFunc("/api/inspect", s.handleInspect)

	return s
}

// Handler returns the server's request router
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves until the listener fails
func (s *Server) Start() error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.mux,

		ReadTimeout:    30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	glog.Infof("Starting web server on http://localhost%s", server.Addr)
	return server.ListenAndServe()
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes and the scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		glog.Errorf("Failed to list scenes: %v", err)
		s.writeError(w, http.StatusInternalServerError, "failed to list scenes")
		return
	}
	s.writeJSON(w, http.StatusOK, response)
}

// handleSceneConfig returns a scene's default camera settings with the
// limits requests are validated against
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = scene.DefaultSceneName
	}

	sceneObj, err := s.createScene(sceneName, 0)
	if err != nil {
		s.writeSceneError(w, err)
		return
	}

	camera := sceneObj.Camera()
	response := map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":           camera.Width(),
			"height":          camera.Height(),
			"samplesPerPixel": camera.SamplesPerPixel(),
			"maxDepth":        camera.MaxDepth(),
			"vfov":            sceneObj.CameraConfig.VFov,
			"defocusAngle":    sceneObj.CameraConfig.DefocusAngle,
		},
		"limits": map[string]interface{}{
			"width":   map[string]int{"min": minWidth, "max": maxWidth},
			"samples": map[string]int{"min": minSamples, "max": maxSamples},
			"depth":   map[string]int{"min": minDepth, "max": maxDepth},
		},
	}

	s.writeJSON(w, http.StatusOK, response)
}

// createScene resolves a built-in scene name or a "file:" ID from the
// scenes directory. Raw file paths are not accepted over HTTP.
func (s *Server) createScene(id string, seed int64) (*scene.Scene, error) {
	if ext := filepath.Ext(id); ext == ".yaml" || ext == ".yml" {
		return nil, fmt.Errorf("scene %q: %w", id, scene.ErrUnknownScene)
	}
	return scene.Resolve(id, s.scenesDir, seed)
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		glog.Errorf("Failed to encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// writeSceneError maps scene resolution failures to a status code
func (s *Server) writeSceneError(w http.ResponseWriter, err error) {
	if errors.Is(err, scene.ErrUnknownScene) {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	glog.Errorf("Failed to create scene: %v", err)
	s.writeError(w, http.StatusInternalServerError, "failed to create scene")
}
