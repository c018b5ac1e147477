package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/df07/go-sphere-pathtracer/pkg/compute"
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string `json:"scene"`   // Scene ID (e.g., "default")
	Width   int    `json:"width"`   // Image width, 0 keeps the scene's width
	Samples int    `json:"samples"` // Samples per pixel, 0 keeps the scene's value
	Depth   int    `json:"depth"`   // Max bounce depth, -1 keeps the scene's value
	Backend string `json:"backend"` // "cpu" or "compute"
	Seed    int64  `json:"seed"`    // 0 seeds from the clock
}

// Stats represents render statistics
type Stats struct {
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	TotalPixels  int    `json:"totalPixels"`
	TotalSamples int64  `json:"totalSamples"`
	Backend      string `json:"backend"`
	ElapsedMs    int64  `json:"elapsedMs"`
}

// CompleteEvent is the final event of a streamed render
type CompleteEvent struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
}

var renderCounter atomic.Int64

// handleRender renders one image and returns it as PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	img, stats, err := s.render(r.Context(), req, renderer.NewDefaultLogger())
	if err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}

	var buf bytes.Buffer
	if err := renderer.WritePNG(&buf, img); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Elapsed-Ms", strconv.FormatInt(stats.ElapsedMs, 10))
	w.Header().Set("X-Render-Backend", stats.Backend)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// handleRenderStream renders one image and streams console output via SSE,
// finishing with a "complete" event carrying the PNG
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendSSEEvent(w, "error", fmt.Sprintf("Invalid request: %v", err))
		return
	}

	ctx := r.Context()
	renderID := fmt.Sprintf("render-%d", renderCounter.Add(1))
	consoleChan := make(chan ConsoleMessage, 100)
	logger := NewWebLogger(renderID, consoleChan)

	type result struct {
		img   image.Image
		stats Stats
		err   error
	}
	resultChan := make(chan result, 1)
	go func() {
		img, stats, err := s.render(ctx, req, logger)
		resultChan <- result{img, stats, err}
	}()

	// This handler goroutine is the only writer to w
	for {
		select {
		case msg := <-consoleChan:
			s.sendSSEJSON(w, "console", msg)

		case res := <-resultChan:
			s.drainConsole(w, consoleChan)
			if res.err != nil {
				s.sendSSEEvent(w, "error", fmt.Sprintf("Render error: %v", res.err))
				return
			}
			imageData, err := s.imageToBase64PNG(res.img)
			if err != nil {
				s.sendSSEEvent(w, "error", fmt.Sprintf("Failed to encode image: %v", err))
				return
			}
			s.sendSSEJSON(w, "complete", CompleteEvent{ImageData: imageData, Stats: res.stats})
			return

		case <-ctx.Done():
			log.Printf("[%s] client disconnected", renderID)
			return
		}
	}
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	values := r.URL.Query()
	req := &RenderRequest{
		Scene:   values.Get("scene"),
		Backend: values.Get("backend"),
	}
	if req.Scene == "" {
		req.Scene = "default"
	}
	if req.Backend == "" {
		req.Backend = "cpu"
	}
	if req.Backend != "cpu" && req.Backend != "compute" {
		return nil, fmt.Errorf("backend must be 'cpu' or 'compute', got: %s", req.Backend)
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 0, minWidth, maxWidth); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(values, "samples", 0, minSamples, maxSamples); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(values, "depth", -1, minDepth, maxDepth); err != nil {
		return nil, err
	}
	if req.Seed, err = parseSeedParam(values, "seed"); err != nil {
		return nil, err
	}

	return req, nil
}

// createScene builds the requested scene and applies the request's overrides
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := scene.New(req.Scene)
	if err != nil {
		return nil, err
	}
	if req.Width > 0 {
		if err := sceneObj.SetWidth(req.Width); err != nil {
			return nil, err
		}
	}
	if req.Samples > 0 {
		sceneObj.SamplingConfig.SamplesPerPixel = req.Samples
	}
	if req.Depth >= 0 {
		sceneObj.SamplingConfig.MaxDepth = req.Depth
	}
	return sceneObj, nil
}

// render runs the requested backend to completion
func (s *Server) render(ctx context.Context, req *RenderRequest, logger core.Logger) (image.Image, Stats, error) {
	sceneObj, err := s.createScene(req)
	if err != nil {
		return nil, Stats{}, err
	}

	config := sceneObj.GetSamplingConfig()
	warnIfSlow(logger, config)
	stats := Stats{
		Width:        config.Width,
		Height:       config.Height,
		TotalPixels:  config.Width * config.Height,
		TotalSamples: int64(config.Width*config.Height) * int64(config.SamplesPerPixel),
		Backend:      req.Backend,
	}
	startTime := time.Now()

	img, err := s.runBackend(ctx, req, sceneObj, logger)
	if err != nil {
		logger.Printf("Error: %v\n", err)
		return nil, stats, err
	}

	stats.ElapsedMs = time.Since(startTime).Milliseconds()
	return img, stats, nil
}

// slowRenderSamples is the sample count above which a render is flagged as slow
const slowRenderSamples = 800 * 450 * 100

// warnIfSlow logs a warning for renders that will take a long time
func warnIfSlow(logger core.Logger, config core.SamplingConfig) {
	total := int64(config.Width*config.Height) * int64(config.SamplesPerPixel)
	if total > slowRenderSamples {
		logger.Printf("Warning: %dx%d at %d samples per pixel may render slowly\n",
			config.Width, config.Height, config.SamplesPerPixel)
	}
}

func (s *Server) runBackend(ctx context.Context, req *RenderRequest, sceneObj *scene.Scene, logger core.Logger) (image.Image, error) {
	switch req.Backend {
	case "compute":
		tracer, err := compute.NewTracer(compute.NewCPUDevice(0), sceneObj, req.Seed, logger)
		if err != nil {
			return nil, err
		}
		img, err := tracer.Render(ctx)
		if err != nil {
			return nil, err
		}
		return img, nil
	default:
		renderConfig := renderer.DefaultRenderConfig()
		renderConfig.Seed = req.Seed
		rt, err := renderer.NewRaytracer(sceneObj, renderConfig, logger)
		if err != nil {
			return nil, err
		}
		img, _, err := rt.Render(ctx)
		if err != nil {
			return nil, err
		}
		return img, nil
	}
}

// errorStatus maps render errors to HTTP status codes
func errorStatus(err error) int {
	switch {
	case errors.Is(err, scene.ErrUnknownScene), errors.Is(err, core.ErrInvalidConfig):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

func (s *Server) drainConsole(w http.ResponseWriter, consoleChan chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			s.sendSSEJSON(w, "console", msg)
		default:
			return
		}
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := renderer.WritePNG(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// sendSSEJSON sends v as the JSON payload of an SSE event
func (s *Server) sendSSEJSON(w http.ResponseWriter, event string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.sendSSEEvent(w, event, string(data))
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
