package server

import (
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func doRequest(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	NewServer(0).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestParseIntParam(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		expected  int
		expectErr bool
	}{
		{"missing uses default", "", 7, false},
		{"in range", "n=12", 12, false},
		{"below min", "n=0", 0, true},
		{"above max", "n=101", 0, true},
		{"not a number", "n=abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.query)
			got, err := parseIntParam(values, "n", 7, 1, 100)
			if (err != nil) != tt.expectErr {
				t.Fatalf("Unexpected error state: %v", err)
			}
			if !tt.expectErr && got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestIndexListsEndpoints(t *testing.T) {
	rec := doRequest(t, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body struct {
		Endpoints []string `json:"endpoints"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(body.Endpoints) != 6 || body.Endpoints[0] != "/api/render" {
		t.Errorf("Unexpected endpoints %v", body.Endpoints)
	}

	if rec := doRequest(t, "/missing"); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown path, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	rec := doRequest(t, "/api/health")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("Unexpected health response %d: %s", rec.Code, rec.Body.String())
	}
}

func TestScenesEndpoint(t *testing.T) {
	rec := doRequest(t, "/api/scenes")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var response struct {
		Scenes []struct {
			ID string `json:"id"`
		} `json:"scenes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(response.Scenes) == 0 || response.Scenes[0].ID != "default" {
		t.Errorf("Unexpected scenes: %+v", response.Scenes)
	}
}

func TestSceneConfigEndpoint(t *testing.T) {
	rec := doRequest(t, "/api/scene-config?scene=default")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"samplesPerPixel":50`) {
		t.Errorf("Missing defaults in %s", rec.Body.String())
	}

	if rec := doRequest(t, "/api/scene-config?scene=nope"); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown scene, got %d", rec.Code)
	}
}

func TestRenderEndpointReturnsPNG(t *testing.T) {
	for _, backend := range []string{"cpu", "compute"} {
		t.Run(backend, func(t *testing.T) {
			rec := doRequest(t, "/api/render?scene=absorber&seed=3&backend="+backend)
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
				t.Errorf("Expected image/png, got %q", ct)
			}

			img, err := png.Decode(rec.Body)
			if err != nil {
				t.Fatalf("Invalid PNG: %v", err)
			}
			if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
				t.Errorf("Expected 2x2 image, got %v", b)
			}
			if r, g, b, _ := img.At(0, 1).RGBA(); r != 0 || g != 0 || b != 0 {
				t.Errorf("Expected black bottom-left pixel, got %d %d %d", r, g, b)
			}
		})
	}
}

func TestRenderEndpointRejectsBadRequests(t *testing.T) {
	targets := []string{
		"/api/render?scene=absorber&width=0",
		"/api/render?scene=absorber&samples=-3",
		"/api/render?scene=absorber&depth=abc",
		"/api/render?scene=absorber&backend=gpu",
		"/api/render?scene=absorber&seed=1.5",
		"/api/render?scene=unknown",
	}

	for _, target := range targets {
		if rec := doRequest(t, target); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestRenderStreamEndpoint(t *testing.T) {
	rec := doRequest(t, "/api/render-stream?scene=absorber&seed=9")
	body := rec.Body.String()

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected text/event-stream, got %q", ct)
	}
	if !strings.Contains(body, "event: console") {
		t.Error("Expected console events in stream")
	}
	idx := strings.Index(body, "event: complete\ndata: ")
	if idx < 0 {
		t.Fatalf("Expected complete event, got:\n%s", body)
	}

	payload := body[idx+len("event: complete\ndata: "):]
	payload = payload[:strings.Index(payload, "\n")]
	var event CompleteEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		t.Fatalf("Invalid complete payload: %v", err)
	}
	if event.ImageData == "" || event.Stats.TotalPixels != 4 {
		t.Errorf("Unexpected complete event: %+v", event.Stats)
	}
}

func TestInspectEndpoint(t *testing.T) {
	rec := doRequest(t, "/api/inspect?scene=absorber&x=0&y=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response InspectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if !response.Hit || response.SphereIndex != 0 || response.MaterialType != "lambertian" {
		t.Errorf("Expected hit on lambertian sphere 0, got %+v", response)
	}
	if !response.FrontFace || response.Normal[2] <= 0 {
		t.Errorf("Expected outward facing normal towards the camera, got %+v", response.Normal)
	}

	if rec := doRequest(t, "/api/inspect?scene=absorber&x=5&y=0"); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for out of bounds pixel, got %d", rec.Code)
	}
}
