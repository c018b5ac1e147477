package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	SphereIndex  int                    `json:"sphereIndex"`
	MaterialType string                 `json:"materialType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties"`
}

// extractMaterialInfo describes the parameters relevant to the material's kind
func extractMaterialInfo(mat *material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})
	color := [3]float64{mat.Albedo.X, mat.Albedo.Y, mat.Albedo.Z}

	switch mat.Kind {
	case material.KindLambertian:
		properties["albedo"] = color
	case material.KindMetal:
		properties["albedo"] = color
		properties["fuzz"] = mat.Fuzz
	case material.KindDielectric:
		properties["refractiveIndex"] = mat.RefractiveIndex
	case material.KindDiffuseLight:
		properties["color"] = color
		properties["intensity"] = mat.Intensity
	}
	return mat.Kind.String(), properties
}

// inspectPixel casts the ray through the center of pixel (pixelX, pixelY), with
// pixelY counted from the top, and reports the closest sphere it hits
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) InspectResponse {
	config := sceneObj.GetSamplingConfig()

	j := config.Height - 1 - pixelY
	u := (float64(pixelX) + 0.5) / float64(max(config.Width-1, 1))
	v := (float64(j) + 0.5) / float64(max(config.Height-1, 1))
	ray := sceneObj.Camera.GetRay(u, v)

	hit, isHit := sceneObj.World.Hit(ray, integrator.ShadowAcneEpsilon, math.Inf(1))
	if !isHit {
		return InspectResponse{Hit: false, SphereIndex: -1}
	}

	materialType, properties := extractMaterialInfo(hit.Material)
	response := InspectResponse{
		Hit:          true,
		SphereIndex:  sphereIndexOf(sceneObj.Spheres, hit.Material),
		MaterialType: materialType,
		Point:        [3]float64{hit.Point.X, hit.Point.Y, hit.Point.Z},
		Normal:       [3]float64{hit.Normal.X, hit.Normal.Y, hit.Normal.Z},
		Distance:     hit.T,
		FrontFace:    hit.FrontFace,
		Properties:   properties,
	}
	return response
}

// sphereIndexOf finds the sphere owning mat; hit records point into their sphere
func sphereIndexOf(spheres []*geometry.Sphere, mat *material.Material) int {
	for i, s := range spheres {
		if &s.Material == mat {
			return i
		}
	}
	return -1
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	config := sceneObj.GetSamplingConfig()

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}

	if pixelX < 0 || pixelX >= config.Width || pixelY < 0 || pixelY >= config.Height {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("Pixel coordinates out of bounds for %dx%d image", config.Width, config.Height),
		})
		return
	}

	writeJSON(w, http.StatusOK, inspectPixel(sceneObj, pixelX, pixelY))
}
