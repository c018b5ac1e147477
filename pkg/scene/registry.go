package scene

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownScene is returned (wrapped) by New for unregistered IDs
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
}

type registration struct {
	description string
	build       func() (*Scene, error)
}

// Registration order is the listing order
var registryOrder = []string{"default", "three-spheres", "absorber", "empty"}

var registry = map[string]registration{
	"default": {
		description: "Yellow ground, glowing center sphere, hollow glass and a mirror",
		build:       NewDefaultScene,
	},
	"three-spheres": {
		description: "Diffuse, hollow glass and fuzzy metal spheres lit by the sky",
		build:       NewThreeSpheresScene,
	},
	"absorber": {
		description: "A single black sphere at 2x2, one sample, one bounce",
		build:       NewAbsorberScene,
	},
	"empty": {
		description: "No objects, just the sky gradient",
		build:       NewEmptyScene,
	},
}

// List returns every built-in scene in a stable order
func List() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(registryOrder))
	for _, id := range registryOrder {
		scenes = append(scenes, SceneInfo{
			ID:          id,
			DisplayName: titleCase(id),
			Description: registry[id].description,
		})
	}
	return scenes
}

// New builds the scene registered under id
func New(id string) (*Scene, error) {
	reg, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownScene, id, strings.Join(registryOrder, ", "))
	}
	return reg.build()
}

// titleCase converts an identifier to title case
// e.g., "three-spheres" -> "Three Spheres"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
