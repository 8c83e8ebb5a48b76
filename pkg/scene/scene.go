package scene

import (
	"fmt"
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera       *renderer.Camera
	CameraConfig renderer.CameraConfig
	Shapes       []core.Hittable // Objects in the scene
	BVH          *core.BVHNode   // Acceleration structure for ray-object intersection
	BVHSeed      int64           // Seed for the BVH split-axis choices
}

// newScene builds a scene around a camera configuration
func newScene(cameraConfig renderer.CameraConfig) *Scene {
	return &Scene{
		Camera:       renderer.NewCamera(cameraConfig),
		CameraConfig: cameraConfig,
		Shapes:       make([]core.Hittable, 0),
		BVHSeed:      1,
	}
}

// Add appends shapes to the scene
func (s *Scene) Add(shapes ...core.Hittable) {
	s.Shapes = append(s.Shapes, shapes...)
}

// Preprocess builds the BVH over all shapes. It must run before rendering
// and fails if any shape cannot be bounded.
func (s *Scene) Preprocess() error {
	bvh, err := core.NewBVH(s.Shapes, rand.New(rand.NewSource(s.BVHSeed)))
	if err != nil {
		return fmt.Errorf("failed to build BVH: %w", err)
	}
	s.BVH = bvh
	return nil
}

// GetCamera returns the scene camera
func (s *Scene) GetCamera() *renderer.Camera {
	return s.Camera
}

// GetWorld returns the BVH root, or a flat list if the scene has not been preprocessed
func (s *Scene) GetWorld() core.Hittable {
	if s.BVH != nil {
		return s.BVH
	}
	return core.NewPrimitiveList(s.Shapes...)
}

// GetPrimitiveCount returns the number of top-level primitives in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Shapes)
}

// PinholeAperture in a camera override turns depth of field off. A zero
// aperture in an override means "keep the scene's aperture".
const PinholeAperture = -1

// mergeCameraConfig replaces every non-zero field of base with the override
func mergeCameraConfig(base renderer.CameraConfig, override renderer.CameraConfig) renderer.CameraConfig {
	result := base
	zero := core.Vec3{}

	if override.Center != zero {
		result.Center = override.Center
	}
	if override.LookAt != zero {
		result.LookAt = override.LookAt
	}
	if override.Up != zero {
		result.Up = override.Up
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.Aperture < 0 {
		result.Aperture = 0
	} else if override.Aperture != 0 {
		result.Aperture = override.Aperture
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}

	return result
}
