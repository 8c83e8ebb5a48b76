package scene

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// ModelOptions controls how a loaded mesh is placed in the model scene
type ModelOptions struct {
	Material core.Material         // Mesh material (nil = light grey diffuse)
	Mesh     *geometry.MeshOptions // Optional vertex transform
}

// NewModelScene loads an OBJ mesh, frames it with the camera, and places it
// on a ground sphere. The mesh triangles go directly under the scene BVH.
func NewModelScene(path string, options ModelOptions, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	data, err := loaders.LoadOBJ(path)
	if err != nil {
		return nil, err
	}

	meshMaterial := options.Material
	if meshMaterial == nil {
		meshMaterial = material.NewLambertian(core.NewVec3(0.7, 0.7, 0.7))
	}

	mesh, err := geometry.NewMesh(data.Vertices, data.Faces, meshMaterial, options.Mesh)
	if err != nil {
		return nil, fmt.Errorf("failed to build mesh from %s: %w", path, err)
	}
	box, ok := mesh.BoundingBox()
	if !ok {
		return nil, fmt.Errorf("model %s contains no triangles", path)
	}

	cameraConfig := modelCamera(box)
	if len(cameraOverrides) > 0 {
		cameraConfig = mergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	s := newScene(cameraConfig)
	s.Add(mesh.Shapes()...)

	// Ground sphere touching the bottom of the model
	center := box.Center()
	groundRadius := 1000 * max(1, box.Size().Length())
	s.Add(geometry.NewSphere(
		core.NewVec3(center.X, box.Min.Y-groundRadius, center.Z),
		groundRadius,
		material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)),
	))

	return s, nil
}

// modelCamera looks at the box center from the front and slightly above
func modelCamera(box core.AABB) renderer.CameraConfig {
	center := box.Center()
	extent := max(box.Size().Length(), 1e-3)

	return renderer.CameraConfig{
		Center:      center.Add(core.NewVec3(0, 0.3*extent, 1.6*extent)),
		LookAt:      center,
		Up:          core.NewVec3(0, 1, 0),
		AspectRatio: 16.0 / 9.0,
		VFov:        40.0,
	}
}
