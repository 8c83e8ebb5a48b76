package geometry

import (
	"errors"
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrNotTriangulated is returned when the face index list is not a multiple of 3
	ErrNotTriangulated = errors.New("mesh: face indices must be a multiple of 3")
	// ErrFaceIndexOutOfRange is returned when a face references a missing vertex
	ErrFaceIndexOutOfRange = errors.New("mesh: face index out of range")
)

// Mesh is an ordered collection of triangles sharing one material.
// Intersection is a linear scan; large meshes should have their triangles
// placed under a BVH via Shapes.
type Mesh struct {
	triangles []*Triangle
	bbox      core.AABB
}

// MeshOptions contains optional transforms applied to vertices before triangles are built
type MeshOptions struct {
	Scale     float64    // Uniform scale (0 means 1)
	Rotation  *core.Vec3 // Optional rotation in radians around X, Y, Z (in that order)
	Center    *core.Vec3 // Optional center point for rotation and scaling
	Translate core.Vec3  // Offset applied last
}

// NewMesh creates a mesh from vertices and face indices
// vertices: array of 3D points
// faces: array of triangle indices (each group of 3 indices forms a triangle)
// options: optional transforms (can be nil)
func NewMesh(vertices []core.Vec3, faces []int, material core.Material, options *MeshOptions) (*Mesh, error) {
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("%d indices: %w", len(faces), ErrNotTriangulated)
	}

	workingVertices := vertices
	if options != nil {
		workingVertices = make([]core.Vec3, len(vertices))
		for i, vertex := range vertices {
			workingVertices[i] = transformVertex(vertex, options)
		}
	}

	numTriangles := len(faces) / 3
	triangles := make([]*Triangle, numTriangles)
	for i := 0; i < numTriangles; i++ {
		i0, i1, i2 := faces[i*3], faces[i*3+1], faces[i*3+2]
		for _, index := range []int{i0, i1, i2} {
			if index < 0 || index >= len(workingVertices) {
				return nil, fmt.Errorf("triangle %d references vertex %d of %d: %w",
					i, index, len(workingVertices), ErrFaceIndexOutOfRange)
			}
		}
		triangles[i] = NewTriangle(workingVertices[i0], workingVertices[i1], workingVertices[i2], material)
	}

	return NewMeshFromTriangles(triangles), nil
}

// NewMeshFromTriangles wraps already-built triangles
func NewMeshFromTriangles(triangles []*Triangle) *Mesh {
	var bbox core.AABB
	if len(triangles) > 0 {
		bbox, _ = triangles[0].BoundingBox()
		for _, triangle := range triangles[1:] {
			box, _ := triangle.BoundingBox()
			bbox = bbox.Union(box)
		}
	}

	return &Mesh{
		triangles: triangles,
		bbox:      bbox,
	}
}

// Hit returns the closest triangle hit
func (m *Mesh) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	var closestHit *core.HitRecord
	closestSoFar := tMax

	for _, triangle := range m.triangles {
		if hit, isHit := triangle.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}

// BoundingBox returns the union of all triangle boxes; an empty mesh is unbounded
func (m *Mesh) BoundingBox() (core.AABB, bool) {
	if len(m.triangles) == 0 {
		return core.AABB{}, false
	}
	return m.bbox, true
}

// TriangleCount returns the number of triangles in this mesh
func (m *Mesh) TriangleCount() int {
	return len(m.triangles)
}

// Triangles returns the individual triangles
func (m *Mesh) Triangles() []*Triangle {
	return m.triangles
}

// Shapes returns the triangles as hittables, ready to be placed under a BVH
func (m *Mesh) Shapes() []core.Hittable {
	shapes := make([]core.Hittable, len(m.triangles))
	for i, triangle := range m.triangles {
		shapes[i] = triangle
	}
	return shapes
}

// transformVertex applies scale and rotation about the optional center, then translation
func transformVertex(vertex core.Vec3, options *MeshOptions) core.Vec3 {
	if options.Center != nil {
		vertex = vertex.Subtract(*options.Center)
	}
	if options.Scale != 0 {
		vertex = vertex.Multiply(options.Scale)
	}
	if options.Rotation != nil {
		vertex = rotateVertex(vertex, *options.Rotation)
	}
	if options.Center != nil {
		vertex = vertex.Add(*options.Center)
	}
	return vertex.Add(options.Translate)
}

// rotateVertex applies rotation around X, Y, Z axes (in that order)
func rotateVertex(vertex, rotation core.Vec3) core.Vec3 {
	p := r3.Vec{X: vertex.X, Y: vertex.Y, Z: vertex.Z}
	for _, step := range []struct {
		angle float64
		axis  r3.Vec
	}{
		{rotation.X, r3.Vec{X: 1}},
		{rotation.Y, r3.Vec{Y: 1}},
		{rotation.Z, r3.Vec{Z: 1}},
	} {
		if step.angle != 0 {
			p = r3.NewRotation(step.angle, step.axis).Rotate(p)
		}
	}
	return core.NewVec3(p.X, p.Y, p.Z)
}
