package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

const (
	// parallelEpsilon rejects rays nearly parallel to the triangle plane
	parallelEpsilon = 1e-8
	// boxPadding keeps axis-aligned triangles from producing zero-thickness boxes
	boxPadding = 1e-4
)

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 core.Vec3     // The three vertices
	Material   core.Material // Material of the triangle
	normal     core.Vec3     // Cached unit normal
	bbox       core.AABB     // Cached bounding box
}

// NewTriangle creates a new triangle from three vertices. The outward normal
// follows the right-hand rule over V0, V1, V2.
func NewTriangle(v0, v1, v2 core.Vec3, material core.Material) *Triangle {
	t := &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		Material: material,
	}

	// Precompute normal and bounding box for efficiency
	t.computeNormal()
	t.computeBoundingBox()

	return t
}

// computeNormal calculates and caches the triangle's normal vector
func (t *Triangle) computeNormal() {
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)
	t.normal = edge1.Cross(edge2).Normalize()
}

// computeBoundingBox calculates and caches the triangle's bounding box
func (t *Triangle) computeBoundingBox() {
	box := core.NewAABBFromPoints(t.V0, t.V1, t.V2)
	size := box.Size()
	pad := core.NewVec3(0, 0, 0)
	if size.X < boxPadding {
		pad.X = boxPadding
	}
	if size.Y < boxPadding {
		pad.Y = boxPadding
	}
	if size.Z < boxPadding {
		pad.Z = boxPadding
	}
	t.bbox = core.NewAABB(box.Min.Subtract(pad), box.Max.Add(pad))
}

// Hit intersects the ray with the triangle plane, then checks the hit point
// against the three edges
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	nDotDir := t.normal.Dot(ray.Direction)
	if nDotDir > -parallelEpsilon && nDotDir < parallelEpsilon {
		return nil, false
	}

	// Plane: dot(p - V0, n) = 0
	tParam := t.V0.Subtract(ray.Origin).Dot(t.normal) / nDotDir
	if tParam < tMin || tParam > tMax {
		return nil, false
	}

	p := ray.At(tParam)

	// p must lie on the inner side of every edge
	if t.V1.Subtract(t.V0).Cross(p.Subtract(t.V0)).Dot(t.normal) < 0 {
		return nil, false
	}
	if t.V2.Subtract(t.V1).Cross(p.Subtract(t.V1)).Dot(t.normal) < 0 {
		return nil, false
	}
	if t.V0.Subtract(t.V2).Cross(p.Subtract(t.V2)).Dot(t.normal) < 0 {
		return nil, false
	}

	hitRecord := &core.HitRecord{
		T:        tParam,
		Point:    p,
		Material: t.Material,
	}
	hitRecord.SetFaceNormal(ray, t.normal)

	return hitRecord, true
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() (core.AABB, bool) {
	return t.bbox, true
}

// Normal returns the triangle's unit normal vector
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}
