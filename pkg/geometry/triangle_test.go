package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

func TestTriangle_Hit(t *testing.T) {
	// Create a triangle in the XY plane with normal +Z
	v0 := core.NewVec3(0, 0, 0)
	v1 := core.NewVec3(1, 0, 0)
	v2 := core.NewVec3(0, 1, 0)
	triangle := NewTriangle(v0, v1, v2, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	tests := []struct {
		name          string
		ray           core.Ray
		shouldHit     bool
		expectedT     float64
		expectedFront bool
	}{
		{
			name:          "Ray toward the front face",
			ray:           core.NewRay(core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, -1)),
			shouldHit:     true,
			expectedT:     1.0,
			expectedFront: true,
		},
		{
			name:          "Ray toward the back face",
			ray:           core.NewRay(core.NewVec3(0.25, 0.25, -1), core.NewVec3(0, 0, 1)),
			shouldHit:     true,
			expectedT:     1.0,
			expectedFront: false,
		},
		{
			name:          "Ray hits triangle edge",
			ray:           core.NewRay(core.NewVec3(0.5, 0, -1), core.NewVec3(0, 0, 1)),
			shouldHit:     true,
			expectedT:     1.0,
			expectedFront: false,
		},
		{
			name:      "Ray pointing away from the plane",
			ray:       core.NewRay(core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, 1)),
			shouldHit: false,
		},
		{
			name:      "Ray misses past the hypotenuse",
			ray:       core.NewRay(core.NewVec3(0.51, 0.51, -1), core.NewVec3(0, 0, 1)),
			shouldHit: false,
		},
		{
			name:      "Ray misses past the left edge",
			ray:       core.NewRay(core.NewVec3(-0.01, 0.5, -1), core.NewVec3(0, 0, 1)),
			shouldHit: false,
		},
		{
			name:      "Ray misses past the bottom edge",
			ray:       core.NewRay(core.NewVec3(0.5, -0.01, -1), core.NewVec3(0, 0, 1)),
			shouldHit: false,
		},
		{
			name:      "Ray parallel to triangle",
			ray:       core.NewRay(core.NewVec3(0.25, 0.25, 0), core.NewVec3(1, 0, 0)),
			shouldHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := triangle.Hit(tt.ray, 0.001, 10.0)

			if isHit != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got hit=%v", tt.shouldHit, isHit)
			}
			if !tt.shouldHit {
				return
			}

			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}
			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %v, got %v", tt.expectedFront, hit.FrontFace)
			}
			if hit.Point.Subtract(tt.ray.At(hit.T)).Length() > 1e-9 {
				t.Errorf("Hit point mismatch: expected %v, got %v", tt.ray.At(hit.T), hit.Point)
			}
			if hit.Normal.Dot(tt.ray.Direction) >= 0 {
				t.Errorf("Normal %v should oppose the ray direction %v", hit.Normal, tt.ray.Direction)
			}
		})
	}
}

func TestTriangle_HitCentroidAlongNormal(t *testing.T) {
	v0 := core.NewVec3(1, -2, 0.5)
	v1 := core.NewVec3(3, 1, -1)
	v2 := core.NewVec3(-1, 2, 2)
	triangle := NewTriangle(v0, v1, v2, nil)

	centroid := v0.Add(v1).Add(v2).Divide(3)
	normal := triangle.Normal()

	// Start above the centroid on the outward side and shoot back along -n
	ray := core.NewRay(centroid.Add(normal.Multiply(5)), normal.Negate())
	hit, isHit := triangle.Hit(ray, 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected centroid hit")
	}
	if !hit.FrontFace {
		t.Error("Ray travelling against the normal should hit the front face")
	}
	if math.Abs(hit.T-5) > 1e-9 {
		t.Errorf("Expected t=5, got %f", hit.T)
	}
	if d := hit.Normal.Dot(hit.Point.Subtract(v0)); math.Abs(d) > 1e-9 {
		t.Errorf("Hit point should lie in the triangle plane, dot=%g", d)
	}

	// Shift the ray just outside each edge
	edges := [][2]core.Vec3{{v0, v1}, {v1, v2}, {v2, v0}}
	for i, edge := range edges {
		midpoint := edge[0].Add(edge[1]).Multiply(0.5)
		outward := midpoint.Subtract(centroid).Normalize()
		origin := midpoint.Add(outward.Multiply(0.01)).Add(normal.Multiply(5))
		if _, isHit := triangle.Hit(core.NewRay(origin, normal.Negate()), 0.001, math.Inf(1)); isHit {
			t.Errorf("Expected miss just outside edge %d", i)
		}
	}
}

func TestTriangle_Degenerate(t *testing.T) {
	// Collinear vertices have no normal and never report a hit
	triangle := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(2, 0, 0), nil)
	ray := core.NewRay(core.NewVec3(0.5, 0, -1), core.NewVec3(0, 0, 1))
	if _, isHit := triangle.Hit(ray, 0.001, 10.0); isHit {
		t.Error("Degenerate triangle should never be hit")
	}
}

func TestTriangle_BoundingBox(t *testing.T) {
	v0 := core.NewVec3(0, 0, 0)
	v1 := core.NewVec3(2, 0, 0)
	v2 := core.NewVec3(1, 3, 0)
	triangle := NewTriangle(v0, v1, v2, nil)

	bbox, ok := triangle.BoundingBox()
	if !ok {
		t.Fatal("Triangle should always be bounded")
	}

	// The flat Z axis is padded so the slab test can still hit it
	expectedMin := core.NewVec3(0, 0, -boxPadding)
	expectedMax := core.NewVec3(2, 3, boxPadding)

	const tolerance = 1e-9
	if bbox.Min.Subtract(expectedMin).Length() > tolerance {
		t.Errorf("Expected min %v, got %v", expectedMin, bbox.Min)
	}
	if bbox.Max.Subtract(expectedMax).Length() > tolerance {
		t.Errorf("Expected max %v, got %v", expectedMax, bbox.Max)
	}

	ray := core.NewRay(core.NewVec3(1, 1, -1), core.NewVec3(0, 0, 1))
	if !bbox.Hit(ray, 0.001, 10.0) {
		t.Error("Ray through a flat triangle should hit its padded box")
	}
}
