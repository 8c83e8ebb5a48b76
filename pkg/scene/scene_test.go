package scene

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

const pyramidOBJ = `# Scene: Tiny Pyramid
# Description: Four triangles over a square base
v -1 0 -1
v 1 0 -1
v 1 0 1
v -1 0 1
v 0 1.5 0
f 1 2 5
f 2 3 5
f 3 4 5
f 4 1 5
`

func writeModel(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write model: %v", err)
	}
	return path
}

func TestScene_PreprocessBuildsBVH(t *testing.T) {
	s := NewDefaultScene()
	if s.BVH != nil {
		t.Fatal("BVH should not exist before Preprocess")
	}
	if _, ok := s.GetWorld().(*core.PrimitiveList); !ok {
		t.Errorf("Expected flat list world before Preprocess, got %T", s.GetWorld())
	}

	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	if s.GetWorld() != core.Hittable(s.BVH) {
		t.Error("World should be the BVH after Preprocess")
	}

	stats := s.BVH.Stats()
	if stats.LeafRefs < s.GetPrimitiveCount() {
		t.Errorf("Expected at least %d leaf refs, got %d", s.GetPrimitiveCount(), stats.LeafRefs)
	}
}

func TestScene_PreprocessEmptyFails(t *testing.T) {
	s := newScene(renderer.CameraConfig{
		Center: core.NewVec3(0, 0, 1), LookAt: core.NewVec3(0, 0, 0), Up: core.NewVec3(0, 1, 0),
		VFov: 40, AspectRatio: 1,
	})
	if err := s.Preprocess(); !errors.Is(err, core.ErrEmptyBVH) {
		t.Errorf("Expected ErrEmptyBVH, got %v", err)
	}
}

func TestScene_SameHitsThroughBVHAndList(t *testing.T) {
	s := NewRandomSpheresScene(3)
	flat := s.GetWorld()
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	ray := core.NewRay(s.CameraConfig.Center, s.CameraConfig.LookAt.Subtract(s.CameraConfig.Center))
	want, wantHit := flat.Hit(ray, 0.001, math.Inf(1))
	got, gotHit := s.BVH.Hit(ray, 0.001, math.Inf(1))
	if wantHit != gotHit {
		t.Fatalf("Hit mismatch: list=%v bvh=%v", wantHit, gotHit)
	}
	if wantHit && math.Abs(want.T-got.T) > 1e-9 {
		t.Errorf("Closest hit differs: list t=%f, bvh t=%f", want.T, got.T)
	}
}

func TestNewRandomSpheresScene_Deterministic(t *testing.T) {
	a := NewRandomSpheresScene(42)
	b := NewRandomSpheresScene(42)
	c := NewRandomSpheresScene(43)

	if len(a.Shapes) != len(b.Shapes) {
		t.Fatalf("Same seed gave %d and %d shapes", len(a.Shapes), len(b.Shapes))
	}
	for i := range a.Shapes {
		boxA, _ := a.Shapes[i].BoundingBox()
		boxB, _ := b.Shapes[i].BoundingBox()
		if boxA != boxB {
			t.Fatalf("Shape %d differs between identical seeds", i)
		}
	}

	// Ground plus three large spheres plus a field of small ones
	if len(a.Shapes) < 4+400 {
		t.Errorf("Expected a dense sphere field, got %d shapes", len(a.Shapes))
	}

	differs := len(a.Shapes) != len(c.Shapes)
	for i := 1; !differs && i < len(a.Shapes); i++ {
		boxA, _ := a.Shapes[i].BoundingBox()
		boxC, _ := c.Shapes[i].BoundingBox()
		differs = boxA != boxC
	}
	if !differs {
		t.Error("Different seeds should give different layouts")
	}
}

func TestNewModelScene(t *testing.T) {
	path := writeModel(t, t.TempDir(), "pyramid.obj", pyramidOBJ)

	s, err := NewModelScene(path, ModelOptions{})
	if err != nil {
		t.Fatalf("NewModelScene failed: %v", err)
	}
	// Four triangles plus the ground sphere
	if s.GetPrimitiveCount() != 5 {
		t.Errorf("Expected 5 primitives, got %d", s.GetPrimitiveCount())
	}
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	// The camera is framed on the model, so its center ray hits it
	ray := core.NewRay(s.CameraConfig.Center, s.CameraConfig.LookAt.Subtract(s.CameraConfig.Center))
	hit, isHit := s.GetWorld().Hit(ray, 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected the center ray to hit the model")
	}
	if hit.Point.Y < 0 || hit.Point.Y > 1.5 {
		t.Errorf("Center ray hit %v outside the model", hit.Point)
	}
}

func TestNewModelScene_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := NewModelScene(filepath.Join(dir, "missing.obj"), ModelOptions{}); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}

	quads := writeModel(t, dir, "quads.obj", "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4\n")
	if _, err := NewModelScene(quads, ModelOptions{}); err == nil {
		t.Error("Expected error for non-triangulated model")
	}

	empty := writeModel(t, dir, "empty.obj", "# nothing here\n")
	if _, err := NewModelScene(empty, ModelOptions{}); err == nil {
		t.Error("Expected error for model without triangles")
	}
}

func TestMergeCameraConfig(t *testing.T) {
	base := renderer.CameraConfig{
		Center:      core.NewVec3(1, 2, 3),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: 16.0 / 9.0,
		Aperture:    0.1,
	}

	merged := mergeCameraConfig(base, renderer.CameraConfig{AspectRatio: 1, VFov: 60})
	if merged.AspectRatio != 1 || merged.VFov != 60 {
		t.Errorf("Overrides not applied: %+v", merged)
	}
	if merged.Center != base.Center || merged.Aperture != base.Aperture || merged.Up != base.Up {
		t.Errorf("Zero override fields should keep base values: %+v", merged)
	}

	pinhole := mergeCameraConfig(base, renderer.CameraConfig{Aperture: PinholeAperture})
	if pinhole.Aperture != 0 {
		t.Errorf("Expected pinhole override to clear the aperture, got %f", pinhole.Aperture)
	}

	wider := mergeCameraConfig(base, renderer.CameraConfig{Aperture: 0.5})
	if wider.Aperture != 0.5 {
		t.Errorf("Expected aperture 0.5, got %f", wider.Aperture)
	}
}
