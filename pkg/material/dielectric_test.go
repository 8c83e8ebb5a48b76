package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestDielectricBasicBehavior(t *testing.T) {
	glass := NewDielectric(1.5)

	rayDirection := core.NewVec3(1, -1, 0).Normalize() // 45-degree angle
	ray := core.NewRay(core.NewVec3(0, 1, 0), rayDirection)

	hit := core.HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: true,
		Material:  glass,
	}

	hasReflection := false
	hasRefraction := false

	for seed := int64(0); seed < 1000; seed++ {
		result, scattered := glass.Scatter(ray, hit, rand.New(rand.NewSource(seed)))
		if !scattered {
			t.Fatal("Dielectric should always scatter")
		}

		// Clear glass never tints
		if result.Attenuation != core.NewVec3(1.0, 1.0, 1.0) {
			t.Fatalf("Expected attenuation (1,1,1), got %v", result.Attenuation)
		}

		direction := result.Scattered.Direction.Normalize()
		if direction.Y > 0 {
			hasReflection = true
			expected := core.NewVec3(1, 1, 0).Normalize()
			if direction.Subtract(expected).Length() > 1e-9 {
				t.Errorf("Reflected direction %v, expected %v", direction, expected)
			}
		} else {
			hasRefraction = true
			// Snell: sin(theta_t) = sin(45°) / 1.5
			expectedSin := math.Sin(math.Pi/4) / 1.5
			if math.Abs(direction.X-expectedSin) > 1e-9 {
				t.Errorf("Refracted sin %f, expected %f", direction.X, expectedSin)
			}
		}
	}

	if !hasRefraction {
		t.Error("Expected to see refraction in at least some cases")
	}
	// Reflectance at 45° air->glass is about 5%, so 1000 draws will see some
	if !hasReflection {
		t.Error("Expected to see reflection in at least some cases")
	}
}

func TestDielectricTotalInternalReflection(t *testing.T) {
	glass := NewDielectric(1.5)

	// Glass to air at a shallow angle
	rayDirection := core.NewVec3(1, -0.1, 0).Normalize()
	ray := core.NewRay(core.NewVec3(0, 0, 0), rayDirection)

	hit := core.HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: false, // Exiting the material
		Material:  glass,
	}

	cosTheta := -rayDirection.Dot(hit.Normal)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)
	if 1.5*sinTheta <= 1.0 {
		t.Fatalf("Test setup error: this angle should cause total internal reflection")
	}

	for i := 0; i < 10; i++ {
		result, scattered := glass.Scatter(ray, hit, rand.New(rand.NewSource(int64(i))))
		if !scattered {
			t.Error("Dielectric should always scatter")
		}

		if result.Scattered.Direction.Y <= 0 {
			t.Errorf("Expected total internal reflection (ray going up), got %+v", result.Scattered.Direction)
		}

		if math.Abs(result.Scattered.Direction.X-rayDirection.X) > 1e-10 {
			t.Errorf("Expected X component %.6f, got %.6f", rayDirection.X, result.Scattered.Direction.X)
		}
	}
}

func TestReflectanceFunction(t *testing.T) {
	// Normal incidence (0°) - should be low for air->glass
	r0 := Reflectance(1.0, 1.0/1.5)
	if math.Abs(r0-0.04) > 1e-9 {
		t.Errorf("Normal incidence reflectance = %.6f, expected 0.04", r0)
	}

	// Grazing incidence (90°) - exactly 1
	r90 := Reflectance(0.0, 1.0/1.5)
	if math.Abs(r90-1.0) > 1e-12 {
		t.Errorf("Grazing incidence reflectance = %.3f, expected 1.0", r90)
	}

	r45 := Reflectance(math.Cos(math.Pi/4), 1.0/1.5)
	if r45 <= r0 || r45 >= r90 {
		t.Errorf("Reflectance should increase with angle: R(0°)=%.3f, R(45°)=%.3f, R(90°)=%.3f", r0, r45, r90)
	}
}
