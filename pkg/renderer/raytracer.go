package renderer

import (
	"image"
	"image/color"
	"math"
	"math/rand"
	"sync/atomic"

	"github.com/df07/go-pathtracer/pkg/core"
)

// hitEpsilon keeps scattered rays from re-hitting the surface they left
const hitEpsilon = 0.001

// Scene interface to avoid circular imports
type Scene interface {
	GetCamera() *Camera
	GetWorld() core.Hittable
}

// Raytracer evaluates pixel colors for a scene. It holds no mutable state,
// so one instance is shared by every worker.
type Raytracer struct {
	world  core.Hittable
	camera *Camera
	width  int
	height int
	config RenderConfig
}

// NewRaytracer creates a new raytracer
func NewRaytracer(scene Scene, width, height int, config RenderConfig) *Raytracer {
	return &Raytracer{
		world:  scene.GetWorld(),
		camera: scene.GetCamera(),
		width:  width,
		height: height,
		config: config,
	}
}

// backgroundGradient returns the sky color: white at the horizon, light blue at the zenith
func backgroundGradient(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()

	// Use the y-component to create a gradient (map from -1,1 to 0,1)
	t := 0.5 * (unitDirection.Y + 1.0)

	white := core.NewVec3(1.0, 1.0, 1.0)
	blue := core.NewVec3(0.5, 0.7, 1.0)
	return white.Multiply(1.0 - t).Add(blue.Multiply(t))
}

// RayColor returns the radiance carried back along r, following at most depth bounces
func (rt *Raytracer) RayColor(r core.Ray, depth int, random *rand.Rand) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, isHit := rt.world.Hit(r, hitEpsilon, math.Inf(1))
	if !isHit {
		return backgroundGradient(r)
	}

	scatter, didScatter := hit.Material.Scatter(r, *hit, random)
	if !didScatter {
		return core.Vec3{} // Material absorbed the ray
	}

	return scatter.Attenuation.MultiplyVec(rt.RayColor(scatter.Scattered, depth-1, random))
}

// SamplePixel accumulates SamplesPerPixel jittered samples for the pixel at
// column x and row y, where row 0 is the top of the image
func (rt *Raytracer) SamplePixel(x, y int, random *rand.Rand) PixelStats {
	var ps PixelStats
	j := rt.height - 1 - y

	for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
		s := (float64(x) + random.Float64()) / float64(rt.width)
		t := (float64(j) + random.Float64()) / float64(rt.height)

		ray := rt.camera.GetRay(s, t, random)
		ps.AddSample(rt.RayColor(ray, rt.config.MaxDepth, random))
	}

	return ps
}

// RenderBounds renders every pixel inside bounds and returns them row-major.
// pixelsDone is incremented once per finished pixel.
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, random *rand.Rand, pixelsDone *atomic.Int64) []color.RGBA {
	pixels := make([]color.RGBA, 0, bounds.Dx()*bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ps := rt.SamplePixel(x, y, random)
			pixels = append(pixels, ColorToRGBA(ps.ColorAccum, ps.SampleCount))
			if pixelsDone != nil {
				pixelsDone.Add(1)
			}
		}
	}

	return pixels
}

// ColorToRGBA converts an accumulated color sum to 8-bit RGBA: average over
// the samples, gamma 2 correction, then clamp to [0, 0.999]
func ColorToRGBA(sum core.Vec3, samples int) color.RGBA {
	if samples <= 0 {
		return color.RGBA{A: 255}
	}

	colorVec := sum.Multiply(1.0 / float64(samples)).Sqrt().Clamp(0.0, 0.999)

	return color.RGBA{
		R: uint8(256 * colorVec.X),
		G: uint8(256 * colorVec.Y),
		B: uint8(256 * colorVec.Z),
		A: 255,
	}
}
