package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

func TestDielectricBasicBehavior(t *testing.T) {
	glass := NewDielectric(1.5)

	rayDirection := core.NewVec3(1, -1, 0).Normalize() // 45-degree angle
	ray := core.Ray{Origin: core.NewVec3(0, 1, 0), Direction: rayDirection}

	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: true,
		Material:  glass,
	}

	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	result, scattered := glass.Scatter(ray, hit, sampler)

	if !scattered {
		t.Error("Dielectric should always scatter")
	}

	expectedAttenuation := core.NewVec3(1.0, 1.0, 1.0)
	if result.Attenuation != expectedAttenuation {
		t.Errorf("Expected attenuation %v, got %v", expectedAttenuation, result.Attenuation)
	}

	// Both reflection and refraction occur across draws; air->glass at 45° reflects ~5% of the time
	hasReflection := false
	hasRefraction := false

	for i := 0; i < 2000 && (!hasReflection || !hasRefraction); i++ {
		result, _ := glass.Scatter(ray, hit, sampler)
		if result.Scattered.Direction.Y > 0 {
			hasReflection = true
		} else {
			hasRefraction = true
		}
	}

	if !hasRefraction {
		t.Error("Expected to see refraction in at least some cases")
	}
	if !hasReflection {
		t.Error("Expected to see Schlick reflection in at least some cases")
	}
}

func TestDielectric_RefractionBendsTowardNormal(t *testing.T) {
	glass := NewDielectric(1.5)
	// A draw of 0.99 is always above the ~5% reflectance, forcing refraction
	sampler := newSequenceSampler(0.99)

	rayDirection := core.NewVec3(1, -1, 0).Normalize()
	ray := core.NewRay(core.NewVec3(-1, 1, 0), rayDirection)
	hit := HitRecord{Point: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 1, 0), FrontFace: true}

	result, _ := glass.Scatter(ray, hit, sampler)
	dir := result.Scattered.Direction

	// Snell's law: sin(theta_t) = sin(45°) / 1.5
	sinT := math.Abs(dir.X) / dir.Length()
	expected := math.Sin(math.Pi/4) / 1.5
	if math.Abs(sinT-expected) > 1e-9 {
		t.Errorf("Expected refracted sin %f, got %f", expected, sinT)
	}
	if dir.Y >= 0 {
		t.Errorf("Refracted ray should continue into the surface, got %v", dir)
	}
}

func TestDielectric_IndexOneDoesNotBend(t *testing.T) {
	// A refractive index of 1.0 has zero Schlick reflectance at r0 and negligible
	// reflectance at moderate angles; a draw of 0.5 always refracts
	air := NewDielectric(1.0)

	directions := []core.Vec3{
		core.NewVec3(0, -1, 0),
		core.NewVec3(0.3, -1, 0.2).Normalize(),
		core.NewVec3(-1, -1, 0).Normalize(),
	}

	for _, frontFace := range []bool{true, false} {
		for _, d := range directions {
			sampler := newSequenceSampler(0.5)
			ray := core.NewRay(core.NewVec3(0, 1, 0), d)
			hit := HitRecord{Point: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 1, 0), FrontFace: frontFace}

			result, scattered := air.Scatter(ray, hit, sampler)
			if !scattered {
				t.Fatal("Dielectric should always scatter")
			}
			if result.Scattered.Direction.Subtract(d).Length() > 1e-9 {
				t.Errorf("Index 1.0 should not bend %v (front=%t), got %v", d, frontFace, result.Scattered.Direction)
			}
		}
	}
}

func TestDielectricTotalInternalReflection(t *testing.T) {
	glass := NewDielectric(1.5)

	// Glass to air at a shallow angle
	rayDirection := core.NewVec3(1, -0.1, 0).Normalize()
	ray := core.Ray{Origin: core.NewVec3(0, 0, 0), Direction: rayDirection}

	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: false,
		Material:  glass,
	}

	cosTheta := -rayDirection.Dot(hit.Normal)
	refractionRatio := 1.5
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)
	if refractionRatio*sinTheta <= 1.0 {
		t.Fatalf("Test setup error: this angle should cause total internal reflection")
	}

	for i := 0; i < 10; i++ {
		sampler := core.NewRandomSampler(rand.New(rand.NewSource(int64(i))))
		result, scattered := glass.Scatter(ray, hit, sampler)

		if !scattered {
			t.Error("Dielectric should always scatter")
		}

		if result.Scattered.Direction.Y <= 0 {
			t.Errorf("Expected total internal reflection (ray going up), got %+v", result.Scattered.Direction)
		}

		expectedX := rayDirection.X
		if math.Abs(result.Scattered.Direction.X-expectedX) > 1e-10 {
			t.Errorf("Expected X component %.6f, got %.6f", expectedX, result.Scattered.Direction.X)
		}
	}
}

func TestReflectanceFunction(t *testing.T) {
	// Normal incidence - low for air->glass
	r0 := Reflectance(1.0, 1.0/1.5)
	if r0 < 0.03 || r0 > 0.06 {
		t.Errorf("Normal incidence reflectance = %.3f, expected ~0.04", r0)
	}

	// Grazing incidence - everything reflects
	r90 := Reflectance(0.0, 1.0/1.5)
	if math.Abs(r90-1.0) > 1e-12 {
		t.Errorf("Grazing incidence reflectance = %.3f, expected 1.0", r90)
	}

	r45 := Reflectance(0.707, 1.0/1.5)
	if r45 <= r0 || r90 <= r45 {
		t.Errorf("Reflectance should increase with angle: R(0°)=%.3f, R(45°)=%.3f, R(90°)=%.3f", r0, r45, r90)
	}

	if got := Reflectance(1.0, 1.0); got != 0 {
		t.Errorf("Matched indices should not reflect at normal incidence, got %f", got)
	}
}
