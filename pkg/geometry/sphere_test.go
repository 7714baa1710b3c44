package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

var testMaterial = material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))

func defaultRange() core.Interval {
	return core.NewInterval(0.001, 1000.0)
}

func TestNewSphere_ClampsNegativeRadius(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), -2.0, testMaterial)
	if sphere.Radius != 0 {
		t.Errorf("Expected negative radius clamped to 0, got %f", sphere.Radius)
	}
}

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray, defaultRange())
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := sphere.Hit(ray, defaultRange())

			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}

			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}

			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, hit.FrontFace)
			}

			if hit.Normal.Subtract(tt.expectedNormal).Length() > 1e-9 {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}

			if hit.Material != testMaterial {
				t.Errorf("Expected hit record to reference the sphere's material")
			}
		})
	}
}

func TestSphere_Hit_GlancingHit(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(1, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, defaultRange())
	if !isHit {
		t.Fatal("Expected glancing hit, but got miss")
	}

	expectedPoint := core.NewVec3(1, 0, 0)
	if hit.Point.Subtract(expectedPoint).Length() > 1e-9 {
		t.Errorf("Expected hit point %v, got %v", expectedPoint, hit.Point)
	}
}

func TestSphere_Hit_Bounds(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	// Roots are at t=1 and t=3
	tests := []struct {
		name     string
		rayT     core.Interval
		expectT  float64
		expectOK bool
	}{
		{"both roots above tMax", core.NewInterval(0.001, 0.5), 0, false},
		{"both roots below tMin", core.NewInterval(3.5, 1000), 0, false},
		{"near root excluded, far root accepted", core.NewInterval(1.5, 1000), 3, true},
		{"tMax equal to near root is exclusive", core.NewInterval(0.001, 1), 0, false},
		{"tMin equal to far root is exclusive", core.NewInterval(3, 1000), 0, false},
		{"empty interval", core.EmptyInterval, 0, false},
		{"universe interval", core.UniverseInterval, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := sphere.Hit(ray, tt.rayT)
			if isHit != tt.expectOK {
				t.Fatalf("Expected hit=%t, got %t", tt.expectOK, isHit)
			}
			if isHit && math.Abs(hit.T-tt.expectT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.expectT, hit.T)
			}
		})
	}
}

func TestSphere_Hit_PointOnSurfaceAndRay(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	sampler := core.NewRandomSampler(random)

	for i := 0; i < 500; i++ {
		center := core.RandomVec3InRange(sampler, -3, 3)
		radius := 0.1 + 2*random.Float64()
		sphere := NewSphere(center, radius, testMaterial)

		origin := core.RandomVec3InRange(sampler, -10, 10)
		// Aim near the center so that most rays hit
		target := center.Add(core.RandomVec3InRange(sampler, -radius, radius))
		ray := core.NewRay(origin, target.Subtract(origin).Multiply(0.5+random.Float64()))

		hit, isHit := sphere.Hit(ray, core.NewInterval(0.001, math.Inf(1)))
		if !isHit {
			continue
		}

		if d := hit.Point.Subtract(center).Length(); math.Abs(d-radius) > 1e-9*math.Max(1, radius) {
			t.Fatalf("Hit point %v is %f from center, expected radius %f", hit.Point, d, radius)
		}
		if hit.Point.Subtract(ray.At(hit.T)).Length() > 1e-12 {
			t.Fatalf("Hit point %v does not lie on ray at t=%f", hit.Point, hit.T)
		}
		if ray.Direction.Dot(hit.Normal) > 0 {
			t.Fatalf("Normal %v does not oppose ray direction %v", hit.Normal, ray.Direction)
		}
		if math.Abs(hit.Normal.Length()-1) > 1e-9 {
			t.Fatalf("Normal %v is not unit length", hit.Normal)
		}
	}
}
