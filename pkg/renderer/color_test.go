package renderer

import (
	"bytes"
	"image/color"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

func TestLinearToGamma(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{0, 0},
		{-0.5, 0},
		{0.25, 0.5},
		{1, 1},
		{4, 2},
		{math.NaN(), 0},
	}

	for _, tt := range tests {
		if got := LinearToGamma(tt.input); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("LinearToGamma(%f) = %f, expected %f", tt.input, got, tt.expected)
		}
	}
}

func TestWriteColor(t *testing.T) {
	tests := []struct {
		name     string
		input    core.Vec3
		expected string
	}{
		{"black", core.NewVec3(0, 0, 0), "0 0 0\n"},
		{"white", core.NewVec3(1, 1, 1), "255 255 255\n"},
		{"above one clamps", core.NewVec3(5, 1.0001, 100), "255 255 255\n"},
		{"negative clamps", core.NewVec3(-1, -0.001, -100), "0 0 0\n"},
		{"gamma applied", core.NewVec3(0.25, 0.0625, 0), "128 64 0\n"},
		{"infinity clamps", core.NewVec3(math.Inf(1), math.Inf(-1), math.NaN()), "255 0 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteColor(&buf, tt.input); err != nil {
				t.Fatalf("WriteColor failed: %v", err)
			}
			if diff := cmp.Diff(tt.expected, buf.String()); diff != "" {
				t.Errorf("WriteColor(%v) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestQuantizeColor_OpaqueAndInRange(t *testing.T) {
	sampler := core.NewSeededSampler(3)
	for i := 0; i < 1000; i++ {
		c := core.RandomVec3InRange(sampler, -2, 2)
		got := QuantizeColor(c)
		if got.A != 255 {
			t.Fatalf("Expected opaque pixel, got alpha %d", got.A)
		}

		want := color.RGBA{R: quantize(c.X), G: quantize(c.Y), B: quantize(c.Z), A: 255}
		if got != want {
			t.Fatalf("QuantizeColor(%v) = %v, expected %v", c, got, want)
		}
	}
}
