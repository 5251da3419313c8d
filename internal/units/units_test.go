package units

import (
	"math"
	"testing"
)

func TestConvertSpeedKMH(t *testing.T) {
	tests := []struct {
		name     string
		speedKMH float64
		units    string
		expected float64
	}{
		{"36 km/h to mps", 36.0, MPS, 10.0},
		{"36 km/h to kmph", 36.0, KMPH, 36.0},
		{"36 km/h to kph", 36.0, KPH, 36.0},
		{"100 km/h to mph", 100.0, MPH, 62.137},
		{"unknown units stay km/h", 42.0, "unknown", 42.0},
		{"0 km/h to mph", 0.0, MPH, 0.0},
		{"city speed 50 km/h to mps", 50.0, MPS, 13.889},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertSpeedKMH(tt.speedKMH, tt.units)
			if math.Abs(result-tt.expected) > 0.01 {
				t.Errorf("ConvertSpeedKMH(%f, %s) = %f, want %f", tt.speedKMH, tt.units, result, tt.expected)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	for _, u := range ValidUnits {
		if !IsValid(u) {
			t.Errorf("IsValid(%q) = false, want true", u)
		}
	}
	for _, u := range []string{"", "knots", "MPH", "m/s"} {
		if IsValid(u) {
			t.Errorf("IsValid(%q) = true, want false", u)
		}
	}
}

func TestAccelerationConversions(t *testing.T) {
	if got := GToMPS2(1); math.Abs(got-9.80665) > 1e-9 {
		t.Errorf("GToMPS2(1) = %f, want 9.80665", got)
	}
	if got := MPS2ToG(9.80665); math.Abs(got-1) > 1e-9 {
		t.Errorf("MPS2ToG(9.80665) = %f, want 1", got)
	}
	// Round trip
	if got := MPS2ToG(GToMPS2(0.25)); math.Abs(got-0.25) > 1e-12 {
		t.Errorf("round trip = %f, want 0.25", got)
	}
}

func TestKMHToMPS(t *testing.T) {
	if got := KMHToMPS(7.0); math.Abs(got-1.9444) > 0.001 {
		t.Errorf("KMHToMPS(7) = %f, want ~1.944", got)
	}
}
