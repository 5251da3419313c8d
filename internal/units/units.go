// Package units provides shared constants and conversions for speed and
// acceleration units. Clients report speed in km/h and vertical acceleration
// in m/s² (already gravity-corrected); the database stores both unchanged.
package units

// Speed unit constants
const (
	MPS  = "mps"
	MPH  = "mph"
	KMPH = "kmph"
	KPH  = "kph"
)

// StandardGravity is one g in m/s².
const StandardGravity = 9.80665

// ValidUnits contains all valid speed unit values
var ValidUnits = []string{MPS, MPH, KMPH, KPH}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "mps, mph, kmph, kph"
}

// ConvertSpeedKMH converts a speed from km/h (the wire and storage unit) to
// the target units.
func ConvertSpeedKMH(speedKMH float64, targetUnits string) float64 {
	switch targetUnits {
	case KMPH, KPH:
		return speedKMH
	case MPS:
		return speedKMH / 3.6
	case MPH:
		return speedKMH * 0.62137119223733
	default:
		return speedKMH
	}
}

// KMHToMPS converts km/h to m/s.
func KMHToMPS(speedKMH float64) float64 {
	return speedKMH / 3.6
}

// GToMPS2 converts an acceleration in g-units to m/s².
func GToMPS2(g float64) float64 {
	return g * StandardGravity
}

// MPS2ToG converts an acceleration in m/s² to g-units.
func MPS2ToG(a float64) float64 {
	return a / StandardGravity
}
