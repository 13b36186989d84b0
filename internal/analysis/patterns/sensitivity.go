package patterns

// Sensitivity is a single 1-10 dial controlling how permissive every
// detector is: higher values loosen tolerances, shorten minimum separations
// and lower touch requirements. Values outside [1,10] are a caller-contract
// violation; the mappings below stay total but make no promise about what
// they mean. Callers validate at the boundary.

// DoubleParams holds the derived constants for double bottom/top detection.
type DoubleParams struct {
	Tolerance   float64 // max relative price difference between the two extrema
	MinDistance int     // minimum bar separation between the two extrema
}

// NewDoubleParams maps sensitivity to double bottom/top constants.
func NewDoubleParams(sensitivity, window int) DoubleParams {
	return DoubleParams{
		Tolerance:   0.03 * float64(11-sensitivity),
		MinDistance: maxInt(5, int(float64(window)*0.7*float64(11-sensitivity)/10)),
	}
}

// ShoulderParams holds the derived constants for head-and-shoulders
// detection (both orientations).
type ShoulderParams struct {
	Tolerance   float64 // max relative mismatch between shoulders / neckline points
	MinDistance int     // minimum bar separation between adjacent peaks
}

// NewShoulderParams maps sensitivity to head-and-shoulders constants.
func NewShoulderParams(sensitivity, window int) ShoulderParams {
	return ShoulderParams{
		Tolerance:   0.05 * float64(11-sensitivity),
		MinDistance: maxInt(3, int(float64(window)*0.2*float64(11-sensitivity)/10)),
	}
}

// TriangleParams holds the derived constants for triangle detection. The
// horizontal-side flatness test is a fixed 3% relative standard deviation
// and does not vary with sensitivity.
type TriangleParams struct {
	MinDuration int // minimum bar span from first to last defining point
}

// NewTriangleParams maps sensitivity to triangle constants.
func NewTriangleParams(sensitivity, window int) TriangleParams {
	return TriangleParams{
		MinDuration: maxInt(7, int(float64(window)*0.5*float64(11-sensitivity)/10)),
	}
}

// LevelParams holds the derived constants for support/resistance detection.
type LevelParams struct {
	MinTouches int     // touches required to confirm a level
	Threshold  float64 // relative distance counting as a touch
}

// NewLevelParams maps sensitivity to support/resistance constants.
func NewLevelParams(sensitivity int) LevelParams {
	return LevelParams{
		MinTouches: maxInt(2, 6-sensitivity/2),
		Threshold:  0.02 * float64(11-sensitivity),
	}
}
