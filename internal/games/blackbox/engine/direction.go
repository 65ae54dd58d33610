package engine

// Direction identifies one of the six sides of a hexagonal cell,
// numbered clockwise starting at the upper-left side.
type Direction int

const (
	UpperLeft Direction = iota
	UpperRight
	Right
	LowerRight
	LowerLeft
	Left
)

// NoExit is the exit direction recorded for a ray absorbed inside a cell.
const NoExit Direction = -1

// directionCount is the number of sides of a cell.
const directionCount = 6

// Turn rotates the direction clockwise by n sides (negative n rotates counter-clockwise).
func (d Direction) Turn(n int) Direction {
	return Direction(((int(d)+n)%directionCount + directionCount) % directionCount)
}

// Opposite returns the side facing this one.
func (d Direction) Opposite() Direction {
	return d.Turn(3)
}

// Valid reports whether d is one of the six sides.
func (d Direction) Valid() bool {
	return d >= UpperLeft && d <= Left
}

// String returns a short human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case UpperLeft:
		return "upper-left"
	case UpperRight:
		return "upper-right"
	case Right:
		return "right"
	case LowerRight:
		return "lower-right"
	case LowerLeft:
		return "lower-left"
	case Left:
		return "left"
	case NoExit:
		return "absorbed"
	default:
		return "unknown"
	}
}
