package engine

import "slices"

// Segment records one ray's passage through one cell.
// Exit is NoExit when the ray was absorbed in the cell.
type Segment struct {
	Entry Direction
	Exit  Direction
}

// Absorbed reports whether the ray ended inside the cell.
func (s Segment) Absorbed() bool {
	return s.Exit == NoExit
}

// Marker pairs the label a ray was fired from with the label it came out at.
type Marker struct {
	Input  int
	Output int
}

// Absorbed reports whether the marked ray never left the board.
func (m Marker) Absorbed() bool {
	return m.Output == Absorbed
}

// Reflected reports whether the marked ray came back out where it entered.
func (m Marker) Reflected() bool {
	return m.Output == m.Input
}

// AddMarker records the result of a shot. A second marker for the same input
// replaces the earlier one in place.
func (b *Board) AddMarker(input, output int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.addMarkerLocked(Marker{Input: input, Output: output})
}

func (b *Board) addMarkerLocked(m Marker) {
	for i := range b.markers {
		if b.markers[i].Input == m.Input {
			b.markers[i] = m
			return
		}
	}
	b.markers = append(b.markers, m)
}

// Markers returns every recorded marker in the order the shots were made.
func (b *Board) Markers() []Marker {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.markers)
}

// Tested reports whether label was already used as the input or the output
// of a recorded marker.
func (b *Board) Tested(label int) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, m := range b.markers {
		if m.Input == label || m.Output == label {
			return true
		}
	}
	return false
}
