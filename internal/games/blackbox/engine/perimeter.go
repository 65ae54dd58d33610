package engine

import "fmt"

// PerimeterSize is the number of labelled entry/exit points on the rim.
const PerimeterSize = 54

// Port is one open side of an edge cell: the place where a ray enters or
// leaves the board.
type Port struct {
	Cell CellID
	Side Direction
}

// perimeterTable maps labels to ports and back. Both directions come from a
// single walk of the rim, so they always agree.
type perimeterTable struct {
	ports  [PerimeterSize + 1]Port
	labels [CellCount][directionCount]int // 0 for sides with a neighbor
}

var perimeter = buildPerimeter()

// buildPerimeter follows the rim of a freshly built board, starting at the
// upper-left side of cell (0, 0) and heading down the left edge. Each open
// side met along the way gets the next label. When the side being examined
// has a neighbor the walk steps into that neighbor and resumes two sides
// further round.
func buildPerimeter() perimeterTable {
	b := NewBoard()
	var t perimeterTable

	id := mustID(0, 0)
	side := UpperLeft
	for label := 1; label <= PerimeterSize; {
		next := b.cells[id].neighbors[side]
		if next != NoCell {
			id = next
			side = side.Turn(2)
			continue
		}

		t.ports[label] = Port{Cell: id, Side: side}
		t.labels[id][side] = label
		label++
		side = side.Turn(-1)
	}

	return t
}

// EntryPort returns the cell and entry side for a perimeter label.
func EntryPort(label int) (Port, error) {
	if label < 1 || label > PerimeterSize {
		return Port{}, fmt.Errorf("%w: %d", ErrInvalidInput, label)
	}
	return perimeter.ports[label], nil
}

// Label returns the perimeter label of a port.
// The second result is false if the side has a neighbor, i.e. is not on the rim.
func Label(p Port) (int, bool) {
	if p.Cell < 0 || int(p.Cell) >= CellCount || !p.Side.Valid() {
		return 0, false
	}
	label := perimeter.labels[p.Cell][p.Side]
	return label, label != 0
}

// Ports returns every rim port in label order; element i has label i+1.
func Ports() []Port {
	ports := make([]Port, PerimeterSize)
	copy(ports, perimeter.ports[1:])
	return ports
}
