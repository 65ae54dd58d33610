package engine

import (
	"errors"
	"testing"
)

// formulaCell is the arithmetic form of the label numbering: the start cell
// for an input label.
func formulaCell(p int) (row, col int) {
	switch {
	case p <= 10:
		return (p - 1) / 2, 0
	case p <= 19:
		return (p - 2) / 2, 0
	case p <= 28:
		return Rows - 1, (p - 19) / 2
	case p <= 37:
		row = (45 - p) / 2
		return row, 12 - row
	case p <= 46:
		row = (46 - p) / 2
		return row, row + 4
	default:
		return 0, (55 - p) / 2
	}
}

// formulaEntry is the arithmetic form of the entry side for an input label.
func formulaEntry(p int) Direction {
	odd := p%2 == 1
	switch {
	case (p <= 9 || p >= 47) && odd:
		return UpperLeft
	case p >= 2 && p <= 18 && !odd:
		return Left
	case p >= 11 && p <= 27 && odd:
		return LowerLeft
	case p >= 20 && p <= 36 && !odd:
		return LowerRight
	case p >= 29 && p <= 45 && odd:
		return Right
	default:
		return UpperRight
	}
}

// formulaOutput is the arithmetic form of the exit label of a rim port.
func formulaOutput(b *Board, row, col int, exit Direction) int {
	switch exit {
	case Left:
		return row*2 + 2
	case LowerLeft:
		return (row+col)*2 + 3
	case LowerRight:
		return col*2 + 20
	case Right:
		return 45 - row*2
	case UpperRight:
		return 54 - col*2
	}

	c, _ := b.CellAt(row, col)
	if _, ok := c.Neighbor(Left); !ok {
		return row*2 + 1
	}
	return 55 - col*2
}

func TestEntryPortMatchesFormulas(t *testing.T) {
	for p := 1; p <= PerimeterSize; p++ {
		port, err := EntryPort(p)
		if err != nil {
			t.Fatalf("EntryPort(%d) failed: %v", p, err)
		}

		row, col := Position(port.Cell)
		wantRow, wantCol := formulaCell(p)
		if row != wantRow || col != wantCol {
			t.Errorf("EntryPort(%d) cell = (%d,%d), want (%d,%d)", p, row, col, wantRow, wantCol)
		}
		if want := formulaEntry(p); port.Side != want {
			t.Errorf("EntryPort(%d) side = %v, want %v", p, port.Side, want)
		}
	}
}

func TestLabelMatchesFormulas(t *testing.T) {
	b := NewBoard()

	for id := range CellID(CellCount) {
		c := b.Cell(id)
		for d := UpperLeft; d <= Left; d++ {
			label, ok := Label(Port{Cell: id, Side: d})
			if _, hasNeighbor := c.Neighbor(d); hasNeighbor {
				if ok {
					t.Errorf("inner side (%d,%d) %v has label %d", c.Row, c.Col, d, label)
				}
				continue
			}

			if !ok {
				t.Errorf("rim side (%d,%d) %v has no label", c.Row, c.Col, d)
				continue
			}
			if want := formulaOutput(b, c.Row, c.Col, d); label != want {
				t.Errorf("Label((%d,%d) %v) = %d, want %d", c.Row, c.Col, d, label, want)
			}
		}
	}
}

func TestPerimeterRoundTrip(t *testing.T) {
	seen := make(map[Port]int)
	for i, port := range Ports() {
		label := i + 1
		if prev, dup := seen[port]; dup {
			t.Fatalf("port %+v used by labels %d and %d", port, prev, label)
		}
		seen[port] = label

		got, ok := Label(port)
		if !ok || got != label {
			t.Errorf("Label(EntryPort(%d)) = %d, %v", label, got, ok)
		}
	}

	if len(seen) != PerimeterSize {
		t.Errorf("got %d distinct ports, want %d", len(seen), PerimeterSize)
	}
}

func TestPerimeterCorners(t *testing.T) {
	tests := []struct {
		label    int
		row, col int
		side     Direction
	}{
		{1, 0, 0, UpperLeft},
		{2, 0, 0, Left},
		{10, 4, 0, Left},
		{11, 4, 0, LowerLeft},
		{19, 8, 0, LowerLeft},
		{20, 8, 0, LowerRight},
		{28, 8, 4, LowerRight},
		{29, 8, 4, Right},
		{36, 4, 8, LowerRight},
		{37, 4, 8, Right},
		{38, 4, 8, UpperRight},
		{45, 0, 4, Right},
		{46, 0, 4, UpperRight},
		{47, 0, 4, UpperLeft},
		{53, 0, 1, UpperLeft},
		{54, 0, 0, UpperRight},
	}

	for _, tc := range tests {
		port, err := EntryPort(tc.label)
		if err != nil {
			t.Fatalf("EntryPort(%d): %v", tc.label, err)
		}
		row, col := Position(port.Cell)
		if row != tc.row || col != tc.col || port.Side != tc.side {
			t.Errorf("EntryPort(%d) = (%d,%d) %v, want (%d,%d) %v",
				tc.label, row, col, port.Side, tc.row, tc.col, tc.side)
		}
	}
}

func TestEntryPortInvalid(t *testing.T) {
	for _, label := range []int{-1, 0, 55, 100} {
		if _, err := EntryPort(label); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("EntryPort(%d) error = %v, want ErrInvalidInput", label, err)
		}
	}
}

func TestLabelInvalidPort(t *testing.T) {
	tests := []Port{
		{Cell: NoCell, Side: Left},
		{Cell: CellCount, Side: Left},
		{Cell: 0, Side: NoExit},
	}
	for _, p := range tests {
		if _, ok := Label(p); ok {
			t.Errorf("Label(%+v) should fail", p)
		}
	}
}
