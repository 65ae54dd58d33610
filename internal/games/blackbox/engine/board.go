// Package engine implements the Black Box board topology and the ray
// propagation rules. It has no I/O and no notion of screen coordinates:
// callers fire rays by perimeter label and read back labels, per-cell ray
// segments and markers.
package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"time"
)

// Rows is the number of rows of the hexagonal board.
const Rows = 9

// CellCount is the total number of cells on the board.
const CellCount = 61

// CellID indexes a cell in the board's flat cell arena.
type CellID int

// NoCell marks a missing neighbor at the edge of the board.
const NoCell CellID = -1

// ErrNoSuchCell is returned for row/column pairs outside the hexagon.
var ErrNoSuchCell = errors.New("engine: no such cell")

// rowStart holds the arena index of the first cell of each row.
// rowStart[Rows] equals CellCount.
var rowStart = func() [Rows + 1]int {
	var starts [Rows + 1]int
	for i := range Rows {
		starts[i+1] = starts[i] + RowLen(i)
	}
	return starts
}()

// RowLen returns the number of cells in the given row.
// Rows widen from 5 to 9 cells and narrow back to 5.
// Returns 0 for rows outside the board.
func RowLen(row int) int {
	switch {
	case row < 0 || row >= Rows:
		return 0
	case row <= Rows/2:
		return 5 + row
	default:
		return 13 - row
	}
}

// ID returns the arena index of the cell at (row, col).
func ID(row, col int) (CellID, bool) {
	if col < 0 || col >= RowLen(row) {
		return NoCell, false
	}
	return CellID(rowStart[row] + col), true
}

// Position returns the row and column of a cell.
func Position(id CellID) (row, col int) {
	for r := range Rows {
		if int(id) < rowStart[r+1] {
			return r, int(id) - rowStart[r]
		}
	}
	return -1, -1
}

type cellData struct {
	row, col  int
	atom      bool
	neighbors [directionCount]CellID
	segments  []Segment
}

// Board is one round's hexagonal grid. Cells live in a flat arena and refer
// to their neighbors by index, so the board owns every cell outright.
//
// Atoms are placed before any ray is traced. Ray traces only read the board;
// Record is the single write path for ray segments and markers. All methods
// are safe for concurrent use.
type Board struct {
	mu      sync.RWMutex
	cells   []cellData
	markers []Marker
}

// NewBoard builds the 9-row hexagon with every neighbor link populated.
// Rows 0-4 form the widening upper trapezoid and rows 4-8 the narrowing
// lower one; the link rules differ between the two halves.
func NewBoard() *Board {
	b := &Board{cells: make([]cellData, CellCount)}

	for i := range Rows {
		rowLen := RowLen(i)
		for j := range rowLen {
			id := mustID(i, j)
			c := &b.cells[id]
			c.row = i
			c.col = j
			for d := range c.neighbors {
				c.neighbors[d] = NoCell
			}

			// Upper-left / lower-right
			switch {
			case i > 0 && i <= Rows/2 && j > 0:
				b.link(id, UpperLeft, mustID(i-1, j-1))
			case i > Rows/2:
				b.link(id, UpperLeft, mustID(i-1, j))
			}

			// Upper-right / lower-left
			switch {
			case i > 0 && i <= Rows/2 && j < rowLen-1:
				b.link(id, UpperRight, mustID(i-1, j))
			case i > Rows/2:
				b.link(id, UpperRight, mustID(i-1, j+1))
			}

			// Left / right
			if j > 0 {
				b.link(id, Left, mustID(i, j-1))
			}
		}
	}

	return b
}

// link connects two cells in both directions. Existing links are never
// overwritten, so an edge reached from both of its cells is set once.
func (b *Board) link(from CellID, d Direction, to CellID) {
	if b.cells[from].neighbors[d] == NoCell {
		b.cells[from].neighbors[d] = to
	}
	back := d.Opposite()
	if b.cells[to].neighbors[back] == NoCell {
		b.cells[to].neighbors[back] = from
	}
}

func mustID(row, col int) CellID {
	id, ok := ID(row, col)
	if !ok {
		panic(fmt.Sprintf("engine: cell (%d, %d) outside board", row, col))
	}
	return id
}

// Cell is a read-only snapshot of one board cell.
type Cell struct {
	ID        CellID
	Row       int
	Col       int
	atom      bool
	neighbors [directionCount]CellID
	segments  []Segment
}

// HasAtom reports whether the cell holds an atom.
func (c Cell) HasAtom() bool {
	return c.atom
}

// Neighbor returns the adjacent cell on side d.
// The second result is false at the edge of the board.
func (c Cell) Neighbor(d Direction) (CellID, bool) {
	if !d.Valid() {
		return NoCell, false
	}
	n := c.neighbors[d]
	return n, n != NoCell
}

// RayTraversals returns every ray segment recorded in this cell, in traversal order.
func (c Cell) RayTraversals() []Segment {
	return slices.Clone(c.segments)
}

// Cell returns a snapshot of the cell with the given ID.
func (b *Board) Cell(id CellID) Cell {
	b.mu.RLock()
	defer b.mu.RUnlock()

	c := &b.cells[id]
	return Cell{
		ID:        id,
		Row:       c.row,
		Col:       c.col,
		atom:      c.atom,
		neighbors: c.neighbors,
		segments:  slices.Clone(c.segments),
	}
}

// CellAt returns a snapshot of the cell at (row, col).
func (b *Board) CellAt(row, col int) (Cell, bool) {
	id, ok := ID(row, col)
	if !ok {
		return Cell{}, false
	}
	return b.Cell(id), true
}

// SetAtom places an atom at (row, col). Placing an atom twice is a no-op.
func (b *Board) SetAtom(row, col int) error {
	id, ok := ID(row, col)
	if !ok {
		return fmt.Errorf("%w: (%d, %d)", ErrNoSuchCell, row, col)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.cells[id].atom = true
	return nil
}

// PlaceAtoms places count atoms on distinct, previously empty cells.
// A row is drawn uniformly, then a column uniformly within that row, and
// occupied cells are redrawn. A nil rng uses a time-seeded source.
func (b *Board) PlaceAtoms(count int, rng *rand.Rand) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if free := len(b.cells) - b.atomCountLocked(); count > free {
		count = free
	}

	for placed := 0; placed < count; {
		row := rng.Intn(Rows)
		col := rng.Intn(RowLen(row))
		c := &b.cells[mustID(row, col)]
		if c.atom {
			continue
		}
		c.atom = true
		placed++
	}
}

// AtomCount returns the number of atoms on the board.
func (b *Board) AtomCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.atomCountLocked()
}

func (b *Board) atomCountLocked() int {
	n := 0
	for i := range b.cells {
		if b.cells[i].atom {
			n++
		}
	}
	return n
}

// Atoms returns the IDs of all cells holding an atom, in arena order.
func (b *Board) Atoms() []CellID {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var ids []CellID
	for i := range b.cells {
		if b.cells[i].atom {
			ids = append(ids, CellID(i))
		}
	}
	return ids
}

// hasAtom reports whether id is a real cell holding an atom.
// Callers hold the read lock.
func (b *Board) hasAtom(id CellID) bool {
	return id != NoCell && b.cells[id].atom
}
