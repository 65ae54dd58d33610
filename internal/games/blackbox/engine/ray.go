package engine

import (
	"errors"
	"fmt"
)

// Absorbed is the output label reported for a ray that never leaves the board.
const Absorbed = -1

// ErrInvalidInput is returned for labels outside 1..PerimeterSize or a nil board.
var ErrInvalidInput = errors.New("engine: invalid input point")

// Outcome classifies how a ray ended.
type Outcome int

const (
	OutcomeExited    Outcome = iota // left the board at another label
	OutcomeReflected                // came back out at its input label
	OutcomeAbsorbed                 // stopped on an atom
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeExited:
		return "exited"
	case OutcomeReflected:
		return "reflected"
	case OutcomeAbsorbed:
		return "absorbed"
	default:
		return "unknown"
	}
}

// Step is one cell on a ray's path together with how the ray crossed it.
type Step struct {
	Cell CellID
	Segment
}

// Result describes a traced ray.
type Result struct {
	Input   int
	Output  int // Absorbed for absorbed rays
	Outcome Outcome
	Path    []Step
}

// Marker returns the input/output pair of the result.
func (r Result) Marker() Marker {
	return Marker{Input: r.Input, Output: r.Output}
}

// Trace fires a ray into the board at the given perimeter label and follows
// it to its end. The board is only read: the path is returned in the result
// and nothing is recorded, so any number of traces may run at once.
func Trace(b *Board, input int) (Result, error) {
	if b == nil {
		return Result{}, fmt.Errorf("%w: nil board", ErrInvalidInput)
	}
	start, err := EntryPort(input)
	if err != nil {
		return Result{}, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	res := Result{Input: input}

	// An atom on the entry cell, or beside the entry side, turns the ray
	// back before it crosses any cell.
	if b.reflectsOnEntry(start) {
		res.Output = input
		res.Outcome = OutcomeReflected
		return res, nil
	}

	id, entry := start.Cell, start.Side
	for {
		exit := b.exitSide(id, entry)
		res.Path = append(res.Path, Step{Cell: id, Segment: Segment{Entry: entry, Exit: exit}})

		if exit == NoExit {
			res.Output = Absorbed
			res.Outcome = OutcomeAbsorbed
			return res, nil
		}

		next := b.cells[id].neighbors[exit]
		if next == NoCell {
			label, _ := Label(Port{Cell: id, Side: exit})
			res.Output = label
			res.Outcome = OutcomeExited
			if label == input {
				res.Outcome = OutcomeReflected
			}
			return res, nil
		}

		id, entry = next, exit.Opposite()
	}
}

// reflectsOnEntry checks the entry cell and its two neighbors flanking the
// entry side.
func (b *Board) reflectsOnEntry(p Port) bool {
	c := &b.cells[p.Cell]
	return c.atom ||
		b.hasAtom(c.neighbors[p.Side.Turn(-1)]) ||
		b.hasAtom(c.neighbors[p.Side.Turn(1)])
}

// exitSide applies the deflection rules to a ray entering cell id through
// side entry. Only the three neighbors facing away from the entry side can
// hold atoms here; the others would have stopped the ray earlier.
func (b *Board) exitSide(id CellID, entry Direction) Direction {
	c := &b.cells[id]
	if c.atom {
		return NoExit
	}

	right := b.hasAtom(c.neighbors[entry.Turn(2)])
	ahead := b.hasAtom(c.neighbors[entry.Turn(3)])
	left := b.hasAtom(c.neighbors[entry.Turn(4)])

	switch {
	case !right && !left:
		// Straight on. An atom ahead absorbs the ray in the next cell.
		return entry.Opposite()
	case right && left:
		return entry
	case left:
		if ahead {
			return entry.Turn(1) // 120 degrees
		}
		return entry.Turn(2) // 60 degrees
	default:
		if ahead {
			return entry.Turn(5)
		}
		return entry.Turn(4)
	}
}

// RecordPath appends the result's path to the segment logs of the cells it crossed.
func (b *Board) RecordPath(r Result) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.recordPathLocked(r)
}

func (b *Board) recordPathLocked(r Result) {
	for _, s := range r.Path {
		c := &b.cells[s.Cell]
		c.segments = append(c.segments, s.Segment)
	}
}

// Record stores the result's path and its marker in one step.
func (b *Board) Record(r Result) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.recordPathLocked(r)
	b.addMarkerLocked(r.Marker())
}

// Process fires a ray, records its path on the board and returns the output
// label, or Absorbed. Markers are left to the caller (see AddMarker).
func Process(b *Board, input int) (int, error) {
	res, err := Trace(b, input)
	if err != nil {
		return 0, err
	}
	b.RecordPath(res)
	return res.Output, nil
}
