package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-blackbox/internal/games/blackbox/engine"
	"github.com/vovakirdan/tui-blackbox/internal/games/blackbox/layouts"
)

var (
	flagTraceAtoms  []string
	flagTraceLayout string
	flagTracePath   bool
	flagTraceVerify bool
	flagTraceSave   string
)

var traceCmd = &cobra.Command{
	Use:   "trace [label...]",
	Short: "Fire rays at a fixed board and print where they come out",
	Long: `Place atoms, fire rays and print the results without the game UI.

Atoms are given as row,col pairs (rows 0-8 from the top, columns from the
left of each row) or loaded from a layout file. Labels are the edge points
1-54, counted counter-clockwise from the upper-left side of the top-left
cell. Without labels every edge point is fired.

Output is the exit label, "absorbed" or "reflected".

Examples:
  blackbox trace --atoms 2,0 --atoms 4,4 15 14
  blackbox trace --layout layouts/02-mirror.yaml --path 10
  blackbox trace --layout layouts/03-zigzag.yaml --verify
  blackbox trace --atoms 4,4 --save center.yaml 1 2 3`,
	Run: runTrace,
}

func init() {
	traceCmd.Flags().StringArrayVar(&flagTraceAtoms, "atoms", nil, "Atom at row,col (repeatable)")
	traceCmd.Flags().StringVar(&flagTraceLayout, "layout", "", "Layout YAML with the atoms")
	traceCmd.Flags().BoolVar(&flagTracePath, "path", false, "Print the cells each ray crosses")
	traceCmd.Flags().BoolVar(&flagTraceVerify, "verify", false, "Check the layout's probes instead of firing labels")
	traceCmd.Flags().StringVar(&flagTraceSave, "save", "", "Write the atoms and results as a layout file")
}

func runTrace(_ *cobra.Command, args []string) {
	if err := trace(os.Stdout, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var errMismatch = errors.New("layout probes do not match")

func trace(w io.Writer, args []string) error {
	var layout *layouts.Layout
	if flagTraceLayout != "" {
		l, err := layouts.LoadFile(flagTraceLayout)
		if err != nil {
			return err
		}
		layout = &l
	}

	if flagTraceVerify {
		if layout == nil {
			return errors.New("--verify needs --layout")
		}
		return verifyLayout(w, *layout)
	}

	board, err := buildBoard(layout, flagTraceAtoms)
	if err != nil {
		return err
	}

	labels, err := parseLabels(args)
	if err != nil {
		return err
	}

	results, err := fireRays(board, labels)
	if err != nil {
		return err
	}
	for _, r := range results {
		fmt.Fprintln(w, formatResult(r))
		if flagTracePath {
			for _, step := range r.Path {
				fmt.Fprintln(w, "    "+formatStep(step))
			}
		}
	}

	if flagTraceSave != "" {
		return saveLayout(flagTraceSave, board)
	}
	return nil
}

// buildBoard places the layout's atoms, if any, and the extra atoms.
func buildBoard(layout *layouts.Layout, atoms []string) (*engine.Board, error) {
	board := engine.NewBoard()
	if layout != nil {
		if err := layout.Apply(board); err != nil {
			return nil, err
		}
	}
	for _, a := range atoms {
		row, col, err := parseAtom(a)
		if err != nil {
			return nil, err
		}
		if err := board.SetAtom(row, col); err != nil {
			return nil, fmt.Errorf("atom %q: %w", a, err)
		}
	}
	return board, nil
}

// parseAtom parses a "row,col" pair.
func parseAtom(s string) (row, col int, err error) {
	r, c, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("atom %q: want row,col", s)
	}
	if row, err = strconv.Atoi(strings.TrimSpace(r)); err != nil {
		return 0, 0, fmt.Errorf("atom %q: bad row: %w", s, err)
	}
	if col, err = strconv.Atoi(strings.TrimSpace(c)); err != nil {
		return 0, 0, fmt.Errorf("atom %q: bad column: %w", s, err)
	}
	return row, col, nil
}

// parseLabels parses the label arguments. No arguments means every label.
func parseLabels(args []string) ([]int, error) {
	if len(args) == 0 {
		labels := make([]int, engine.PerimeterSize)
		for i := range labels {
			labels[i] = i + 1
		}
		return labels, nil
	}

	labels := make([]int, 0, len(args))
	for _, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("label %q is not a number", arg)
		}
		labels = append(labels, n)
	}
	return labels, nil
}

// fireRays traces each label and records it on the board. A label already
// used as an input or output is traced again but not recorded twice.
func fireRays(board *engine.Board, labels []int) ([]engine.Result, error) {
	results := make([]engine.Result, 0, len(labels))
	for _, label := range labels {
		r, err := engine.Trace(board, label)
		if err != nil {
			return nil, fmt.Errorf("label %d: %w", label, err)
		}
		if !board.Tested(label) {
			board.Record(r)
		}
		results = append(results, r)
	}
	return results, nil
}

func formatResult(r engine.Result) string {
	switch r.Outcome {
	case engine.OutcomeAbsorbed:
		return fmt.Sprintf("%2d -> absorbed", r.Input)
	case engine.OutcomeReflected:
		return fmt.Sprintf("%2d -> reflected", r.Input)
	default:
		return fmt.Sprintf("%2d -> %d", r.Input, r.Output)
	}
}

func formatStep(s engine.Step) string {
	row, col := engine.Position(s.Cell)
	return fmt.Sprintf("(%d,%d) in %s, out %s", row, col, s.Entry, s.Exit)
}

func verifyLayout(w io.Writer, l layouts.Layout) error {
	mismatches, err := l.Verify()
	if err != nil {
		return err
	}
	for _, m := range mismatches {
		fmt.Fprintln(w, m)
	}
	if len(mismatches) > 0 {
		return fmt.Errorf("%s: %d of %d %w", l.ID, len(mismatches), len(l.Probes), errMismatch)
	}
	fmt.Fprintf(w, "%s: %d probes ok\n", l.ID, len(l.Probes))
	return nil
}

// saveLayout writes the board's atoms and recorded rays as a layout file
// named after path.
func saveLayout(path string, board *engine.Board) error {
	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	data, err := yaml.Marshal(layouts.FromBoard(id, id, board))
	if err != nil {
		return fmt.Errorf("encoding layout: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing layout: %w", err)
	}
	logger.Info("layout saved", "path", path, "atoms", board.AtomCount(), "probes", len(board.Markers()))
	return nil
}
