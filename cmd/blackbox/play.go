package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blackbox/internal/games/blackbox"
	"github.com/vovakirdan/tui-blackbox/internal/platform/tui"
	"github.com/vovakirdan/tui-blackbox/internal/registry"
	"github.com/vovakirdan/tui-blackbox/internal/storage"
)

var flagLayout string

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Play Black Box",
	Long: `Start a Black Box session. The game defaults to "blackbox".

Controls while probing:
  Left/Right     - Previous/next edge point
  Up/Down        - Jump one side of the box
  Space/Enter    - Fire a ray
  Tab            - Switch to guessing

Controls while guessing:
  Arrows         - Move the cell cursor
  Space          - Mark or unmark an atom
  Enter          - Submit when every atom is marked
  Tab            - Back to probing

  P              - Pause
  R/Enter        - Next round (after the reveal)
  Esc/B          - Back (after the reveal or while paused)
  Ctrl+S         - Save a screenshot
  Q/Ctrl+C       - Quit

Difficulty options:
  easy   - 4 atoms
  normal - 6 atoms
  hard   - 8 atoms, one more every few rounds
  fixed  - The config's atom count, no progression

Examples:
  blackbox play
  blackbox play blackbox_practice
  blackbox play --difficulty hard --player ann
  blackbox play --layout layouts/02-mirror.yaml
  blackbox play --config ./my-blackbox.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagLayout, "layout", "", "Puzzle layout YAML with fixed atoms")
}

func runPlay(_ *cobra.Command, args []string) {
	gameID := "blackbox"
	if len(args) > 0 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'blackbox list' to see the game modes.")
		os.Exit(1)
	}

	blackbox.SetLayout(flagLayout)

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database, rounds will not be saved", "error", err)
		// Continue without storage - game still works
	}

	_, runErr := tui.Run(game, store, runtimeConfig(), playerName())

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
