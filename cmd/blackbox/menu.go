package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blackbox/internal/games/blackbox"
	"github.com/vovakirdan/tui-blackbox/internal/platform/tui"
	"github.com/vovakirdan/tui-blackbox/internal/registry"
	"github.com/vovakirdan/tui-blackbox/internal/storage"
)

var flagLayoutsDir string

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start Black Box with a menu",
	Long: `Start Black Box in interactive menu mode.

Pick a game mode, then a difficulty or one of the puzzles in the layouts
directory. After a session you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Tab          - Scores
  Esc          - Back
  Q            - Quit

Examples:
  blackbox menu
  blackbox menu --layouts ./my-puzzles
  blackbox menu --db ./scores.db`,
	Run: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagLayoutsDir, "layouts", "layouts", "Directory of puzzle layouts")
}

func runMenu(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database, rounds will not be saved", "error", err)
	}
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	cfg := runtimeConfig()
	player := playerName()

	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			return
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			return
		}

		selection, quit, err := tui.RunRoundSetup(flagLayoutsDir, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		if quit {
			return
		}
		if selection == nil {
			continue // Back to menu
		}

		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}
		if g, ok := game.(*blackbox.Game); ok {
			g.Configure(selection.Preset, selection.LayoutPath)
		}

		// A fresh board for every session unless --seed pins it
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		backToMenu, err := tui.Run(game, store, cfg, player)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
			continue
		}
		if !backToMenu {
			return
		}
	}
}
