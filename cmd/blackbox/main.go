// blackbox is the Black Box deduction game for the terminal: fire rays into a
// hexagonal box and work out where the hidden atoms are.
//
// Usage:
//
//	blackbox list              - List game modes
//	blackbox play [game]       - Play a round (default: blackbox)
//	blackbox menu              - Pick a mode and difficulty interactively
//	blackbox serve             - Start SSH server for remote play
//	blackbox scores [game]     - Show best rounds and the leaderboard
//	blackbox trace [labels]    - Fire rays at a fixed board and print the results
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 30)
//	--seed <value>        - Set RNG seed for reproducible boards
//	--db <path>           - Set database path (default: ~/.blackbox/scores.db)
//	--config <path>       - Use a custom blackbox.yaml
//	--difficulty <preset> - easy, normal, hard or fixed
//	--player <name>       - Name saved with finished rounds
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"os/user"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-blackbox/internal/config"
	"github.com/vovakirdan/tui-blackbox/internal/core"
	"github.com/vovakirdan/tui-blackbox/internal/games/blackbox"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagPlayer     string
	flagLogLevel   string

	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blackbox",
	Short: "Black Box - find the hidden atoms with rays",
	Long: `Black Box is a deduction game played on a hexagonal board of 61 cells.
Atoms are hidden in the box. Fire rays in from the 54 numbered points on
the edge and watch where they come out: rays are absorbed, reflected or
deflected by the atoms they pass. Mark where you think the atoms are.

Every ray marker costs one point and every missed atom five. Lower is better.

Available commands:
  list     - Show the game modes
  play     - Play a game directly
  menu     - Interactive menu with difficulty and puzzle choice
  serve    - Start SSH server for remote play
  scores   - View best rounds and the leaderboard
  trace    - Fire rays at a fixed board without the UI

Examples:
  blackbox play
  blackbox play blackbox_practice --difficulty easy
  blackbox menu
  blackbox serve --ssh :2222
  blackbox trace --atoms 2,0 --atoms 4,4 15 14`,
	PersistentPreRunE: setup,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.blackbox/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom blackbox.yaml")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Player name for saved rounds (default: OS user)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(traceCmd)
}

// setup validates the global flags, builds the logger and hands the game
// settings to the blackbox package.
func setup(_ *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "blackbox",
	})

	if _, err := config.ParsePreset(flagDifficulty); err != nil {
		return err
	}
	if flagFPS <= 0 {
		return fmt.Errorf("invalid --fps %d: must be positive", flagFPS)
	}

	blackbox.SetConfigPath(flagConfig)
	blackbox.SetDifficultyPreset(flagDifficulty)
	return nil
}

// runtimeConfig builds the runtime config from the terminal size and the
// global flags.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// playerName returns --player, falling back to the OS user.
func playerName() string {
	if flagPlayer != "" {
		return flagPlayer
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}
