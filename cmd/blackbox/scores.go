package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blackbox/internal/registry"
	"github.com/vovakirdan/tui-blackbox/internal/storage"
)

var (
	flagScoresLimit int
	flagPlayers     bool
	flagStats       bool
	flagClear       bool
	flagHistory     string
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show best rounds and the leaderboard",
	Long: `Display the best rounds for a game mode (default: blackbox).
Scores are penalty points, so the lowest score is the best.

Examples:
  blackbox scores
  blackbox scores --players          # cumulative leaderboard
  blackbox scores --history ann      # ann's latest rounds
  blackbox scores --stats            # statistics for every mode
  blackbox scores blackbox_practice --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of entries to show")
	scoresCmd.Flags().BoolVar(&flagPlayers, "players", false, "Rank players by their total score")
	scoresCmd.Flags().BoolVar(&flagStats, "stats", false, "Show statistics for every game mode")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all scores of the game mode")
	scoresCmd.Flags().StringVar(&flagHistory, "history", "", "Show the latest rounds of a player")
}

func runScores(_ *cobra.Command, args []string) {
	gameID := "blackbox"
	if len(args) > 0 {
		gameID = args[0]
	}

	if !flagStats && !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'blackbox list' to see the game modes.")
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagStats:
		err = printStats(store)
	case flagClear:
		if err = store.ClearScores(gameID); err == nil {
			logger.Info("scores cleared", "game", gameID)
		}
	case flagPlayers:
		err = printLeaderboard(store, gameID)
	case flagHistory != "":
		err = printHistory(store, gameID, flagHistory)
	default:
		err = printTopScores(store, gameID)
	}

	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func gameTitle(gameID string) string {
	if g, err := registry.Create(gameID); err == nil {
		return g.Title()
	}
	return gameID
}

func printTopScores(store *storage.Store, gameID string) error {
	scores, err := store.TopScores(gameID, flagScoresLimit)
	if err != nil {
		return err
	}

	fmt.Printf("Best Rounds - %s\n", gameTitle(gameID))
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No rounds recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'blackbox play %s' to set the first score!\n", gameID)
		return nil
	}

	fmt.Printf("  %-4s  %-16s  %-5s  %-4s  %-5s  %s\n", "Rank", "Player", "Score", "Rays", "Found", "Date")
	fmt.Printf("  %-4s  %-16s  %-5s  %-4s  %-5s  %s\n", "----", "------", "-----", "----", "-----", "----")

	for i, e := range scores {
		fmt.Printf("  %-4d  %-16s  %-5d  %-4d  %-5d  %s\n",
			i+1, e.Player, e.Score, e.Rays, e.Matches, e.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func printLeaderboard(store *storage.Store, gameID string) error {
	board, err := store.Leaderboard(gameID, flagScoresLimit)
	if err != nil {
		return err
	}

	fmt.Printf("Leaderboard - %s\n", gameTitle(gameID))
	fmt.Println()

	if len(board) == 0 {
		fmt.Println("No rounds recorded yet.")
		return nil
	}

	fmt.Printf("  %-4s  %-16s  %-5s  %-6s  %s\n", "Rank", "Player", "Total", "Rounds", "Best")
	fmt.Printf("  %-4s  %-16s  %-5s  %-6s  %s\n", "----", "------", "-----", "------", "----")

	for i, e := range board {
		fmt.Printf("  %-4d  %-16s  %-5d  %-6d  %d\n", i+1, e.Player, e.TotalScore, e.Rounds, e.BestScore)
	}
	return nil
}

func printHistory(store *storage.Store, gameID, player string) error {
	rounds, err := store.History(gameID, player, flagScoresLimit)
	if err != nil {
		return err
	}

	fmt.Printf("Latest Rounds - %s - %s\n", gameTitle(gameID), player)
	fmt.Println()

	if len(rounds) == 0 {
		fmt.Println("No rounds recorded yet.")
		return nil
	}

	for _, e := range rounds {
		fmt.Printf("  %s  score %-3d  rays %-3d  found %d\n",
			e.CreatedAt.Format("2006-01-02 15:04"), e.Score, e.Rays, e.Matches)
	}
	return nil
}

func printStats(store *storage.Store) error {
	stats, err := store.GetAllGamesStats()
	if err != nil {
		return err
	}

	if len(stats) == 0 {
		fmt.Println("No rounds recorded yet.")
		return nil
	}

	for _, g := range registry.List() {
		s, ok := stats[g.ID]
		if !ok {
			continue
		}
		fmt.Printf("%s\n", g.Title)
		fmt.Printf("  Rounds:      %d (%d players)\n", s.RoundsCount, s.Players)
		fmt.Printf("  Best:        %d\n", s.BestScore)
		fmt.Printf("  Average:     %.1f\n", s.AvgScore)
		fmt.Printf("  Atoms found: %.1f per round\n", s.AvgMatches)
		fmt.Printf("  Last played: %s\n", s.LastPlayed.Format("2006-01-02 15:04"))
		fmt.Println()
	}
	return nil
}
