package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func save(t *testing.T, store *Store, gameID, player string, score int) {
	t.Helper()
	if _, err := store.SaveScore(ScoreEntry{GameID: gameID, Player: player, Score: score}); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.blackbox/scores.db")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, ".blackbox", "scores.db")); err != nil {
		t.Errorf("database not created under HOME: %v", err)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveScore(ScoreEntry{GameID: "blackbox", Player: "ann", Score: 12, Rays: 7, Matches: 5})
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("SaveScore() id = %d", id)
	}
	save(t, store, "blackbox", "bob", 30)
	save(t, store, "blackbox", "cid", 8)
	save(t, store, "blackbox_practice", "ann", 1)

	scores, err := store.TopScores("blackbox", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Lowest penalty first
	want := []int{8, 12, 30}
	for i, w := range want {
		if scores[i].Score != w {
			t.Errorf("scores[%d] = %d, want %d", i, scores[i].Score, w)
		}
	}

	ann := scores[1]
	if ann.Player != "ann" || ann.Rays != 7 || ann.Matches != 5 || ann.GameID != "blackbox" {
		t.Errorf("entry = %+v", ann)
	}
	if ann.CreatedAt.IsZero() || time.Since(ann.CreatedAt) > 24*time.Hour {
		t.Errorf("CreatedAt = %v", ann.CreatedAt)
	}
}

func TestStoreDefaultPlayer(t *testing.T) {
	store := openTestStore(t)
	save(t, store, "blackbox", "  ", 5)

	scores, err := store.TopScores("blackbox", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 1 || scores[0].Player != DefaultPlayer {
		t.Errorf("scores = %+v", scores)
	}
}

func TestStoreZeroScoreIsKept(t *testing.T) {
	store := openTestStore(t)
	save(t, store, "blackbox", "ann", 0)

	best, ok, err := store.BestScore("blackbox")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || best != 0 {
		t.Errorf("BestScore() = %d, %v; want 0, true", best, ok)
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := range 5 {
		save(t, store, "test", "p", (i+1)*10)
	}

	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 10 || scores[1].Score != 20 || scores[2].Score != 30 {
		t.Errorf("Scores not in expected order: %v", scores)
	}

	// Non-positive limits fall back to 10
	all, err := store.TopScores("test", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Errorf("TopScores(0) returned %d entries", len(all))
	}
}

func TestStoreBestScore(t *testing.T) {
	store := openTestStore(t)

	_, ok, err := store.BestScore("blackbox")
	if err != nil {
		t.Fatalf("BestScore() failed: %v", err)
	}
	if ok {
		t.Error("empty game should have no best score")
	}

	save(t, store, "blackbox", "ann", 14)
	save(t, store, "blackbox", "bob", 9)
	save(t, store, "blackbox", "ann", 22)

	best, ok, err := store.BestScore("blackbox")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || best != 9 {
		t.Errorf("BestScore() = %d, %v; want 9, true", best, ok)
	}
}

func TestStoreLeaderboard(t *testing.T) {
	store := openTestStore(t)

	save(t, store, "blackbox", "ann", 10)
	save(t, store, "blackbox", "ann", 15)
	save(t, store, "blackbox", "bob", 30)
	save(t, store, "blackbox", "cid", 20)
	save(t, store, "blackbox", "cid", 4)
	save(t, store, "blackbox_practice", "bob", 0)

	board, err := store.Leaderboard("blackbox", 10)
	if err != nil {
		t.Fatalf("Leaderboard() failed: %v", err)
	}

	want := []LeaderboardEntry{
		{Player: "cid", TotalScore: 24, Rounds: 2, BestScore: 4},
		{Player: "ann", TotalScore: 25, Rounds: 2, BestScore: 10},
		{Player: "bob", TotalScore: 30, Rounds: 1, BestScore: 30},
	}
	if len(board) != len(want) {
		t.Fatalf("Leaderboard() = %+v", board)
	}
	for i := range want {
		if board[i] != want[i] {
			t.Errorf("board[%d] = %+v, want %+v", i, board[i], want[i])
		}
	}

	top, err := store.Leaderboard("blackbox", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 1 || top[0].Player != "cid" {
		t.Errorf("Leaderboard(1) = %+v", top)
	}
}

func TestStoreHistory(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{5, 6, 7} {
		save(t, store, "blackbox", "ann", score)
	}
	save(t, store, "blackbox", "bob", 1)

	hist, err := store.History("blackbox", "ann", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 2 || hist[0].Score != 7 || hist[1].Score != 6 {
		t.Errorf("History() = %+v", hist)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	save(t, store, "blackbox", "ann", 10)
	save(t, store, "blackbox", "ann", 20)
	save(t, store, "blackbox_practice", "ann", 30)

	if err := store.ClearScores("blackbox"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	scores, _ := store.TopScores("blackbox", 10)
	if len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}

	practice, _ := store.TopScores("blackbox_practice", 10)
	if len(practice) != 1 {
		t.Error("practice scores should not be affected")
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GetGameStats("blackbox")
	if err != nil {
		t.Fatal(err)
	}
	if empty.RoundsCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", empty)
	}

	for _, e := range []ScoreEntry{
		{GameID: "blackbox", Player: "ann", Score: 10, Matches: 4},
		{GameID: "blackbox", Player: "bob", Score: 20, Matches: 2},
		{GameID: "blackbox", Player: "ann", Score: 30, Matches: 3},
		{GameID: "blackbox_practice", Player: "ann", Score: 2},
	} {
		if _, err := store.SaveScore(e); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := store.GetGameStats("blackbox")
	if err != nil {
		t.Fatal(err)
	}
	if stats.RoundsCount != 3 || stats.Players != 2 || stats.BestScore != 10 || stats.TotalScore != 60 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.AvgScore != 20 || stats.AvgMatches != 3 {
		t.Errorf("averages = %v, %v", stats.AvgScore, stats.AvgMatches)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed not set")
	}

	all, err := store.GetAllGamesStats()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("GetAllGamesStats() has %d games", len(all))
	}
	if p := all["blackbox_practice"]; p == nil || p.RoundsCount != 1 || p.BestScore != 2 {
		t.Errorf("practice stats = %+v", p)
	}
}
