package storage

import (
	"os"
	"path/filepath"
	"testing"
)

var classic = Board{Width: 10, Height: 20}

func openTemp(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTemp(t)

	for _, score := range []int{100, 50, 200} {
		if _, err := store.SaveScore(ScoreEntry{Board: classic, Score: score, Lines: score / 100, Level: 1}); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	// Different board
	if _, err := store.SaveScore(ScoreEntry{Board: Board{Width: 12, Height: 24}, Score: 500}); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores(classic, 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	if scores[0].Score != 200 {
		t.Errorf("Expected highest score to be 200, got %d", scores[0].Score)
	}
	if scores[1].Score != 100 {
		t.Errorf("Expected second score to be 100, got %d", scores[1].Score)
	}
	if scores[2].Score != 50 {
		t.Errorf("Expected third score to be 50, got %d", scores[2].Score)
	}
	if scores[0].Lines != 2 || scores[0].Board != classic {
		t.Errorf("Entry fields not round-tripped: %+v", scores[0])
	}
	if scores[0].SessionID == "" {
		t.Error("Expected a generated session id")
	}

	wide, err := store.TopScores(Board{Width: 12, Height: 24}, 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(wide) != 1 {
		t.Errorf("Expected 1 score on the wide board, got %d", len(wide))
	}
}

func TestStoreKeepsSessionID(t *testing.T) {
	store := openTemp(t)
	session := NewSessionID()

	if _, err := store.SaveScore(ScoreEntry{SessionID: session, Board: classic, Score: 10}); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
	scores, _ := store.TopScores(classic, 1)
	if len(scores) != 1 || scores[0].SessionID != session {
		t.Errorf("Expected session %s, got %+v", session, scores)
	}

	if _, err := store.SaveScore(ScoreEntry{SessionID: "not-a-uuid", Board: classic}); err == nil {
		t.Error("Expected error for a malformed session id")
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTemp(t)

	// Save 5 scores
	for i := 0; i < 5; i++ {
		store.SaveScore(ScoreEntry{Board: classic, Score: (i + 1) * 100})
	}

	// Request only top 3
	scores, err := store.TopScores(classic, 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}

	// Should be 500, 400, 300 (top 3)
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTemp(t)

	// No scores yet
	high, err := store.HighScore(classic)
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty board, got %d", high)
	}

	for _, score := range []int{100, 300, 200} {
		store.SaveScore(ScoreEntry{Board: classic, Score: score})
	}

	high, err = store.HighScore(classic)
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTemp(t)
	small := Board{Width: 6, Height: 12}

	store.SaveScore(ScoreEntry{Board: classic, Score: 100})
	store.SaveScore(ScoreEntry{Board: classic, Score: 200})
	store.SaveScore(ScoreEntry{Board: small, Score: 300})

	if err := store.ClearScores(classic); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	scores, _ := store.TopScores(classic, 10)
	if len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}

	// Other boards are untouched
	smallScores, _ := store.TopScores(small, 10)
	if len(smallScores) != 1 {
		t.Errorf("Scores of %s should not be affected by clearing %s", small, classic)
	}
}

func TestStoreStatsAndBoards(t *testing.T) {
	store := openTemp(t)

	stats, err := store.Stats(classic)
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.GamesCount != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("Expected empty stats, got %+v", stats)
	}

	store.SaveScore(ScoreEntry{Board: classic, Score: 100, Lines: 1})
	store.SaveScore(ScoreEntry{Board: classic, Score: 300, Lines: 3})
	store.SaveScore(ScoreEntry{Board: Board{Width: 8, Height: 16}, Score: 50})

	stats, err = store.Stats(classic)
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 300 || stats.AvgScore != 200 || stats.TotalLines != 4 {
		t.Errorf("Unexpected stats: %+v", stats)
	}

	boards, err := store.Boards()
	if err != nil {
		t.Fatalf("Boards() failed: %v", err)
	}
	if len(boards) != 2 || boards[0] != (Board{Width: 8, Height: 16}) || boards[1] != classic {
		t.Errorf("Boards() = %v", boards)
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestBoardString(t *testing.T) {
	if got := classic.String(); got != "10x20" {
		t.Errorf("String() = %q, expected 10x20", got)
	}
}
