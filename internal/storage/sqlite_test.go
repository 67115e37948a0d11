package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-bounce/internal/core"
	"github.com/vovakirdan/tui-bounce/internal/level"
	"github.com/vovakirdan/tui-bounce/internal/session"
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

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
	if err := store.RecordWin(1, 10, 1, 0); err != nil {
		t.Fatalf("RecordWin() failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	// Reopening runs the migrations again as a no-op and keeps the data.
	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	p, err := store.Progress(1)
	if err != nil {
		t.Fatalf("Progress() failed: %v", err)
	}
	if p.BestScore != 10 {
		t.Errorf("BestScore after reopen = %d, expected 10", p.BestScore)
	}
}

func TestRecordWinKeepsBest(t *testing.T) {
	store := openTestStore(t)

	runs := []struct {
		score, stars int
		wantScore    int
		wantStars    int
	}{
		{50, 0, 50, 0},
		{4094, 3, 4094, 3},
		{3000, 1, 4094, 3},
		{200, 3, 4094, 3},
	}

	for i, run := range runs {
		if err := store.RecordWin(1, run.score, run.stars, 0); err != nil {
			t.Fatalf("RecordWin() failed: %v", err)
		}
		p, err := store.Progress(1)
		if err != nil {
			t.Fatalf("Progress() failed: %v", err)
		}
		if p.BestScore != run.wantScore || p.BestStars != run.wantStars {
			t.Errorf("run %d: best = %d/%d, expected %d/%d", i, p.BestScore, p.BestStars, run.wantScore, run.wantStars)
		}
		if !p.Completed || !p.Unlocked {
			t.Errorf("run %d: level should be completed and unlocked: %+v", i, p)
		}
	}

	history, err := store.TopScores(1, 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(history) != len(runs) {
		t.Errorf("history has %d entries, expected %d", len(history), len(runs))
	}
}

func TestProgressUnknownLevel(t *testing.T) {
	store := openTestStore(t)

	p, err := store.Progress(42)
	if err != nil {
		t.Fatalf("Progress() failed: %v", err)
	}
	if p.LevelID != 42 || p.Unlocked || p.BestScore != 0 {
		t.Errorf("Progress(42) = %+v, expected zero progress", p)
	}
}

func TestTopScoresOrderAndLimit(t *testing.T) {
	store := openTestStore(t)

	for i := range 5 {
		if err := store.RecordWin(2, (i+1)*100, i%4, 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.RecordWin(3, 999, 3, 0); err != nil {
		t.Fatal(err)
	}

	scores, err := store.TopScores(2, 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
	if scores[0].LevelID != 2 {
		t.Errorf("LevelID = %d, expected 2", scores[0].LevelID)
	}
	if scores[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestReset(t *testing.T) {
	store := openTestStore(t)

	if err := store.RecordWin(1, 100, 1, 2); err != nil {
		t.Fatal(err)
	}
	if err := store.Reset(); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}

	all, err := store.AllProgress()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Errorf("AllProgress() after reset = %v, expected empty", all)
	}
	scores, _ := store.TopScores(1, 10)
	if len(scores) != 0 {
		t.Errorf("TopScores() after reset = %v, expected empty", scores)
	}
}

func builtinRecorder(t *testing.T) (*Recorder, *Store, *level.Catalog) {
	t.Helper()
	cat, err := level.Builtin()
	if err != nil {
		t.Fatalf("Builtin() failed: %v", err)
	}
	store := openTestStore(t)
	return NewRecorder(store, cat), store, cat
}

func TestRecorderUnlocksNextLevel(t *testing.T) {
	rec, store, _ := builtinRecorder(t)

	if ok, _ := rec.Unlocked(1); !ok {
		t.Error("first level should always be unlocked")
	}
	if ok, _ := rec.Unlocked(2); ok {
		t.Error("level 2 should start locked")
	}
	if err := rec.CheckPlayable(2); !errors.Is(err, ErrLevelLocked) {
		t.Errorf("CheckPlayable(2) = %v, expected ErrLevelLocked", err)
	}
	if err := rec.CheckPlayable(77); !errors.Is(err, level.ErrNotFound) {
		t.Errorf("CheckPlayable(77) = %v, expected ErrNotFound", err)
	}

	if err := rec.LevelWon(1, 1234, 2); err != nil {
		t.Fatalf("LevelWon() failed: %v", err)
	}
	if err := rec.CheckPlayable(2); err != nil {
		t.Errorf("CheckPlayable(2) after win = %v, expected nil", err)
	}
	if ok, _ := rec.Unlocked(3); ok {
		t.Error("level 3 should still be locked")
	}

	// Winning the last level has nothing to unlock.
	if err := rec.LevelWon(6, 500, 1); err != nil {
		t.Fatalf("LevelWon(6) failed: %v", err)
	}
	all, err := store.AllProgress()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("AllProgress() has %d rows, expected levels 1, 2 and 6", len(all))
	}
}

func TestRecorderStatuses(t *testing.T) {
	rec, _, cat := builtinRecorder(t)

	if err := rec.LevelWon(1, 900, 3); err != nil {
		t.Fatal(err)
	}

	statuses, err := rec.Statuses()
	if err != nil {
		t.Fatalf("Statuses() failed: %v", err)
	}
	if len(statuses) != cat.Len() {
		t.Fatalf("len(Statuses()) = %d, expected %d", len(statuses), cat.Len())
	}

	wantUnlocked := []bool{true, true, false, false, false, false}
	for i, st := range statuses {
		if st.Level.ID != i+1 {
			t.Errorf("statuses[%d].Level.ID = %d", i, st.Level.ID)
		}
		if st.Unlocked != wantUnlocked[i] {
			t.Errorf("level %d unlocked = %v, expected %v", st.Level.ID, st.Unlocked, wantUnlocked[i])
		}
	}
	if statuses[0].Progress.BestScore != 900 || statuses[0].Progress.BestStars != 3 {
		t.Errorf("level 1 progress = %+v", statuses[0].Progress)
	}
}

func TestBetterRunReplacesStoredBest(t *testing.T) {
	rec, store, cat := builtinRecorder(t)

	// A poor earlier result is on record.
	if err := store.RecordWin(1, 50, 0, 0); err != nil {
		t.Fatal(err)
	}

	lvl, err := cat.Get(1)
	if err != nil {
		t.Fatal(err)
	}
	s, _ := session.Simulate(lvl, core.V(167, 258), session.DefaultSimulationFrames, session.PersistWins(rec, nil))
	if s.Phase != session.PhaseWon {
		t.Fatalf("Phase = %s, expected won", s.Phase)
	}

	p, err := store.Progress(1)
	if err != nil {
		t.Fatal(err)
	}
	if p.BestScore != s.Score.Total || p.BestStars != 3 {
		t.Errorf("best = %d/%d, expected %d/3", p.BestScore, p.BestStars, s.Score.Total)
	}
	if p.BestScore < 4090 {
		t.Errorf("BestScore = %d, expected about 4094", p.BestScore)
	}

	top, err := store.TopScores(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 1 || top[0].Score != s.Score.Total {
		t.Errorf("top score = %v, expected the new run first", top)
	}
	if ok, _ := rec.Unlocked(2); !ok {
		t.Error("winning level 1 should unlock level 2")
	}
}
