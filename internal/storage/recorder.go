package storage

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-bounce/internal/level"
)

// ErrLevelLocked is returned when playing a level that is not unlocked yet.
var ErrLevelLocked = errors.New("level is locked")

// Recorder ties the store to a level catalog. It records wins, unlocking
// the level that follows, and answers whether a level may be played. The
// first level of the catalog is always unlocked.
type Recorder struct {
	store   *Store
	catalog *level.Catalog
}

// NewRecorder creates a recorder for catalog backed by store.
func NewRecorder(store *Store, catalog *level.Catalog) *Recorder {
	return &Recorder{store: store, catalog: catalog}
}

// LevelWon records a win and unlocks the next level in catalog order.
func (r *Recorder) LevelWon(levelID, score, stars int) error {
	unlock := 0
	if next, ok := r.catalog.Next(levelID); ok {
		unlock = next.ID
	}
	return r.store.RecordWin(levelID, score, stars, unlock)
}

// Unlocked reports whether levelID can be played.
func (r *Recorder) Unlocked(levelID int) (bool, error) {
	if first := r.catalog.First(); first != nil && first.ID == levelID {
		return true, nil
	}
	p, err := r.store.Progress(levelID)
	if err != nil {
		return false, err
	}
	return p.Unlocked, nil
}

// CheckPlayable returns ErrLevelLocked if levelID is locked and
// level.ErrNotFound if the catalog does not have it.
func (r *Recorder) CheckPlayable(levelID int) error {
	if _, err := r.catalog.Get(levelID); err != nil {
		return err
	}
	ok, err := r.Unlocked(levelID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("level %d: %w", levelID, ErrLevelLocked)
	}
	return nil
}

// LevelStatus is one row of the level list.
type LevelStatus struct {
	Level    *level.Level
	Progress Progress
	Unlocked bool
}

// Statuses returns every catalog level with its progress and lock state,
// in play order.
func (r *Recorder) Statuses() ([]LevelStatus, error) {
	all, err := r.store.AllProgress()
	if err != nil {
		return nil, err
	}
	byID := make(map[int]Progress, len(all))
	for _, p := range all {
		byID[p.LevelID] = p
	}

	levels := r.catalog.All()
	out := make([]LevelStatus, len(levels))
	for i := range levels {
		p, ok := byID[levels[i].ID]
		if !ok {
			p = Progress{LevelID: levels[i].ID}
		}
		out[i] = LevelStatus{
			Level:    &levels[i],
			Progress: p,
			Unlocked: i == 0 || p.Unlocked,
		}
	}
	return out, nil
}
