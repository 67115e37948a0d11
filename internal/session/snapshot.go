package session

import "math"

// Snapshot is a flat copy of a session for determinism checks and replays.
// Uses primitive types only for stable serialization.
type Snapshot struct {
	LevelID   int
	Tick      int
	Phase     int
	Reason    int
	Bounces   int
	BallX     float64
	BallY     float64
	BallVX    float64
	BallVY    float64
	Elapsed   float64
	Collected uint64 // bit i set when star i is collected
	Score     int
}

// Snapshot returns the current session as a Snapshot.
func (s Session) Snapshot() Snapshot {
	var collected uint64
	for i, c := range s.Collected {
		if c {
			collected |= 1 << uint(i)
		}
	}
	return Snapshot{
		LevelID:   s.LevelID,
		Tick:      s.Ticks,
		Phase:     int(s.Phase),
		Reason:    int(s.Reason),
		Bounces:   s.Bounces,
		BallX:     s.Ball.Pos.X,
		BallY:     s.Ball.Pos.Y,
		BallVX:    s.Ball.Vel.X,
		BallVY:    s.Ball.Vel.Y,
		Elapsed:   s.Elapsed,
		Collected: collected,
		Score:     s.Score.Total,
	}
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := uint64(snap.LevelID)       //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Tick)    //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Phase)   //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Reason)  //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Bounces) //#nosec G115 -- hash computation
	for _, f := range []float64{snap.BallX, snap.BallY, snap.BallVX, snap.BallVY, snap.Elapsed} {
		h = h*31 + math.Float64bits(f)
	}
	h = h*31 + snap.Collected
	h = h*31 + uint64(snap.Score) //#nosec G115 -- hash computation
	return h
}
