package session

import "github.com/vovakirdan/tui-bounce/internal/scoring"

// EventKind identifies what happened in a session.
type EventKind int

const (
	EventLaunched EventKind = iota
	EventWallBounce
	EventObstacleBounce
	EventStarCollected
	EventWon
	EventLost
	EventPaused
	EventResumed
	EventRestarted
)

// String returns the event name.
func (k EventKind) String() string {
	switch k {
	case EventLaunched:
		return "launched"
	case EventWallBounce:
		return "wall_bounce"
	case EventObstacleBounce:
		return "obstacle_bounce"
	case EventStarCollected:
		return "star_collected"
	case EventWon:
		return "won"
	case EventLost:
		return "lost"
	case EventPaused:
		return "paused"
	case EventResumed:
		return "resumed"
	case EventRestarted:
		return "restarted"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event is something that happened during a session.
type Event struct {
	Kind    EventKind         `json:"kind"`
	LevelID int               `json:"levelId"`
	Tick    int               `json:"tick"`
	Star    *int              `json:"star,omitempty"`   // EventStarCollected, nil otherwise
	Stars   int               `json:"stars,omitempty"`  // EventWon
	Score   scoring.Breakdown `json:"score,omitzero"`   // EventWon
	Reason  LossReason        `json:"reason,omitempty"` // EventLost
}

func (s Session) event(kind EventKind) Event {
	ev := Event{Kind: kind, LevelID: s.LevelID, Tick: s.Ticks}
	switch kind {
	case EventWon:
		ev.Stars = s.StarsCollected()
		ev.Score = s.Score
	case EventLost:
		ev.Reason = s.Reason
	}
	return ev
}
