package config

import (
	"fmt"

	"github.com/vovakirdan/tui-bounce/internal/physics"
)

// DifficultyPreset represents a named difficulty level. Difficulty only
// changes how much of the trajectory the aim preview reveals; the physics
// is the same for everyone.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParseDifficulty validates a preset name. Empty means normal.
func ParseDifficulty(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", s)
	}
}

// PreviewTicksForPreset returns how many ticks the aim preview simulates.
func PreviewTicksForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyEasy:
		return physics.PreviewTicks * 2
	case DifficultyHard:
		return physics.PreviewTicks / 3
	default:
		return physics.PreviewTicks
	}
}
