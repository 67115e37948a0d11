// Package level defines level configurations and loads them from YAML or
// TOML files, either embedded in the binary or from a directory on disk.
package level

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/vovakirdan/tui-bounce/internal/core"
	"github.com/vovakirdan/tui-bounce/internal/physics"
)

// StarCount is the number of stars every level carries.
const StarCount = 3

// ErrNotFound is returned when a level ID is not known.
var ErrNotFound = errors.New("level not found")

// Level is an immutable level configuration. One value is shared read-only
// by every session played on it.
type Level struct {
	ID         int                `json:"id" yaml:"id" toml:"id"`
	Name       string             `json:"name" yaml:"name" toml:"name"`
	BallStart  core.Vec2          `json:"ballStart" yaml:"ballStart" toml:"ballStart"`
	Obstacles  []physics.Obstacle `json:"obstacles" yaml:"obstacles" toml:"obstacles"`
	Stars      []core.Vec2        `json:"stars" yaml:"stars" toml:"stars"`
	Goal       physics.Box        `json:"goal" yaml:"goal" toml:"goal"`
	MaxBounces int                `json:"maxBounces" yaml:"maxBounces" toml:"maxBounces"`

	// FilePath is where the level was read from; empty for built-in levels.
	FilePath string `json:"-" yaml:"-" toml:"-"`
}

// ValidationError describes why a level was rejected.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Validate checks that a level can be played. Sessions must only be started
// on levels that pass.
func (l *Level) Validate() error {
	if l.ID <= 0 {
		return ValidationError{Code: "INVALID_ID", Message: fmt.Sprintf("id must be positive, got %d", l.ID)}
	}
	if !physics.Canvas.Contains(l.BallStart) {
		return ValidationError{Code: "BALL_OUTSIDE", Message: fmt.Sprintf("ball start %v is outside the canvas", l.BallStart)}
	}
	if len(l.Stars) != StarCount {
		return ValidationError{Code: "STAR_COUNT", Message: fmt.Sprintf("expected %d stars, got %d", StarCount, len(l.Stars))}
	}
	for i, s := range l.Stars {
		if !physics.Canvas.Contains(s) {
			return ValidationError{Code: "STAR_OUTSIDE", Message: fmt.Sprintf("star %d at %v is outside the canvas", i, s)}
		}
	}
	if !finite(l.Goal.X, l.Goal.Y, l.Goal.Width, l.Goal.Height) {
		return ValidationError{Code: "INVALID_GOAL", Message: fmt.Sprintf("goal %+v has a non-finite value", l.Goal)}
	}
	if l.Goal.Width <= 0 || l.Goal.Height <= 0 {
		return ValidationError{Code: "INVALID_GOAL", Message: fmt.Sprintf("goal size %vx%v must be positive", l.Goal.Width, l.Goal.Height)}
	}
	if l.MaxBounces < 0 {
		return ValidationError{Code: "INVALID_MAX_BOUNCES", Message: fmt.Sprintf("maxBounces must not be negative, got %d", l.MaxBounces)}
	}
	for i, o := range l.Obstacles {
		if err := validateObstacle(o); err != nil {
			return ValidationError{Code: "INVALID_OBSTACLE", Message: fmt.Sprintf("obstacle %d: %s", i, err)}
		}
	}
	return nil
}

func validateObstacle(o physics.Obstacle) error {
	if !finite(o.X, o.Y, o.Width, o.Height, o.Radius) {
		return fmt.Errorf("%s has a non-finite value", o.Kind)
	}
	switch o.Kind {
	case physics.ObstacleRect:
		if o.Width <= 0 || o.Height <= 0 {
			return fmt.Errorf("rect size %vx%v must be positive", o.Width, o.Height)
		}
	case physics.ObstacleCircle:
		if o.Radius <= 0 {
			return fmt.Errorf("circle radius %v must be positive", o.Radius)
		}
	default:
		return fmt.Errorf("unknown type %q", o.Kind)
	}
	return nil
}

// finite reports whether every value is a real number. NaN fails every
// ordered comparison, so size checks alone would let it through.
func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Catalog is an ordered set of levels. The first level is always unlocked;
// the others are unlocked by winning the level before them.
type Catalog struct {
	levels []Level
}

// NewCatalog validates levels and orders them by ID. Duplicate IDs are an
// error.
func NewCatalog(levels []Level) (*Catalog, error) {
	sorted := slices.Clone(levels)
	slices.SortFunc(sorted, func(a, b Level) int { return a.ID - b.ID })

	for i := range sorted {
		if err := sorted[i].Validate(); err != nil {
			return nil, fmt.Errorf("level %d (%s): %w", sorted[i].ID, sorted[i].Name, err)
		}
		if i > 0 && sorted[i].ID == sorted[i-1].ID {
			return nil, fmt.Errorf("duplicate level id %d", sorted[i].ID)
		}
	}
	return &Catalog{levels: sorted}, nil
}

// All returns the levels in play order.
func (c *Catalog) All() []Level {
	return c.levels
}

// Len returns the number of levels.
func (c *Catalog) Len() int {
	return len(c.levels)
}

// First returns the first level, or nil for an empty catalog.
func (c *Catalog) First() *Level {
	if len(c.levels) == 0 {
		return nil
	}
	return &c.levels[0]
}

// Get returns the level with the given ID.
func (c *Catalog) Get(id int) (*Level, error) {
	i := c.index(id)
	if i < 0 {
		return nil, fmt.Errorf("level %d: %w", id, ErrNotFound)
	}
	return &c.levels[i], nil
}

// Next returns the level after id, if any.
func (c *Catalog) Next(id int) (*Level, bool) {
	i := c.index(id)
	if i < 0 || i+1 >= len(c.levels) {
		return nil, false
	}
	return &c.levels[i+1], true
}

func (c *Catalog) index(id int) int {
	return slices.IndexFunc(c.levels, func(l Level) bool { return l.ID == id })
}
