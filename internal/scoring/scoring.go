// Package scoring turns the statistics of a won level into a score.
package scoring

import "math"

// Score weights.
const (
	PointsPerStar        = 500
	PointsPerSpareBounce = 100
	TimeBonusSeconds     = 60.0 // no time bonus after this many seconds
	TimeBonusPerSecond   = 10
)

// Breakdown is the score of one win, split by component.
type Breakdown struct {
	StarsBonus       int `json:"starsBonus"`
	BounceEfficiency int `json:"bounceEfficiency"`
	TimeBonus        int `json:"timeBonus"`
	Total            int `json:"total"`
}

// Calculate scores a win. Stars collected earn a flat bonus, every bounce
// left unused under maxBounces earns a bounce bonus, and finishing in under a
// minute earns a time bonus. No component is ever negative.
func Calculate(stars, bounces int, elapsed float64, maxBounces int) Breakdown {
	b := Breakdown{
		StarsBonus:       stars * PointsPerStar,
		BounceEfficiency: max(0, (maxBounces-bounces)*PointsPerSpareBounce),
		TimeBonus:        max(0, int(math.Floor((TimeBonusSeconds-elapsed)*TimeBonusPerSecond))),
	}
	b.Total = b.StarsBonus + b.BounceEfficiency + b.TimeBonus
	return b
}
