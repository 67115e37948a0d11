package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/tui-bounce/internal/core"
	"github.com/vovakirdan/tui-bounce/internal/level"
	"github.com/vovakirdan/tui-bounce/internal/physics"
	"github.com/vovakirdan/tui-bounce/internal/session"
	"github.com/vovakirdan/tui-bounce/internal/storage"
)

const version = "1.0.0"

// Request limits.
const (
	defaultTopScores = 10
	maxTopScores     = 100
	maxPreviewTicks  = 600
)

// HealthCheck returns server health status
func (s *Server) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "bounce-api",
		"version": version,
		"levels":  s.catalog.Len(),
		"uptime":  time.Since(s.started).String(),
	})
}

// levelSummary is one entry of the level list.
type levelSummary struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	MaxBounces int    `json:"maxBounces"`
	Unlocked   bool   `json:"unlocked"`
	Completed  bool   `json:"completed"`
	BestScore  int    `json:"bestScore"`
	BestStars  int    `json:"bestStars"`
}

// ListLevels returns every level in play order with its lock state and
// best result.
func (s *Server) ListLevels(c *gin.Context) {
	levels := s.catalog.All()
	out := make([]levelSummary, len(levels))
	for i, lvl := range levels {
		out[i] = levelSummary{ID: lvl.ID, Name: lvl.Name, MaxBounces: lvl.MaxBounces, Unlocked: true}
	}

	if s.recorder != nil {
		statuses, err := s.recorder.Statuses()
		if err != nil {
			s.internalError(c, "cannot load progress", err)
			return
		}
		for i, st := range statuses {
			out[i].Unlocked = st.Unlocked
			out[i].Completed = st.Progress.Completed
			out[i].BestScore = st.Progress.BestScore
			out[i].BestStars = st.Progress.BestStars
		}
	}

	c.JSON(http.StatusOK, gin.H{"levels": out})
}

// GetLevel returns the full level configuration.
func (s *Server) GetLevel(c *gin.Context) {
	lvl, ok := s.level(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, lvl)
}

// GetBest returns the best result and the top scores of a level. The
// optional limit query parameter caps the score list.
func (s *Server) GetBest(c *gin.Context) {
	lvl, ok := s.level(c)
	if !ok {
		return
	}

	limit := defaultTopScores
	if q := c.Query("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxTopScores)
	}

	progress := storage.Progress{LevelID: lvl.ID}
	scores := []storage.ScoreEntry{}
	if s.store != nil {
		var err error
		if progress, err = s.store.Progress(lvl.ID); err != nil {
			s.internalError(c, "cannot load progress", err)
			return
		}
		top, err := s.store.TopScores(lvl.ID, limit)
		if err != nil {
			s.internalError(c, "cannot load scores", err)
			return
		}
		if top != nil {
			scores = top
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"levelId":   lvl.ID,
		"bestScore": progress.BestScore,
		"bestStars": progress.BestStars,
		"completed": progress.Completed,
		"scores":    scores,
	})
}

// launchRequest is the body of the preview and simulate endpoints. The drag
// starts at the level's ball start and ends at To.
type launchRequest struct {
	To        *core.Vec2 `json:"to" binding:"required"`
	Ticks     int        `json:"ticks,omitempty"`
	MaxFrames int        `json:"maxFrames,omitempty"`
}

// PreviewLaunch returns the aim preview points for a drag.
func (s *Server) PreviewLaunch(c *gin.Context) {
	lvl, ok := s.level(c)
	if !ok {
		return
	}
	var req launchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request. A drag target \"to\" is required."})
		return
	}
	if _, ok := session.LaunchVelocity(lvl.BallStart, *req.To); !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "drag too short to launch"})
		return
	}

	ticks := physics.PreviewTicks
	if req.Ticks > 0 {
		ticks = min(req.Ticks, maxPreviewTicks)
	}
	points := session.New(lvl).Preview(lvl, *req.To, ticks)
	if points == nil {
		points = []core.Vec2{}
	}

	c.JSON(http.StatusOK, gin.H{
		"levelId": lvl.ID,
		"ticks":   ticks,
		"points":  points,
	})
}

// simulateResponse is the outcome of a headless run.
type simulateResponse struct {
	LevelID int             `json:"levelId"`
	Phase   session.Phase   `json:"phase"`
	Reason  string          `json:"reason,omitempty"`
	Ticks   int             `json:"ticks"`
	Bounces int             `json:"bounces"`
	Stars   int             `json:"stars"`
	Elapsed float64         `json:"elapsed"`
	Score   int             `json:"score"`
	Ball    physics.Ball    `json:"ball"`
	Events  []session.Event `json:"events"`
}

// SimulateLaunch plays a launch headless on a virtual clock and returns the
// outcome. Nothing is recorded.
func (s *Server) SimulateLaunch(c *gin.Context) {
	lvl, ok := s.level(c)
	if !ok {
		return
	}
	var req launchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request. A drag target \"to\" is required."})
		return
	}
	if _, ok := session.LaunchVelocity(lvl.BallStart, *req.To); !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "drag too short to launch"})
		return
	}

	frames := session.DefaultSimulationFrames
	if req.MaxFrames > 0 {
		frames = min(req.MaxFrames, session.DefaultSimulationFrames)
	}
	final, events := session.Simulate(lvl, *req.To, frames)

	c.JSON(http.StatusOK, simulateResponse{
		LevelID: lvl.ID,
		Phase:   final.Phase,
		Reason:  final.Reason.String(),
		Ticks:   final.Ticks,
		Bounces: final.Bounces,
		Stars:   final.StarsCollected(),
		Elapsed: final.Elapsed,
		Score:   final.Score.Total,
		Ball:    final.Ball,
		Events:  events,
	})
}

// level resolves the :id path parameter, writing the error response when
// it does not name a level.
func (s *Server) level(c *gin.Context) (*level.Level, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "level id must be an integer"})
		return nil, false
	}
	lvl, err := s.catalog.Get(id)
	if errors.Is(err, level.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	if err != nil {
		s.internalError(c, "cannot load level", err)
		return nil, false
	}
	return lvl, true
}

func (s *Server) internalError(c *gin.Context, msg string, err error) {
	if s.logger != nil {
		s.logger.Error(msg, "path", c.Request.URL.Path, "err", err)
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
