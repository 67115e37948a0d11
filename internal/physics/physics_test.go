package physics

import (
	"math"
	"slices"
	"testing"

	"github.com/vovakirdan/tui-bounce/internal/core"
)

func approx(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// scatteredBalls returns ball states scattered around (and into) an obstacle
// occupying roughly [300,500]x[200,360].
func scatteredBalls() []Ball {
	var balls []Ball
	vels := []core.Vec2{core.V(6, 3), core.V(-4, 8), core.V(0, -12), core.V(10, 0), core.V(-3, -3)}
	for x := 280.0; x <= 520; x += 7 {
		for y := 180.0; y <= 380; y += 7 {
			for _, v := range vels {
				balls = append(balls, Ball{Pos: core.V(x, y), Vel: v})
			}
		}
	}
	return balls
}

func TestResolveNoResidualPenetration(t *testing.T) {
	obstacles := []Obstacle{
		Rect(320, 220, 160, 40),
		Rect(390, 200, 20, 160),
		Circle(400, 280, 50),
		Circle(350, 250, 5),
	}

	for _, o := range obstacles {
		hits := 0
		for _, b := range scatteredBalls() {
			out, hit := Resolve(b, o)
			if !hit {
				if out != b {
					t.Fatalf("Resolve(%v, %v) changed the ball without a hit", b, o)
				}
				continue
			}
			hits++
			if Touches(out, o) {
				t.Errorf("Resolve(%v, %s) left the ball touching: %v", b, o.Kind, out)
			}
			if _, again := Resolve(out, o); again {
				t.Errorf("second Resolve on %v reported another hit", out)
			}
		}
		if hits == 0 {
			t.Errorf("ball grid never hit %s obstacle %v", o.Kind, o)
		}
	}
}

func TestResolveEnergyNonIncrease(t *testing.T) {
	obstacles := []Obstacle{Rect(320, 220, 160, 40), Circle(400, 280, 50)}

	for _, o := range obstacles {
		for _, b := range scatteredBalls() {
			out, hit := Resolve(b, o)
			if !hit {
				continue
			}
			if out.Speed() > b.Speed()+1e-9 {
				t.Errorf("speed grew from %f to %f on %s bounce", b.Speed(), out.Speed(), o.Kind)
			}
			if !approx(out.Speed(), b.Speed()*Restitution, 1e-9) {
				t.Errorf("speed after bounce = %f, expected %f", out.Speed(), b.Speed()*Restitution)
			}
		}
	}
}

func TestResolveRectFaces(t *testing.T) {
	o := Rect(100, 100, 50, 50)

	tests := []struct {
		name    string
		ball    Ball
		wantPos core.Vec2
		wantVel core.Vec2
	}{
		{
			name:    "top face",
			ball:    Ball{Pos: core.V(125, 90), Vel: core.V(2, 4)},
			wantPos: core.V(125, 100-BallRadius),
			wantVel: core.V(2*Restitution, -4*Restitution),
		},
		{
			name:    "left face",
			ball:    Ball{Pos: core.V(92, 120), Vel: core.V(5, 0)},
			wantPos: core.V(100-BallRadius, 120),
			wantVel: core.V(-5*Restitution, 0),
		},
		{
			name:    "bottom face",
			ball:    Ball{Pos: core.V(130, 160), Vel: core.V(0, -8)},
			wantPos: core.V(130, 150+BallRadius),
			wantVel: core.V(0, 8*Restitution),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, hit := Resolve(tc.ball, o)
			if !hit {
				t.Fatal("expected a hit")
			}
			if !approx(out.Pos.X, tc.wantPos.X, 1e-5) || !approx(out.Pos.Y, tc.wantPos.Y, 1e-5) {
				t.Errorf("Pos = %v, expected %v", out.Pos, tc.wantPos)
			}
			if !approx(out.Vel.X, tc.wantVel.X, 1e-9) || !approx(out.Vel.Y, tc.wantVel.Y, 1e-9) {
				t.Errorf("Vel = %v, expected %v", out.Vel, tc.wantVel)
			}
		})
	}
}

func TestResolveCircle(t *testing.T) {
	o := Circle(200, 200, 20)
	b := Ball{Pos: core.V(200, 170), Vel: core.V(0, 6)}

	out, hit := Resolve(b, o)
	if !hit {
		t.Fatal("expected a hit")
	}
	if !approx(out.Pos.Y, 200-20-BallRadius, 1e-5) {
		t.Errorf("Pos.Y = %f, expected %f", out.Pos.Y, 200-20-BallRadius)
	}
	if !approx(out.Vel.Y, -6*Restitution, 1e-9) {
		t.Errorf("Vel.Y = %f, expected %f", out.Vel.Y, -6*Restitution)
	}
}

func TestResolveDegenerate(t *testing.T) {
	tests := []struct {
		name string
		ball Ball
		o    Obstacle
	}{
		{"center on rect edge", Ball{Pos: core.V(100, 120), Vel: core.V(3, 0)}, Rect(100, 100, 50, 50)},
		{"center inside rect", Ball{Pos: core.V(120, 120), Vel: core.V(3, 0)}, Rect(100, 100, 50, 50)},
		{"center on circle center", Ball{Pos: core.V(50, 50), Vel: core.V(1, 1)}, Circle(50, 50, 10)},
		{"exactly radius away", Ball{Pos: core.V(100-BallRadius, 120)}, Rect(100, 100, 50, 50)},
		{"unknown kind", Ball{Pos: core.V(10, 10)}, Obstacle{X: 10, Y: 10, Radius: 5}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, hit := Resolve(tc.ball, tc.o)
			if hit {
				t.Errorf("Resolve reported a hit, expected none")
			}
			if out != tc.ball {
				t.Errorf("ball changed: %v -> %v", tc.ball, out)
			}
		})
	}
}

func TestStepGravity(t *testing.T) {
	res := Step(NewBall(core.V(400, 100)), nil)

	if !approx(res.Ball.Vel.Y, Gravity, 1e-12) {
		t.Errorf("Vel.Y = %f, expected %f", res.Ball.Vel.Y, Gravity)
	}
	if !approx(res.Ball.Pos.Y, 100+Gravity, 1e-12) {
		t.Errorf("Pos.Y = %f, expected %f", res.Ball.Pos.Y, 100+Gravity)
	}
	if res.Bounced() || res.OutOfBounds {
		t.Errorf("unexpected flags: %+v", res)
	}
}

func TestStepWalls(t *testing.T) {
	tests := []struct {
		name    string
		ball    Ball
		wantPos core.Vec2
		wantVel core.Vec2
	}{
		{
			name:    "left wall",
			ball:    Ball{Pos: core.V(20, 300), Vel: core.V(-10, 0)},
			wantPos: core.V(BallRadius, 300.3),
			wantVel: core.V(7.5, 0.3),
		},
		{
			name:    "right wall",
			ball:    Ball{Pos: core.V(780, 300), Vel: core.V(10, 0)},
			wantPos: core.V(CanvasWidth-BallRadius, 300.3),
			wantVel: core.V(-7.5, 0.3),
		},
		{
			name:    "top wall",
			ball:    Ball{Pos: core.V(400, 20), Vel: core.V(0, -10.3)},
			wantPos: core.V(400, BallRadius),
			wantVel: core.V(0, 7.5),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := Step(tc.ball, nil)
			if !res.WallBounced || res.ObstacleBounced {
				t.Errorf("flags = %+v, expected wall bounce only", res)
			}
			if !approx(res.Ball.Pos.X, tc.wantPos.X, 1e-9) || !approx(res.Ball.Pos.Y, tc.wantPos.Y, 1e-9) {
				t.Errorf("Pos = %v, expected %v", res.Ball.Pos, tc.wantPos)
			}
			if !approx(res.Ball.Vel.X, tc.wantVel.X, 1e-9) || !approx(res.Ball.Vel.Y, tc.wantVel.Y, 1e-9) {
				t.Errorf("Vel = %v, expected %v", res.Ball.Vel, tc.wantVel)
			}
		})
	}
}

func TestStepBottomIsOpen(t *testing.T) {
	b := Ball{Pos: core.V(100, 300), Vel: core.V(0, 18)}

	for tick := 1; tick <= 20; tick++ {
		res := Step(b, nil)
		if res.WallBounced {
			t.Fatalf("tick %d: bottom edge bounced the ball", tick)
		}
		b = res.Ball
		if res.OutOfBounds {
			if tick != 14 {
				t.Errorf("out of bounds at tick %d, expected 14", tick)
			}
			return
		}
	}
	t.Fatal("ball never left the canvas")
}

func TestStepObstaclesInOrder(t *testing.T) {
	// Two stacked rects: after the first pushes the ball up, the second is
	// tested against the corrected position and is no longer touched.
	obstacles := []Obstacle{
		Rect(380, 300, 40, 20),
		Rect(380, 320, 40, 20),
	}
	b := Ball{Pos: core.V(400, 285), Vel: core.V(0, 4)}

	res := Step(b, obstacles)
	if !res.ObstacleBounced {
		t.Fatal("expected obstacle bounce")
	}
	if res.Ball.Vel.Y >= 0 {
		t.Errorf("Vel.Y = %f, expected upward after bounce", res.Ball.Vel.Y)
	}
	for _, o := range obstacles {
		if Touches(res.Ball, o) {
			t.Errorf("ball still touches %v", o)
		}
	}
}

func TestStepInSmallArena(t *testing.T) {
	bounds := Bounds{Width: 100, Height: 100}
	b := Ball{Pos: core.V(80, 50), Vel: core.V(10, 0)}

	res := StepIn(bounds, b, nil)
	if !res.WallBounced {
		t.Fatal("expected right wall bounce in small arena")
	}
	if res.Ball.Pos.X != 100-BallRadius {
		t.Errorf("Pos.X = %f, expected %f", res.Ball.Pos.X, 100-BallRadius)
	}
}

func TestStepEnergyOnWalls(t *testing.T) {
	for _, b := range []Ball{
		{Pos: core.V(15, 300), Vel: core.V(-9, 2)},
		{Pos: core.V(790, 300), Vel: core.V(12, -5)},
		{Pos: core.V(400, 15), Vel: core.V(3, -11)},
	} {
		before := b.Vel.Add(core.V(0, Gravity)).Len()
		res := Step(b, nil)
		if !res.WallBounced {
			t.Fatalf("expected wall bounce for %v", b)
		}
		if res.Ball.Speed() > before+1e-9 {
			t.Errorf("speed grew from %f to %f", before, res.Ball.Speed())
		}
	}
}

func TestPredictPurity(t *testing.T) {
	start := Ball{Pos: core.V(100, 300), Vel: core.V(8.04, -5.04)}
	obstacles := []Obstacle{Circle(500, 250, 30)}

	seq := Predict(start, obstacles, PreviewTicks)
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	third := PredictPath(start, obstacles, PreviewTicks)

	if len(first) == 0 {
		t.Fatal("Predict returned no points")
	}
	if !slices.Equal(first, second) || !slices.Equal(first, third) {
		t.Error("Predict is not restartable: repeated calls differ")
	}
	if start.Pos != core.V(100, 300) || start.Vel != core.V(8.04, -5.04) {
		t.Errorf("start ball mutated: %v", start)
	}
}

func TestPredictSampling(t *testing.T) {
	// A floor keeps the ball on the canvas for the whole preview.
	floor := []Obstacle{Rect(0, 500, CanvasWidth, 60)}
	start := Ball{Pos: core.V(100, 300), Vel: core.V(3, 0)}

	path := PredictPath(start, floor, PreviewTicks)
	if len(path) != PreviewTicks/PreviewSample {
		t.Fatalf("len(path) = %d, expected %d", len(path), PreviewTicks/PreviewSample)
	}

	b := start
	for i := 1; i <= PreviewSample; i++ {
		b = Step(b, floor).Ball
	}
	if path[0] != b.Pos {
		t.Errorf("path[0] = %v, expected position after %d ticks %v", path[0], PreviewSample, b.Pos)
	}
}

func TestPredictStopsOutOfBounds(t *testing.T) {
	start := Ball{Pos: core.V(100, 300), Vel: core.V(0, 18)}

	path := PredictPath(start, nil, PreviewTicks)
	// Out of bounds on tick 14: samples at ticks 4, 8 and 12 only.
	if len(path) != 3 {
		t.Errorf("len(path) = %d, expected 3", len(path))
	}
}

func TestPredictEarlyBreak(t *testing.T) {
	start := Ball{Pos: core.V(100, 300), Vel: core.V(3, -6)}
	n := 0
	for range Predict(start, nil, PreviewTicks) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("consumed %d points, expected 2", n)
	}
}

func TestStarHit(t *testing.T) {
	star := core.V(200, 200)

	tests := []struct {
		name     string
		pos      core.Vec2
		expected bool
	}{
		{"on star", core.V(200, 200), true},
		{"just inside", core.V(200+BallRadius+StarRadius-0.01, 200), true},
		{"touching exactly", core.V(200+BallRadius+StarRadius, 200), false},
		{"far", core.V(300, 300), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := StarHit(NewBall(tc.pos), star); got != tc.expected {
				t.Errorf("StarHit(%v) = %v, expected %v", tc.pos, got, tc.expected)
			}
		})
	}
}

func TestGoalEntered(t *testing.T) {
	goal := Box{X: 340, Y: 230, Width: 140, Height: 130}

	tests := []struct {
		name     string
		pos      core.Vec2
		expected bool
	}{
		{"center inside", core.V(400, 300), true},
		{"edge overlap from left", core.V(330, 300), true},
		{"just outside left", core.V(340-BallRadius, 300), false},
		{"above", core.V(400, 200), false},
		{"overlap from above", core.V(400, 220), true},
		{"right of goal", core.V(500, 300), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := GoalEntered(NewBall(tc.pos), goal); got != tc.expected {
				t.Errorf("GoalEntered(%v) = %v, expected %v", tc.pos, got, tc.expected)
			}
		})
	}
}

func TestObstacleKindText(t *testing.T) {
	var k ObstacleKind
	if err := k.UnmarshalText([]byte("circle")); err != nil || k != ObstacleCircle {
		t.Errorf("UnmarshalText(circle) = %v, %v", k, err)
	}
	if err := k.UnmarshalText([]byte("triangle")); err == nil {
		t.Error("UnmarshalText(triangle) should fail")
	}
	if _, err := ObstacleKind(0).MarshalText(); err == nil {
		t.Error("MarshalText of zero kind should fail")
	}
}
