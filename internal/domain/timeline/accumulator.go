package timeline

import "github.com/okian/loggraph/internal/domain/scoring"

// Segment is an unscaled vertical interval at one x position. Y values are
// signed distances from the baseline: positive above, negative below.
type Segment struct {
	X        float32          `json:"x"`
	FromY    float32          `json:"from_y"`
	ToY      float32          `json:"to_y"`
	Capped   bool             `json:"capped"`
	Category scoring.Category `json:"category"`
}

// Accumulator folds pushes into stacked segments and tracks the single
// global scale that makes the tallest stack fit. Segments stay unscaled until
// the pass is complete.
type Accumulator struct {
	segments []Segment
	positive float32
	negative float32
	scale    float32
	half     float32
}

// NewAccumulator returns an accumulator for a drawable area height tall.
func NewAccumulator(height float32) *Accumulator {
	return &Accumulator{scale: 1, half: height * 0.5}
}

// Reset clears the running stacks for a new group. Scale and segments persist.
func (a *Accumulator) Reset() {
	a.positive = 0
	a.negative = 0
}

// Push records one contribution at x.
func (a *Accumulator) Push(x float32, c scoring.Contribution) {
	var from, to float32
	if c.Stack == scoring.Positive {
		from = a.positive
		a.positive += c.Value
		to = a.positive
	} else {
		from = a.negative
		a.negative -= c.Value
		to = a.negative
	}
	a.fit(abs32(to))
	a.segments = append(a.segments, Segment{X: x, FromY: from, ToY: to, Capped: c.Capped, Category: c.Category})
}

func (a *Accumulator) fit(magnitude float32) {
	if magnitude <= a.half {
		return
	}
	if candidate := a.half / magnitude; candidate < a.scale {
		a.scale = candidate
	}
}

// Scale is the current global scale, in (0, 1].
func (a *Accumulator) Scale() float32 {
	return a.scale
}

// Segments returns the unscaled segments recorded so far.
func (a *Accumulator) Segments() []Segment {
	return a.segments
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
