// Package timeline batches a player's events in time, lays the groups out
// across the canvas, stacks their scored contributions and flags
// noteworthy moments.
package timeline

import (
	"fmt"
	"math"

	"github.com/okian/loggraph/internal/domain/model"
	"github.com/okian/loggraph/internal/domain/scoring"
)

// Layout holds canvas geometry and highlight parameters.
type Layout struct {
	Width     float32 // full canvas width
	Height    float32 // drawable height above the legend
	Padding   float32 // horizontal margin on both sides
	PreRoll   int64   // seconds the timeline starts before the first event
	TickRate  float32 // demo ticks per second
	Threshold float32 // group score strictly above this is noteworthy
}

// DefaultLayout is a 1280x720 canvas with a 70px legend strip.
func DefaultLayout() Layout {
	return Layout{
		Width:     1280,
		Height:    650,
		Padding:   10,
		PreRoll:   5,
		TickRate:  66.66666,
		Threshold: 250,
	}
}

// LineStart is the x of the earliest possible group.
func (l Layout) LineStart() float32 { return l.Padding }

// LineEnd is the x of the latest possible group.
func (l Layout) LineEnd() float32 { return l.Width - l.Padding }

// Group is a batch of events drawn at one x.
type Group struct {
	X      float32       `json:"x"`
	Anchor int64         `json:"anchor"`
	Score  float32       `json:"score"`
	Events []model.Event `json:"-" yaml:"-"`
}

// Moment is a noteworthy group. Index is its position among moments.
type Moment struct {
	Index  int     `json:"index"`
	X      float32 `json:"x"`
	Tick   int64   `json:"tick"`
	Anchor int64   `json:"anchor"`
	Score  float32 `json:"score"`
}

// Timeline is one player's laid-out graph.
type Timeline struct {
	Player     model.Player
	Index      int
	Batching   int64
	Start      int64
	End        int64
	Segments   []Segment
	Scale      float32
	Groups     []Group
	Noteworthy []Moment
}

// Duration is the covered span in seconds.
func (t *Timeline) Duration() int64 {
	return t.End - t.Start
}

// Scaled projects every segment by the final global scale.
func (t *Timeline) Scaled() []Segment {
	out := make([]Segment, len(t.Segments))
	for i, s := range t.Segments {
		s.FromY *= t.Scale
		s.ToY *= t.Scale
		out[i] = s
	}
	return out
}

// TotalScore sums every group's score.
func (t *Timeline) TotalScore() float32 {
	var sum float32
	for _, g := range t.Groups {
		sum += g.Score
	}
	return sum
}

// PeakScore is the best single group score.
func (t *Timeline) PeakScore() float32 {
	var peak float32
	for _, g := range t.Groups {
		peak = max(peak, g.Score)
	}
	return peak
}

// Builder turns filtered events into timelines.
type Builder struct {
	layout Layout
	table  *scoring.Table
}

// NewBuilder creates a Builder with the default layout and value table.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{layout: DefaultLayout(), table: scoring.New()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Layout returns the builder's layout.
func (b *Builder) Layout() Layout {
	return b.layout
}

// Build lays out f with events grouped while they fall within batching
// seconds of the group's first event.
func (b *Builder) Build(f model.FilteredEvents, batching int64) (*Timeline, error) {
	if batching <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBatching, batching)
	}
	events := f.Events
	if len(events) < 2 {
		return nil, fmt.Errorf("%w: player %s has %d", ErrDegenerateTimeline, f.Player.StableID, len(events))
	}

	t := &Timeline{
		Player:   f.Player,
		Index:    f.Index,
		Batching: batching,
		Start:    events[0].Timestamp - b.layout.PreRoll,
		End:      events[len(events)-1].Timestamp,
	}
	if t.Duration() <= 0 {
		return nil, fmt.Errorf("%w: player %s spans %ds", ErrDegenerateTimeline, f.Player.StableID, t.Duration())
	}
	duration := float32(t.Duration())

	acc := NewAccumulator(b.layout.Height)
	for i := 0; i < len(events); {
		j := i + 1
		for j < len(events) && events[j].Timestamp-events[i].Timestamp < batching {
			j++
		}
		buffer := events[i:j]
		i = j

		anchor := buffer[(len(buffer)-1)/2].Timestamp
		x := lerp(b.layout.LineStart(), b.layout.LineEnd(), float32(anchor-t.Start)/duration)

		acc.Reset()
		var score float32
		for _, ev := range buffer {
			for _, c := range b.table.Contributions(ev, f.Index) {
				acc.Push(x, c)
				if c.Scored {
					score += c.Value
				}
			}
		}

		t.Groups = append(t.Groups, Group{X: x, Anchor: anchor, Score: score, Events: buffer})
		if score > b.layout.Threshold {
			t.Noteworthy = append(t.Noteworthy, Moment{
				Index:  len(t.Noteworthy),
				X:      x,
				Tick:   b.Tick(anchor - t.Start),
				Anchor: anchor,
				Score:  score,
			})
		}
	}

	t.Segments = acc.Segments()
	t.Scale = acc.Scale()
	return t, nil
}

// Tick converts elapsed seconds to a demo tick, rounding half away from zero.
func (b *Builder) Tick(elapsed int64) int64 {
	return int64(math.Round(float64(float32(elapsed) * b.layout.TickRate)))
}

func lerp(start, end, v float32) float32 {
	if start == end {
		return start
	}
	return v*end + (start - v*start)
}
