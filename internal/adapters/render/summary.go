package render

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/okian/loggraph/internal/domain/timeline"
)

// Summary is the serialisable view of one timeline.
type Summary struct {
	Player     string             `json:"player"             yaml:"player"`
	StableID   string             `json:"stable_id"          yaml:"stable_id"`
	Team       string             `json:"team"               yaml:"team"`
	Batching   int64              `json:"batching"           yaml:"batching"`
	Start      int64              `json:"start"              yaml:"start"`
	End        int64              `json:"end"                yaml:"end"`
	Scale      float32            `json:"scale"              yaml:"scale"`
	TotalScore float32            `json:"total_score"        yaml:"total_score"`
	PeakScore  float32            `json:"peak_score"         yaml:"peak_score"`
	Groups     []timeline.Group   `json:"groups"             yaml:"groups"`
	Noteworthy []timeline.Moment  `json:"noteworthy"         yaml:"noteworthy"`
	Segments   []timeline.Segment `json:"segments,omitempty" yaml:"-"`
}

// NewSummary flattens t. Segments are included already scaled.
func NewSummary(t *timeline.Timeline) Summary {
	moments := t.Noteworthy
	if moments == nil {
		moments = []timeline.Moment{}
	}
	return Summary{
		Player:     t.Player.Name,
		StableID:   t.Player.StableID,
		Team:       t.Player.Team.String(),
		Batching:   t.Batching,
		Start:      t.Start,
		End:        t.End,
		Scale:      t.Scale,
		TotalScore: t.TotalScore(),
		PeakScore:  t.PeakScore(),
		Groups:     t.Groups,
		Noteworthy: moments,
		Segments:   t.Scaled(),
	}
}

// JSON writes s as indented JSON.
func JSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("%w: json: %w", ErrWrite, err)
	}
	return nil
}

// YAML writes s without segments.
func YAML(w io.Writer, s Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("%w: yaml: %w", ErrWrite, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: yaml: %w", ErrWrite, err)
	}
	return nil
}
