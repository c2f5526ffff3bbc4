// Package scoring defines the fixed value table that turns a player's events
// into signed stack pushes and highlight score.
package scoring

import (
	"strings"

	"github.com/okian/loggraph/internal/domain/model"
)

// Default value table.
const (
	DefaultDamageMultiplier = 1.0
	DefaultHealMultiplier   = 1.0
	DefaultKillValue        = 100
	DefaultHeadshotValue    = 50
	DefaultAirshotValue     = 100
	DefaultStyleKillValue   = 70
	DefaultDeathValue       = 150
	DefaultHitValue         = 20
	DefaultMedicKillValue   = 100
	DefaultMedicDropValue   = 200
)

// Keys accepted by WithValues.
const (
	KeyDamage    = "damage"
	KeyHeal      = "heal"
	KeyKill      = "kill"
	KeyHeadshot  = "headshot"
	KeyAirshot   = "airshot"
	KeyStyleKill = "style_kill"
	KeyDeath     = "death"
	KeyHit       = "hit"
	KeyMedicKill = "medic_kill"
	KeyMedicDrop = "medic_drop"
)

// Stack is the side of the baseline a push grows.
type Stack int

const (
	Positive Stack = iota
	Negative
)

// Category colours a segment.
type Category int

const (
	CategoryDamage Category = iota
	CategoryHeal
	CategoryHeadshot // also backstab and reflect kills
	CategoryAirshot
	CategoryKill
	CategoryShotHit
	CategoryMedicKill
	CategoryMedicDrop
	CategoryDeath
)

var categoryNames = [...]string{ //nolint:gochecknoglobals // lookup table
	CategoryDamage:    "damage",
	CategoryHeal:      "heal",
	CategoryHeadshot:  "headshot/backstab/reflect",
	CategoryAirshot:   "airshot",
	CategoryKill:      "kill",
	CategoryShotHit:   "shot_hit",
	CategoryMedicKill: "medic_kill",
	CategoryMedicDrop: "medic_drop",
	CategoryDeath:     "death",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// MarshalText encodes the category by name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Contribution is one push onto a stack.
type Contribution struct {
	Stack    Stack
	Value    float32
	Capped   bool
	Category Category
	// Scored pushes count toward the group's highlight score.
	Scored bool
}

// Option applies a configuration option to the Table.
type Option func(*Table)

// WithValues overrides table entries by key. Unknown keys and non-positive
// values are ignored.
func WithValues(values map[string]float64) Option {
	return func(t *Table) {
		for key, v := range values {
			if v <= 0 {
				continue
			}
			if slot := t.slot(key); slot != nil {
				*slot = float32(v)
			}
		}
	}
}

// Table maps events to contributions.
type Table struct {
	damage, heal            float32
	kill, headshot, airshot float32
	styleKill, death, hit   float32
	medicKill, medicDrop    float32
}

// New creates a table with the default values.
func New(opts ...Option) *Table {
	t := &Table{
		damage:    DefaultDamageMultiplier,
		heal:      DefaultHealMultiplier,
		kill:      DefaultKillValue,
		headshot:  DefaultHeadshotValue,
		airshot:   DefaultAirshotValue,
		styleKill: DefaultStyleKillValue,
		death:     DefaultDeathValue,
		hit:       DefaultHitValue,
		medicKill: DefaultMedicKillValue,
		medicDrop: DefaultMedicDropValue,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Table) slot(key string) *float32 {
	switch key {
	case KeyDamage:
		return &t.damage
	case KeyHeal:
		return &t.heal
	case KeyKill:
		return &t.kill
	case KeyHeadshot:
		return &t.headshot
	case KeyAirshot:
		return &t.airshot
	case KeyStyleKill:
		return &t.styleKill
	case KeyDeath:
		return &t.death
	case KeyHit:
		return &t.hit
	case KeyMedicKill:
		return &t.medicKill
	case KeyMedicDrop:
		return &t.medicDrop
	}
	return nil
}

// Value returns the current value for key, or 0 for an unknown key.
func (t *Table) Value(key string) float32 {
	if slot := t.slot(key); slot != nil {
		return *slot
	}
	return 0
}

// Contributions returns the pushes ev makes from the perspective of the
// player at index, in the order they are applied.
func (t *Table) Contributions(ev model.Event, index int) []Contribution {
	switch p := ev.Payload.(type) {
	case model.Damage:
		amount := float32(p.Amount) * t.damage
		if p.Attacker == index {
			out := []Contribution{{Stack: Positive, Value: amount, Category: CategoryDamage, Scored: true}}
			if p.Headshot {
				out = append(out, Contribution{Stack: Positive, Value: t.headshot, Capped: true, Category: CategoryHeadshot, Scored: true})
			}
			if p.Airshot {
				out = append(out, Contribution{Stack: Positive, Value: t.airshot, Capped: true, Category: CategoryAirshot, Scored: true})
			}
			return out
		}
		if p.Victim == index {
			return []Contribution{{Stack: Negative, Value: amount, Category: CategoryDamage}}
		}

	case model.Heal:
		amount := float32(p.Amount) * t.heal
		if p.Healer == index {
			return []Contribution{{Stack: Positive, Value: amount, Category: CategoryHeal, Scored: true}}
		}
		if p.Target == index {
			return []Contribution{{Stack: Negative, Value: amount, Category: CategoryHeal}}
		}

	case model.Kill:
		if p.Attacker == index {
			var out []Contribution
			// headshot kills are already rewarded through damage
			if strings.HasPrefix(p.Weapon, "deflect") || p.Backstab {
				out = append(out, Contribution{Stack: Positive, Value: t.styleKill, Capped: true, Category: CategoryHeadshot, Scored: true})
			}
			return append(out, Contribution{Stack: Positive, Value: t.kill, Capped: true, Category: CategoryKill, Scored: true})
		}
		if p.Victim == index {
			return []Contribution{{Stack: Negative, Value: t.death, Capped: true, Category: CategoryDeath}}
		}

	case model.Hit:
		if p.Player == index {
			return []Contribution{{Stack: Positive, Value: t.hit, Category: CategoryShotHit, Scored: true}}
		}

	case model.MedicDeath:
		if p.Attacker == index {
			if p.Drop {
				return []Contribution{{Stack: Positive, Value: t.medicDrop, Capped: true, Category: CategoryMedicDrop, Scored: true}}
			}
			return []Contribution{{Stack: Positive, Value: t.medicKill, Capped: true, Category: CategoryMedicKill, Scored: true}}
		}
		if p.Victim == index && p.Drop {
			return []Contribution{{Stack: Negative, Value: t.medicDrop, Capped: true, Category: CategoryMedicDrop}}
		}
	}
	return nil
}
