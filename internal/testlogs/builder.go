// Package testlogs produces well-formed match logs for tests and load runs.
package testlogs

import (
	"fmt"
	"strings"
	"time"
)

// DefaultBase is the wall clock of the first line in generated logs.
var DefaultBase = time.Date(2021, time.October, 7, 20, 0, 0, 0, time.UTC) //nolint:gochecknoglobals // fixture constant

const timestampLayout = "01/02/2006 - 15:04:05"

// Player is a log participant.
type Player struct {
	Name    string
	Slot    int
	SteamID string
	Team    string
}

// NewPlayer returns the n-th synthetic player. Ids have a fixed width so no
// id is a substring of another.
func NewPlayer(n int, team string) Player {
	return Player{
		Name:    fmt.Sprintf("player%02d", n),
		Slot:    n + 1,
		SteamID: fmt.Sprintf("[U:1:%d]", 100000+n),
		Team:    team,
	}
}

// String renders the quoted identifier as it appears in a log clause.
func (p Player) String() string {
	return fmt.Sprintf("%q", fmt.Sprintf("%s<%d><%s><%s>", p.Name, p.Slot, p.SteamID, p.Team))
}

// Prop is one trailing (key "value") property.
type Prop struct {
	Key   string
	Value string
}

// P builds a Prop.
func P(key, value string) Prop { return Prop{Key: key, Value: value} }

func props(ps []Prop) string {
	var b strings.Builder
	for _, p := range ps {
		fmt.Fprintf(&b, " (%s %q)", p.Key, p.Value)
	}
	return b.String()
}

// Builder appends log lines at a movable clock.
type Builder struct {
	base   time.Time
	offset int64
	lines  []string
}

// NewBuilder starts a log at base.
func NewBuilder(base time.Time) *Builder {
	return &Builder{base: base.UTC()}
}

// At moves the clock to sec seconds after base.
func (b *Builder) At(sec int64) *Builder {
	b.offset = sec
	return b
}

// Timestamp returns the epoch seconds of offset sec.
func (b *Builder) Timestamp(sec int64) int64 {
	return b.base.Unix() + sec
}

// Raw appends an arbitrary clause.
func (b *Builder) Raw(clause string) *Builder {
	ts := b.base.Add(time.Duration(b.offset) * time.Second).Format(timestampLayout)
	b.lines = append(b.lines, "L "+ts+": "+clause)
	return b
}

func (b *Builder) RoundStart() *Builder { return b.Raw(`World triggered "Round_Start"`) }
func (b *Builder) GameOver() *Builder {
	return b.Raw(`World triggered "Game_Over" reason "Reached Win Limit"`)
}

func (b *Builder) Damage(attacker, victim Player, amount int, extra ...Prop) *Builder {
	ps := append([]Prop{P("damage", fmt.Sprint(amount))}, extra...)
	return b.Raw(fmt.Sprintf(`%s triggered "damage" against %s%s`, attacker, victim, props(ps)))
}

func (b *Builder) Heal(healer, target Player, amount int) *Builder {
	return b.Raw(fmt.Sprintf(`%s triggered "healed" against %s%s`, healer, target, props([]Prop{P("healing", fmt.Sprint(amount))})))
}

func (b *Builder) Fired(p Player, weapon string) *Builder {
	return b.Raw(fmt.Sprintf(`%s triggered "shot_fired"%s`, p, props([]Prop{P("weapon", weapon)})))
}

func (b *Builder) Hit(p Player, weapon string) *Builder {
	return b.Raw(fmt.Sprintf(`%s triggered "shot_hit"%s`, p, props([]Prop{P("weapon", weapon)})))
}

func (b *Builder) Kill(attacker, victim Player, weapon string, extra ...Prop) *Builder {
	return b.Raw(fmt.Sprintf(`%s killed %s with %q%s`, attacker, victim, weapon, props(extra)))
}

func (b *Builder) MedicDeath(attacker, medic Player, drop bool) *Builder {
	uber := "0"
	if drop {
		uber = "1"
	}
	return b.Raw(fmt.Sprintf(`%s triggered "medic_death" against %s%s`, attacker, medic,
		props([]Prop{P("healing", "0"), P("ubercharge", uber)})))
}

func (b *Builder) ChangeRole(p Player, role string) *Builder {
	return b.Raw(fmt.Sprintf(`%s changed role to %q`, p, role))
}

func (b *Builder) Say(p Player, text string) *Builder {
	return b.Raw(fmt.Sprintf(`%s say %q`, p, text))
}

// Lines returns the accumulated lines.
func (b *Builder) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// String joins the lines with trailing newlines, the way log files are stored.
func (b *Builder) String() string {
	if len(b.lines) == 0 {
		return ""
	}
	return strings.Join(b.lines, "\n") + "\n"
}
