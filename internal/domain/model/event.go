package model

// Kind names an event variant.
type Kind int

const (
	KindDamage Kind = iota
	KindHeal
	KindFired
	KindHit
	KindKill
	KindChangeClass
	KindMedicDeath
	KindSay
	KindRoundStart
	KindGameOver
)

var kindNames = [...]string{ //nolint:gochecknoglobals // lookup table
	KindDamage:      "damage",
	KindHeal:        "heal",
	KindFired:       "shot_fired",
	KindHit:         "shot_hit",
	KindKill:        "kill",
	KindChangeClass: "change_class",
	KindMedicDeath:  "medic_death",
	KindSay:         "say",
	KindRoundStart:  "round_start",
	KindGameOver:    "game_over",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Payload is the closed set of event variants. Only types in this package
// implement it.
type Payload interface {
	Kind() Kind
	sealed()
}

// Damage is damage dealt by Attacker to Victim.
type Damage struct {
	Attacker int
	Victim   int
	Amount   uint32
	Weapon   string
	Headshot bool
	Airshot  bool
}

// Heal is healing given by Healer to Target.
type Heal struct {
	Healer int
	Target int
	Amount uint32
}

// Kill is a frag of Victim by Attacker.
type Kill struct {
	Attacker int
	Victim   int
	Weapon   string
	Headshot bool
	Backstab bool
}

// Fired is a shot taken by Player.
type Fired struct {
	Player int
	Weapon string
}

// Hit is a shot by Player that connected.
type Hit struct {
	Player int
	Weapon string
}

// ChangeClass is a role switch.
type ChangeClass struct {
	Player int
	Class  Class
}

// MedicDeath is a medic (Victim) killed by Attacker. Drop is set when the
// medic died with a full charge.
type MedicDeath struct {
	Attacker int
	Victim   int
	Drop     bool
}

// Say is a chat message. Team is set for team-only chat.
type Say struct {
	Player int
	Text   string
	Team   bool
}

// RoundStart marks the start of a round.
type RoundStart struct{}

// GameOver marks the end of the match.
type GameOver struct{}

func (Damage) Kind() Kind      { return KindDamage }
func (Heal) Kind() Kind        { return KindHeal }
func (Fired) Kind() Kind       { return KindFired }
func (Hit) Kind() Kind         { return KindHit }
func (Kill) Kind() Kind        { return KindKill }
func (ChangeClass) Kind() Kind { return KindChangeClass }
func (MedicDeath) Kind() Kind  { return KindMedicDeath }
func (Say) Kind() Kind         { return KindSay }
func (RoundStart) Kind() Kind  { return KindRoundStart }
func (GameOver) Kind() Kind    { return KindGameOver }

func (Damage) sealed()      {}
func (Heal) sealed()        {}
func (Fired) sealed()       {}
func (Hit) sealed()         {}
func (Kill) sealed()        {}
func (ChangeClass) sealed() {}
func (MedicDeath) sealed()  {}
func (Say) sealed()         {}
func (RoundStart) sealed()  {}
func (GameOver) sealed()    {}

// Event is one parsed log line. Timestamp is in epoch seconds (UTC).
type Event struct {
	Timestamp int64
	Payload   Payload
}

// Kind reports the variant of the event payload.
func (e Event) Kind() Kind {
	return e.Payload.Kind()
}

// FilteredEvents is the chronological subsequence of events relevant to one
// player. Index is the player's registry position.
type FilteredEvents struct {
	Player Player
	Index  int
	Events []Event
}
