// Package model contains domain models passed between layers.
package model

// Team is the side a player was on when first seen in the log.
type Team int

const (
	TeamUnknown Team = iota
	TeamRed
	TeamBlu
	TeamSpectator
	TeamConsole
)

// ParseTeam maps a log team token to a Team. The log spells Blu as "Blue".
func ParseTeam(token string) Team {
	switch token {
	case "Red":
		return TeamRed
	case "Blue", "Blu":
		return TeamBlu
	case "Spectator":
		return TeamSpectator
	case "Console":
		return TeamConsole
	default:
		return TeamUnknown
	}
}

func (t Team) String() string {
	switch t {
	case TeamRed:
		return "Red"
	case TeamBlu:
		return "Blu"
	case TeamSpectator:
		return "Spectator"
	case TeamConsole:
		return "Console"
	default:
		return "Unknown"
	}
}

// Class is one of the nine playable roles.
type Class int

const (
	ClassUnknown Class = iota
	ClassScout
	ClassSoldier
	ClassPyro
	ClassDemoman
	ClassHeavy
	ClassEngineer
	ClassMedic
	ClassSniper
	ClassSpy
)

var classTokens = map[string]Class{ //nolint:gochecknoglobals // lookup table
	"scout":        ClassScout,
	"soldier":      ClassSoldier,
	"pyro":         ClassPyro,
	"demoman":      ClassDemoman,
	"heavyweapons": ClassHeavy,
	"engineer":     ClassEngineer,
	"medic":        ClassMedic,
	"sniper":       ClassSniper,
	"spy":          ClassSpy,
}

// ParseClass maps a role token such as "heavyweapons" to a Class.
func ParseClass(token string) Class {
	if c, ok := classTokens[token]; ok {
		return c
	}
	return ClassUnknown
}

func (c Class) String() string {
	for token, class := range classTokens {
		if class == c {
			return token
		}
	}
	return "unknown"
}

// Player is a participant resolved from the log. Players are identified by
// their position in the registry and never change after creation.
type Player struct {
	Name     string
	StableID string
	Team     Team
}
