// Package grammar turns one log clause into at most one typed event.
//
// Rules are tried in a fixed order and the first head pattern that matches
// wins. Text after the head is scanned for (key "value") properties.
package grammar

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/okian/loggraph/internal/domain/model"
)

// UndefinedWeapon is recorded when a line carries no weapon property.
const UndefinedWeapon = "undefined"

// Resolver maps raw player identifiers to registry indices.
type Resolver interface {
	ResolveOrCreate(raw string) (int, error)
}

var properties = regexp.MustCompile(`\((\w{1,60}) "([^"]{1,60})"\)`) //nolint:gochecknoglobals // compiled once

// rule is one grammar production: a head pattern and a payload builder.
type rule struct {
	kind  model.Kind
	head  *regexp.Regexp
	build func(m match, rest string) (model.Payload, error)
}

// match gives builders access to named groups and identity resolution.
type match struct {
	re       *regexp.Regexp
	groups   []string
	resolver Resolver
}

func (m match) group(name string) (string, error) {
	idx := m.re.SubexpIndex(name)
	if idx < 0 || idx >= len(m.groups) || m.groups[idx] == "" {
		return "", fmt.Errorf("%w: missing %s", ErrMalformedLine, name)
	}
	return m.groups[idx], nil
}

func (m match) player(name string) (int, error) {
	raw, err := m.group(name)
	if err != nil {
		return 0, err
	}
	return m.resolver.ResolveOrCreate(raw)
}

func (m match) pair(first, second string) (int, int, error) {
	a, err := m.player(first)
	if err != nil {
		return 0, 0, err
	}
	b, err := m.player(second)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// Parser applies the ordered rule set.
type Parser struct {
	rules []rule
}

// New returns a parser with the full rule set in priority order.
func New() *Parser {
	return &Parser{rules: []rule{
		{model.KindDamage, regexp.MustCompile(`^"(?P<attacker>.+?)" triggered "damage" against "(?P<victim>.+?)"(?:\s|$)`), buildDamage},
		{model.KindHeal, regexp.MustCompile(`^"(?P<healer>.+?)" triggered "healed" against "(?P<target>.+?)"(?:\s|$)`), buildHeal},
		{model.KindFired, regexp.MustCompile(`^"(?P<player>.+?)" triggered "shot_fired"`), buildFired},
		{model.KindHit, regexp.MustCompile(`^"(?P<player>.+?)" triggered "shot_hit"`), buildHit},
		{model.KindKill, regexp.MustCompile(`^"(?P<attacker>.+?)" killed "(?P<victim>.+?)" with "(?P<weapon>.+?)"`), buildKill},
		{model.KindChangeClass, regexp.MustCompile(`^"(?P<player>.+?)" changed role to "(?P<role>.+?)"`), buildChangeClass},
		{model.KindMedicDeath, regexp.MustCompile(`^"(?P<attacker>.+?)" triggered "medic_death" against "(?P<victim>.+?)"(?:\s|$)`), buildMedicDeath},
		{model.KindSay, regexp.MustCompile(`^"(?P<player>.+?)" say "(?P<message>.{1,160}?)"$`), buildSay(false)},
		{model.KindSay, regexp.MustCompile(`^"(?P<player>.+?)" say_team "(?P<message>.{1,160}?)"$`), buildSay(true)},
		{model.KindRoundStart, regexp.MustCompile(`^World triggered "Round_Start"`), marker(model.RoundStart{})},
		{model.KindGameOver, regexp.MustCompile(`^World triggered "Game_Over"`), marker(model.GameOver{})},
	}}
}

// ParseLine parses clause, the part of a log line after the timestamp.
// A clause that matches no rule returns a nil event and a nil error.
func (p *Parser) ParseLine(clause string, timestamp int64, resolver Resolver) (*model.Event, error) {
	for _, r := range p.rules {
		loc := r.head.FindStringSubmatchIndex(clause)
		if loc == nil {
			continue
		}

		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = clause[loc[2*i]:loc[2*i+1]]
			}
		}

		payload, err := r.build(match{re: r.head, groups: groups, resolver: resolver}, clause[loc[1]:])
		if err != nil {
			return nil, fmt.Errorf("%s rule: %w", r.kind, err)
		}
		return &model.Event{Timestamp: timestamp, Payload: payload}, nil
	}
	return nil, nil
}

// scan calls fn for every (key "value") property in rest, in order.
func scan(rest string, fn func(key, value string) error) error {
	for _, m := range properties.FindAllStringSubmatch(rest, -1) {
		if err := fn(m[1], m[2]); err != nil {
			return err
		}
	}
	return nil
}

// scanEach is scan for callbacks that cannot fail.
func scanEach(rest string, fn func(key, value string)) {
	for _, m := range properties.FindAllStringSubmatch(rest, -1) {
		fn(m[1], m[2])
	}
}

func parseAmount(key, value string) (uint32, error) {
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a count", ErrMalformedLine, key, value)
	}
	return uint32(n), nil
}

func buildDamage(m match, rest string) (model.Payload, error) {
	d := model.Damage{Weapon: UndefinedWeapon}
	var realDamage, nominal uint32
	err := scan(rest, func(key, value string) error {
		var err error
		switch key {
		case "realdamage":
			realDamage, err = parseAmount(key, value)
		case "damage":
			nominal, err = parseAmount(key, value)
		case "weapon":
			d.Weapon = value
		case "headshot":
			d.Headshot = value == "1"
		case "airshot":
			d.Airshot = value == "1"
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	d.Amount = nominal
	if realDamage > 0 {
		d.Amount = realDamage
	}

	if d.Attacker, d.Victim, err = m.pair("attacker", "victim"); err != nil {
		return nil, err
	}
	return d, nil
}

func buildHeal(m match, rest string) (model.Payload, error) {
	var h model.Heal
	err := scan(rest, func(key, value string) error {
		var err error
		if key == "healing" {
			h.Amount, err = parseAmount(key, value)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	if h.Healer, h.Target, err = m.pair("healer", "target"); err != nil {
		return nil, err
	}
	return h, nil
}

func weaponOf(rest string) string {
	weapon := UndefinedWeapon
	scanEach(rest, func(key, value string) {
		if key == "weapon" {
			weapon = value
		}
	})
	return weapon
}

func buildFired(m match, rest string) (model.Payload, error) {
	player, err := m.player("player")
	if err != nil {
		return nil, err
	}
	return model.Fired{Player: player, Weapon: weaponOf(rest)}, nil
}

func buildHit(m match, rest string) (model.Payload, error) {
	player, err := m.player("player")
	if err != nil {
		return nil, err
	}
	return model.Hit{Player: player, Weapon: weaponOf(rest)}, nil
}

func buildKill(m match, rest string) (model.Payload, error) {
	weapon, err := m.group("weapon")
	if err != nil {
		return nil, err
	}

	k := model.Kill{Weapon: weapon}
	scanEach(rest, func(key, value string) {
		if key != "customkill" {
			return
		}
		switch value {
		case "headshot":
			k.Headshot = true
		case "backstab":
			k.Backstab = true
		}
	})

	if k.Attacker, k.Victim, err = m.pair("attacker", "victim"); err != nil {
		return nil, err
	}
	return k, nil
}

func buildChangeClass(m match, _ string) (model.Payload, error) {
	role, err := m.group("role")
	if err != nil {
		return nil, err
	}
	player, err := m.player("player")
	if err != nil {
		return nil, err
	}
	return model.ChangeClass{Player: player, Class: model.ParseClass(role)}, nil
}

func buildMedicDeath(m match, rest string) (model.Payload, error) {
	var md model.MedicDeath
	scanEach(rest, func(key, value string) {
		if key == "ubercharge" {
			md.Drop = value == "1"
		}
	})

	var err error
	if md.Attacker, md.Victim, err = m.pair("attacker", "victim"); err != nil {
		return nil, err
	}
	return md, nil
}

func buildSay(team bool) func(match, string) (model.Payload, error) {
	return func(m match, _ string) (model.Payload, error) {
		player, err := m.player("player")
		if err != nil {
			return nil, err
		}
		text, err := m.group("message")
		if err != nil {
			return nil, err
		}
		return model.Say{Player: player, Text: text, Team: team}, nil
	}
}

func marker(p model.Payload) func(match, string) (model.Payload, error) {
	return func(match, string) (model.Payload, error) { return p, nil }
}
