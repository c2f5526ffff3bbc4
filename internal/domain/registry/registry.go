// Package registry resolves raw player identifiers to stable registry indices.
package registry

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/okian/loggraph/internal/domain/model"
)

// playerPattern extracts name, stable id and team from "name<slot><id><team>".
var playerPattern = regexp.MustCompile( //nolint:gochecknoglobals // compiled once
	`^(?P<name>.{1,80}?)<\d{1,4}><(?P<steamid>.{1,40})><(?P<team>Red|Blue|Spectator|Console|unknown)>`)

// Registry is the append-only ordered set of players seen in a log.
// A player's index is its identity everywhere downstream.
//
// Registry is not safe for concurrent mutation; it is filled by a single
// sequential read and only read afterwards.
type Registry struct {
	players []model.Player
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{}
}

// ResolveOrCreate returns the index of the player whose stable id occurs in
// raw, registering a new player when none does.
func (r *Registry) ResolveOrCreate(raw string) (int, error) {
	for i := range r.players {
		if strings.Contains(raw, r.players[i].StableID) {
			return i, nil
		}
	}

	m := playerPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrIdentity, raw)
	}

	r.players = append(r.players, model.Player{
		Name:     m[playerPattern.SubexpIndex("name")],
		StableID: m[playerPattern.SubexpIndex("steamid")],
		Team:     model.ParseTeam(m[playerPattern.SubexpIndex("team")]),
	})
	return len(r.players) - 1, nil
}

// Lookup returns the player at index.
func (r *Registry) Lookup(index int) (model.Player, bool) {
	if index < 0 || index >= len(r.players) {
		return model.Player{}, false
	}
	return r.players[index], true
}

// Len returns the number of registered players.
func (r *Registry) Len() int {
	return len(r.players)
}

// Players returns a copy of the registered players in insertion order.
func (r *Registry) Players() []model.Player {
	out := make([]model.Player, len(r.players))
	copy(out, r.players)
	return out
}
