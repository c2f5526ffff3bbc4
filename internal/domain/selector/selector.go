// Package selector picks the player a graph is requested for.
package selector

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/okian/loggraph/internal/domain/model"
)

// By names the field an Identifier matches on.
type By int

const (
	ByStableID By = iota
	ByAlias
)

func (b By) String() string {
	if b == ByAlias {
		return "alias"
	}
	return "stable_id"
}

// Identifier is a requested player.
type Identifier struct {
	By    By
	Value string
}

// StableID identifies a player by stable id, e.g. "[U:1:91618645]".
func StableID(id string) Identifier { return Identifier{By: ByStableID, Value: strings.TrimSpace(id)} }

// Alias identifies a player by display name.
func Alias(name string) Identifier { return Identifier{By: ByAlias, Value: name} }

// FromFlags prefers a stable id over an alias.
func FromFlags(stableID, alias string) (Identifier, error) {
	switch {
	case strings.TrimSpace(stableID) != "":
		return StableID(stableID), nil
	case alias != "":
		return Alias(alias), nil
	default:
		return Identifier{}, ErrNoIdentifier
	}
}

func (id Identifier) String() string {
	return id.By.String() + "=" + id.Value
}

// Matches reports whether p is the requested player. Aliases compare after
// NFC normalization so composed and decomposed spellings agree.
func (id Identifier) Matches(p model.Player) bool {
	if id.By == ByAlias {
		return norm.NFC.String(p.Name) == norm.NFC.String(id.Value)
	}
	return p.StableID == id.Value
}

// Find returns the first filtered view whose player matches id.
func Find(views []model.FilteredEvents, id Identifier) (model.FilteredEvents, error) {
	for _, v := range views {
		if id.Matches(v.Player) {
			return v, nil
		}
	}
	return model.FilteredEvents{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
}

// Sanitize turns an identifier value into a file name stem.
func Sanitize(value string) string {
	r := strings.NewReplacer(":", ".", "/", "_", `\`, "_")
	s := r.Replace(strings.TrimSpace(value))
	if s == "" || s == "." || s == ".." {
		return "_"
	}
	return s
}

// SplitList splits "a, b,c" into trimmed non-empty values.
func SplitList(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
