// Package filter extracts the events relevant to one player from a match.
package filter

import (
	"github.com/okian/loggraph/internal/domain/logreader"
	"github.com/okian/loggraph/internal/domain/model"
)

// ForPlayer returns the events concerning the player at index, starting at
// the first RoundStart. The RoundStart itself is always kept as the timeline
// anchor. Scanning stops at GameOver. Without a RoundStart the result holds
// no events.
func ForPlayer(events []model.Event, index int, player model.Player) model.FilteredEvents {
	out := model.FilteredEvents{Player: player, Index: index}

	start := -1
	for i := range events {
		if events[i].Kind() == model.KindRoundStart {
			start = i
			break
		}
	}
	if start < 0 {
		return out
	}

	out.Events = append(out.Events, events[start])
	for i := start + 1; i < len(events); i++ {
		ev := events[i]
		if ev.Kind() == model.KindGameOver {
			break
		}

		var next *model.Event
		if i+1 < len(events) {
			next = &events[i+1]
		}
		if relevant(ev, next, index) {
			out.Events = append(out.Events, ev)
		}
	}
	return out
}

func relevant(ev model.Event, next *model.Event, index int) bool {
	switch p := ev.Payload.(type) {
	case model.Damage:
		return p.Attacker == index || p.Victim == index
	case model.Fired:
		if p.Player != index {
			return false
		}
		if next == nil {
			return true
		}
		// a shot that lands is booked once, as the Hit
		hit, ok := next.Payload.(model.Hit)
		return !ok || hit.Player != index
	case model.Hit:
		return p.Player == index
	case model.Kill:
		return p.Attacker == index || p.Victim == index
	case model.MedicDeath:
		return p.Attacker == index
	case model.Heal:
		return p.Healer == index || p.Target == index
	default:
		return false
	}
}

// All filters log once per registered player, in registry order.
func All(log *logreader.Log) []model.FilteredEvents {
	out := make([]model.FilteredEvents, len(log.Players))
	for i, p := range log.Players {
		out[i] = ForPlayer(log.Events, i, p)
	}
	return out
}
