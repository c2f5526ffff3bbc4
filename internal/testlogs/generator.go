package testlogs

import (
	"fmt"
	"math/rand/v2"
)

var roles = []string{"scout", "scout", "soldier", "soldier", "demoman", "medic"} //nolint:gochecknoglobals // sixes lineup

var weapons = map[string][]string{ //nolint:gochecknoglobals // per-role loadouts
	"scout":   {"scattergun", "pistol_scout"},
	"soldier": {"quake_rl", "shotgun_soldier"},
	"demoman": {"tf_projectile_pipe", "tf_projectile_pipe_remote"},
	"medic":   {"crusader_crossbow", "ubersaw"},
}

// Generate builds a deterministic match log from cfg.
func Generate(cfg *Config) []string {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	b := NewBuilder(cfg.Base)

	count := max(cfg.Players, 2)
	players := make([]Player, count)
	role := make([]string, count)
	for i := range players {
		team := "Red"
		if i%2 == 1 {
			team = "Blue"
		}
		players[i] = NewPlayer(i, team)
		role[i] = roles[(i/2)%len(roles)]
	}

	b.At(0).Raw(`Log file started (file "logs/L1007000.log") (game "/home/tf2/tf") (version "7370160")`)
	for i, p := range players {
		b.At(int64(i%5)).ChangeRole(p, role[i])
	}

	clock := int64(10)
	for round := 0; round < cfg.Rounds; round++ {
		b.At(clock).RoundStart()
		end := clock + int64(cfg.RoundSeconds)
		for clock < end {
			clock++
			b.At(clock)
			for n := rng.IntN(4); n > 0; n-- {
				emit(b, rng, players, role)
			}
		}
		b.Raw(fmt.Sprintf(`World triggered "Round_Win" (winner "%s")`, []string{"Red", "Blue"}[round%2]))
		clock += 15
	}
	b.At(clock).GameOver()
	b.Raw(`Log file closed.`)

	return b.Lines()
}

func emit(b *Builder, rng *rand.Rand, players []Player, role []string) {
	i := rng.IntN(len(players))
	j := (i + 1 + 2*rng.IntN(len(players)/2)) % len(players)
	if j%2 == i%2 {
		j = (j + 1) % len(players)
	}
	me, them := players[i], players[j]
	loadout := weapons[role[i]]
	weapon := loadout[rng.IntN(len(loadout))]

	switch roll := rng.IntN(100); {
	case roll < 30:
		b.Fired(me, weapon)
		if rng.IntN(2) == 0 {
			b.Hit(me, weapon)
		}
	case roll < 65:
		extra := []Prop{P("weapon", weapon)}
		if rng.IntN(20) == 0 {
			extra = append(extra, P("airshot", "1"))
		}
		b.Damage(me, them, 10+rng.IntN(110), extra...)
	case roll < 80:
		if role[i] == "medic" {
			mate := players[(i+2)%len(players)]
			b.Heal(me, mate, 20+rng.IntN(60))
		} else {
			b.Fired(me, weapon)
		}
	case roll < 93:
		if role[j] == "medic" {
			b.MedicDeath(me, them, rng.IntN(4) == 0)
		}
		b.Kill(me, them, weapon)
	default:
		b.Say(me, []string{"gg", "nice", "uber up", "push"}[rng.IntN(4)])
	}
}
