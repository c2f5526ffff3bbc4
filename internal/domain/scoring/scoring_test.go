package scoring_test

import (
	"testing"

	"github.com/okian/loggraph/internal/domain/model"
	scoring "github.com/okian/loggraph/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func ev(p model.Payload) model.Event { return model.Event{Timestamp: 1, Payload: p} }

func total(cs []scoring.Contribution) (score float32) {
	for _, c := range cs {
		if c.Scored {
			score += c.Value
		}
	}
	return score
}

func TestContributions(t *testing.T) {
	Convey("Given the default value table", t, func() {
		table := scoring.New()

		Convey("When the player deals a headshot airshot", func() {
			cs := table.Contributions(ev(model.Damage{Attacker: 0, Victim: 1, Amount: 50, Headshot: true, Airshot: true}), 0)

			Convey("Then a base push is followed by two capped bonuses", func() {
				So(cs, ShouldResemble, []scoring.Contribution{
					{Stack: scoring.Positive, Value: 50, Category: scoring.CategoryDamage, Scored: true},
					{Stack: scoring.Positive, Value: 50, Capped: true, Category: scoring.CategoryHeadshot, Scored: true},
					{Stack: scoring.Positive, Value: 100, Capped: true, Category: scoring.CategoryAirshot, Scored: true},
				})
				So(total(cs), ShouldEqual, 200)
			})
		})

		Convey("When the player takes damage", func() {
			cs := table.Contributions(ev(model.Damage{Attacker: 1, Victim: 0, Amount: 40, Headshot: true}), 0)

			Convey("Then the negative stack grows and nothing is scored", func() {
				So(cs, ShouldResemble, []scoring.Contribution{{Stack: scoring.Negative, Value: 40, Category: scoring.CategoryDamage}})
				So(total(cs), ShouldEqual, 0)
			})
		})

		Convey("When the player heals and is healed", func() {
			given := table.Contributions(ev(model.Heal{Healer: 0, Target: 1, Amount: 30}), 0)
			taken := table.Contributions(ev(model.Heal{Healer: 1, Target: 0, Amount: 30}), 0)

			Convey("Then healing given scores and healing received does not", func() {
				So(given[0].Stack, ShouldEqual, scoring.Positive)
				So(taken[0].Stack, ShouldEqual, scoring.Negative)
				So(total(given), ShouldEqual, 30)
				So(total(taken), ShouldEqual, 0)
			})
		})

		Convey("When the player gets a backstab and a reflect kill", func() {
			stab := table.Contributions(ev(model.Kill{Attacker: 0, Victim: 1, Weapon: "knife", Backstab: true}), 0)
			reflect := table.Contributions(ev(model.Kill{Attacker: 0, Victim: 1, Weapon: "deflect_rocket"}), 0)

			Convey("Then the style bonus is pushed before the kill", func() {
				So(stab, ShouldHaveLength, 2)
				So(stab[0].Category, ShouldEqual, scoring.CategoryHeadshot)
				So(stab[0].Value, ShouldEqual, 70)
				So(stab[1].Category, ShouldEqual, scoring.CategoryKill)
				So(stab[1].Capped, ShouldBeTrue)
				So(total(reflect), ShouldEqual, 170)
			})
		})

		Convey("When the player gets a headshot kill or dies", func() {
			head := table.Contributions(ev(model.Kill{Attacker: 0, Victim: 1, Weapon: "sniperrifle", Headshot: true}), 0)
			death := table.Contributions(ev(model.Kill{Attacker: 1, Victim: 0, Weapon: "scattergun"}), 0)

			Convey("Then a headshot kill is a plain kill and a death is a capped negative", func() {
				So(head, ShouldHaveLength, 1)
				So(total(head), ShouldEqual, 100)
				So(death, ShouldResemble, []scoring.Contribution{{Stack: scoring.Negative, Value: 150, Capped: true, Category: scoring.CategoryDeath}})
			})
		})

		Convey("When medics die", func() {
			drop := table.Contributions(ev(model.MedicDeath{Attacker: 0, Victim: 1, Drop: true}), 0)
			plain := table.Contributions(ev(model.MedicDeath{Attacker: 0, Victim: 1, Drop: false}), 0)
			suffered := table.Contributions(ev(model.MedicDeath{Attacker: 1, Victim: 0, Drop: true}), 0)
			noDrop := table.Contributions(ev(model.MedicDeath{Attacker: 1, Victim: 0}), 0)

			Convey("Then a drop is worth 200 and a plain medic kill 100", func() {
				So(drop, ShouldResemble, []scoring.Contribution{{Stack: scoring.Positive, Value: 200, Capped: true, Category: scoring.CategoryMedicDrop, Scored: true}})
				So(plain, ShouldResemble, []scoring.Contribution{{Stack: scoring.Positive, Value: 100, Capped: true, Category: scoring.CategoryMedicKill, Scored: true}})
				So(suffered[0].Stack, ShouldEqual, scoring.Negative)
				So(suffered[0].Value, ShouldEqual, 200)
				So(noDrop, ShouldBeEmpty)
			})
		})

		Convey("When the event is a hit or something unscored", func() {
			hit := table.Contributions(ev(model.Hit{Player: 0}), 0)
			other := table.Contributions(ev(model.Hit{Player: 1}), 0)
			say := table.Contributions(ev(model.Say{Player: 0}), 0)

			Convey("Then only the player's hit counts", func() {
				So(total(hit), ShouldEqual, 20)
				So(other, ShouldBeEmpty)
				So(say, ShouldBeEmpty)
			})
		})
	})
}

func TestWithValues(t *testing.T) {
	Convey("Given overrides from configuration", t, func() {
		table := scoring.New(scoring.WithValues(map[string]float64{
			scoring.KeyKill:   120,
			scoring.KeyDamage: 2,
			"bogus":           5,
			scoring.KeyDeath:  -1,
		}))

		Convey("Then known positive keys replace defaults", func() {
			So(table.Value(scoring.KeyKill), ShouldEqual, 120)
			So(table.Value(scoring.KeyDamage), ShouldEqual, 2)
			So(table.Value(scoring.KeyDeath), ShouldEqual, scoring.DefaultDeathValue)
			So(table.Value("bogus"), ShouldEqual, 0)
		})

		Convey("Then multipliers scale amounts", func() {
			cs := table.Contributions(ev(model.Damage{Attacker: 0, Victim: 1, Amount: 10}), 0)
			So(cs[0].Value, ShouldEqual, 20)
		})
	})

	Convey("Given category names", t, func() {
		So(scoring.CategoryHeadshot.String(), ShouldEqual, "headshot/backstab/reflect")
		So(scoring.Category(42).String(), ShouldEqual, "unknown")
	})
}
