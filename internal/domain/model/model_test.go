package model_test

import (
	"testing"

	model "github.com/okian/loggraph/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestTeam(t *testing.T) {
	convey.Convey("Given log team tokens", t, func() {
		convey.Convey("When parsing known tokens", func() {
			convey.Convey("Then Blue maps to Blu", func() {
				convey.So(model.ParseTeam("Red"), convey.ShouldEqual, model.TeamRed)
				convey.So(model.ParseTeam("Blue"), convey.ShouldEqual, model.TeamBlu)
				convey.So(model.ParseTeam("Spectator"), convey.ShouldEqual, model.TeamSpectator)
				convey.So(model.ParseTeam("Console"), convey.ShouldEqual, model.TeamConsole)
				convey.So(model.ParseTeam("unknown"), convey.ShouldEqual, model.TeamUnknown)
				convey.So(model.TeamBlu.String(), convey.ShouldEqual, "Blu")
			})
		})

		convey.Convey("When parsing garbage", func() {
			convey.Convey("Then the team is unknown", func() {
				convey.So(model.ParseTeam("Green"), convey.ShouldEqual, model.TeamUnknown)
				convey.So(model.TeamUnknown.String(), convey.ShouldEqual, "Unknown")
			})
		})
	})
}

func TestClass(t *testing.T) {
	convey.Convey("Given role tokens", t, func() {
		convey.Convey("When parsing each of the nine roles", func() {
			roles := []string{"scout", "soldier", "pyro", "demoman", "heavyweapons", "engineer", "medic", "sniper", "spy"}

			convey.Convey("Then every role round-trips through String", func() {
				for _, role := range roles {
					class := model.ParseClass(role)
					convey.So(class, convey.ShouldNotEqual, model.ClassUnknown)
					convey.So(class.String(), convey.ShouldEqual, role)
				}
			})
		})

		convey.Convey("When parsing an unknown role", func() {
			convey.Convey("Then it maps to ClassUnknown", func() {
				convey.So(model.ParseClass("civilian"), convey.ShouldEqual, model.ClassUnknown)
				convey.So(model.ClassUnknown.String(), convey.ShouldEqual, "unknown")
			})
		})
	})
}

func TestEventKind(t *testing.T) {
	convey.Convey("Given events of every variant", t, func() {
		cases := []struct {
			payload model.Payload
			kind    model.Kind
			name    string
		}{
			{model.Damage{}, model.KindDamage, "damage"},
			{model.Heal{}, model.KindHeal, "heal"},
			{model.Fired{}, model.KindFired, "shot_fired"},
			{model.Hit{}, model.KindHit, "shot_hit"},
			{model.Kill{}, model.KindKill, "kill"},
			{model.ChangeClass{}, model.KindChangeClass, "change_class"},
			{model.MedicDeath{}, model.KindMedicDeath, "medic_death"},
			{model.Say{}, model.KindSay, "say"},
			{model.RoundStart{}, model.KindRoundStart, "round_start"},
			{model.GameOver{}, model.KindGameOver, "game_over"},
		}

		convey.Convey("Then Kind reports the payload variant", func() {
			for _, tc := range cases {
				ev := model.Event{Timestamp: 1, Payload: tc.payload}
				convey.So(ev.Kind(), convey.ShouldEqual, tc.kind)
				convey.So(ev.Kind().String(), convey.ShouldEqual, tc.name)
			}
		})

		convey.Convey("Then an out of range kind is unknown", func() {
			convey.So(model.Kind(99).String(), convey.ShouldEqual, "unknown")
		})
	})
}
