package registry_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/okian/loggraph/internal/domain/model"
	"github.com/okian/loggraph/internal/domain/registry"
	. "github.com/smartystreets/goconvey/convey"
	"pgregory.net/rapid"
)

func TestResolveOrCreate(t *testing.T) {
	Convey("Given an empty registry", t, func() {
		r := registry.New()

		Convey("When resolving two distinct players", func() {
			a, errA := r.ResolveOrCreate("Sexy Turtle<17><[U:1:296600241]><Red>")
			b, errB := r.ResolveOrCreate("calski<26><[U:1:98109542]><Blue>")

			Convey("Then they get consecutive indices", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(a, ShouldEqual, 0)
				So(b, ShouldEqual, 1)
				So(r.Len(), ShouldEqual, 2)
			})

			Convey("Then name, id and team are extracted", func() {
				p, ok := r.Lookup(1)
				So(ok, ShouldBeTrue)
				So(p, ShouldResemble, model.Player{Name: "calski", StableID: "[U:1:98109542]", Team: model.TeamBlu})
			})

			Convey("Then a changed slot and team still resolve to the same index", func() {
				again, err := r.ResolveOrCreate("Sexy Turtle<3><[U:1:296600241]><Blue>")
				So(err, ShouldBeNil)
				So(again, ShouldEqual, 0)
				So(r.Len(), ShouldEqual, 2)
			})
		})

		Convey("When the identifier has no delimiters", func() {
			_, err := r.ResolveOrCreate("just a name")

			Convey("Then an identity error is returned", func() {
				So(errors.Is(err, registry.ErrIdentity), ShouldBeTrue)
				So(r.Len(), ShouldEqual, 0)
			})
		})

		Convey("When Players is modified by the caller", func() {
			_, _ = r.ResolveOrCreate("a<1><[U:1:1]><Red>")
			players := r.Players()
			players[0].Name = "changed"

			Convey("Then the registry is unaffected", func() {
				p, _ := r.Lookup(0)
				So(p.Name, ShouldEqual, "a")
			})
		})

		Convey("When looking up out of range", func() {
			_, ok := r.Lookup(5)

			Convey("Then nothing is found", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestIdentityStability(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		// fixed-width ids are never substrings of one another
		n := rapid.IntRange(1, 30).Draw(t, "players")
		order := rapid.SliceOfN(rapid.IntRange(0, n-1), 1, 200).Draw(t, "order")

		r := registry.New()
		seen := map[int]int{}
		for _, id := range order {
			raw := fmt.Sprintf("player%d<%d><[U:1:%06d]><Red>", id, len(seen)+1, id+100000)
			idx, err := r.ResolveOrCreate(raw)
			if err != nil {
				t.Fatalf("resolve %q: %v", raw, err)
			}
			if prev, ok := seen[id]; ok && prev != idx {
				t.Fatalf("id %d resolved to %d then %d", id, prev, idx)
			}
			seen[id] = idx
		}

		indices := map[int]bool{}
		for _, idx := range seen {
			if indices[idx] {
				t.Fatalf("two ids share index %d", idx)
			}
			indices[idx] = true
		}
		if r.Len() != len(seen) {
			t.Fatalf("registry holds %d players, want %d", r.Len(), len(seen))
		}
	})
}
