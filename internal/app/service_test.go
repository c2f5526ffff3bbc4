package service_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/okian/loggraph/internal/adapters/repository"
	"github.com/okian/loggraph/internal/adapters/source"
	service "github.com/okian/loggraph/internal/app"
	"github.com/okian/loggraph/internal/domain/selector"
	"github.com/okian/loggraph/internal/domain/timeline"
	"github.com/okian/loggraph/internal/testlogs"
	"github.com/okian/loggraph/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.InitWithWriter(io.Discard); err != nil {
		panic(err)
	}
}

var (
	alpha = testlogs.NewPlayer(0, "Red")
	bravo = testlogs.NewPlayer(1, "Blue")
	idle  = testlogs.NewPlayer(2, "Red")
)

// matchLog: alpha lands a 270 point headshot-and-kill burst, bravo answers
// with 60 damage and a hit, idle never does anything after the round starts.
func matchLog() string {
	b := testlogs.NewBuilder(testlogs.DefaultBase)
	b.At(0).ChangeRole(alpha, "scout").ChangeRole(bravo, "soldier").ChangeRole(idle, "medic")
	b.At(10).RoundStart()
	b.At(20).Damage(alpha, bravo, 120, testlogs.P("headshot", "1"))
	b.At(21).Kill(alpha, bravo, "scattergun")
	b.At(40).Damage(bravo, alpha, 60)
	b.At(60).Hit(bravo, "quake_rl")
	b.At(70).GameOver()
	return b.String()
}

func analyze(t *testing.T, svc *service.Service) *service.Analysis {
	t.Helper()
	a, err := svc.Analyze(context.Background(), source.Reader{Label: "fixture", R: strings.NewReader(matchLog())})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	return a
}

func TestAnalyze(t *testing.T) {
	Convey("Given a service and a match log", t, func() {
		svc := service.New(service.WithWorkerCount(2))
		a := analyze(t, svc)

		Convey("Then every player is registered and filtered in order", func() {
			So(a.ID, ShouldNotBeEmpty)
			So(a.Log.Players, ShouldHaveLength, 3)
			So(a.Filtered, ShouldHaveLength, 3)
			So(a.Filtered[0].Player.StableID, ShouldEqual, alpha.SteamID)
			So(a.Filtered[2].Events, ShouldHaveLength, 1)
		})

		Convey("Then the analysis can be looked up by id", func() {
			got, err := svc.Lookup(a.ID)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, a)

			_, err = svc.Lookup("missing")
			So(errors.Is(err, service.ErrUnknownLog), ShouldBeTrue)
		})
	})
}

func TestGraph(t *testing.T) {
	Convey("Given an analyzed log", t, func() {
		svc := service.New()
		a := analyze(t, svc)
		ctx := context.Background()

		Convey("When graphing alpha by stable id", func() {
			g, err := svc.Graph(ctx, a, selector.StableID(alpha.SteamID), 10)

			Convey("Then the burst is one noteworthy moment", func() {
				So(err, ShouldBeNil)
				So(g.Timeline.TotalScore(), ShouldEqual, 270)
				So(g.Timeline.Noteworthy, ShouldHaveLength, 1)
				// round start at 10, pre-roll 5, burst anchored at 20
				So(g.Timeline.Noteworthy[0].Tick, ShouldEqual, 1000)
			})

			Convey("Then the result store is left untouched", func() {
				_, err := svc.Store().Get(ctx, a.ID, alpha.SteamID)
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When graphing by alias", func() {
			g, err := svc.Graph(ctx, a, selector.Alias(bravo.Name), 10)

			Convey("Then bravo's own actions are scored", func() {
				So(err, ShouldBeNil)
				So(g.Timeline.TotalScore(), ShouldEqual, 80)
				So(g.Timeline.Noteworthy, ShouldBeEmpty)
			})
		})

		Convey("When the player is unknown", func() {
			_, err := svc.Graph(ctx, a, selector.StableID("[U:1:1]"), 10)

			Convey("Then the lookup fails", func() {
				So(errors.Is(err, selector.ErrPlayerNotFound), ShouldBeTrue)
			})
		})

		Convey("When the player has a single event", func() {
			_, err := svc.Graph(ctx, a, selector.StableID(idle.SteamID), 10)

			Convey("Then the timeline is degenerate", func() {
				So(errors.Is(err, timeline.ErrDegenerateTimeline), ShouldBeTrue)
			})
		})
	})
}

func TestBatch(t *testing.T) {
	Convey("Given an analyzed log and a batch of targets", t, func() {
		svc := service.New(service.WithWorkerCount(3), service.WithQueueSize(1))
		a := analyze(t, svc)

		var (
			mu       sync.Mutex
			accepted []string
		)
		sink := service.SinkFunc(func(_ context.Context, id selector.Identifier, g *service.Graph) error {
			mu.Lock()
			defer mu.Unlock()
			accepted = append(accepted, id.Value)
			return nil
		})

		ids := []selector.Identifier{
			selector.StableID(bravo.SteamID),
			selector.StableID("[U:1:1]"),
			selector.StableID(alpha.SteamID),
			selector.StableID(bravo.SteamID),
			selector.StableID(idle.SteamID),
		}

		Convey("When the batch runs", func() {
			out, err := svc.Batch(context.Background(), a, ids, 10, sink)

			Convey("Then duplicates run once and outcomes keep request order", func() {
				So(err, ShouldBeNil)
				So(out, ShouldHaveLength, 4)
				So(out[0].Identifier.Value, ShouldEqual, bravo.SteamID)
				So(out[2].Identifier.Value, ShouldEqual, alpha.SteamID)
			})

			Convey("Then failures are reported per target", func() {
				So(out[0].Err, ShouldBeNil)
				So(out[0].Graph, ShouldNotBeNil)
				So(errors.Is(out[1].Err, selector.ErrPlayerNotFound), ShouldBeTrue)
				So(out[2].Err, ShouldBeNil)
				So(errors.Is(out[3].Err, timeline.ErrDegenerateTimeline), ShouldBeTrue)
			})

			Convey("Then only built graphs reach the sink", func() {
				So(accepted, ShouldHaveLength, 2)
				So(accepted, ShouldContain, alpha.SteamID)
				So(accepted, ShouldContain, bravo.SteamID)
			})
		})

		Convey("When the sink fails", func() {
			failing := service.SinkFunc(func(context.Context, selector.Identifier, *service.Graph) error {
				return errors.New("disk full")
			})
			out, err := svc.Batch(context.Background(), a, ids[:1], 10, failing)

			Convey("Then the outcome carries the sink error", func() {
				So(err, ShouldBeNil)
				So(out[0].Err, ShouldNotBeNil)
				So(out[0].Err.Error(), ShouldContainSubstring, "disk full")
			})
		})

		Convey("When no targets are given", func() {
			_, err := svc.Batch(context.Background(), a, nil, 10, sink)

			Convey("Then ErrNoTargets is returned", func() {
				So(errors.Is(err, service.ErrNoTargets), ShouldBeTrue)
			})
		})
	})
}

func TestIngestAndLeaderboard(t *testing.T) {
	Convey("Given an uploaded log body", t, func() {
		svc := service.New()
		ctx := context.Background()
		body := []byte(matchLog())

		a, dup, err := svc.Ingest(ctx, "upload", body)

		Convey("Then it is analyzed and every player summarised", func() {
			So(err, ShouldBeNil)
			So(dup, ShouldBeFalse)
			n, err := svc.Store().Count(ctx, a.ID)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2)
		})

		Convey("Then the leaderboard ranks alpha first", func() {
			top, err := svc.Leaderboard(ctx, a.ID, 10)
			So(err, ShouldBeNil)
			So(top, ShouldHaveLength, 2)
			So(top[0].StableID, ShouldEqual, alpha.SteamID)
			So(top[0].Rank, ShouldEqual, 1)
			So(top[1].Rank, ShouldEqual, 2)
		})

		Convey("When a timeline is read at another batching window", func() {
			g, err := svc.Graph(ctx, a, selector.StableID(alpha.SteamID), 3)
			So(err, ShouldBeNil)
			So(g.Summary.Batching, ShouldEqual, 3)

			Convey("Then the stored summary keeps the default window", func() {
				stored, err := svc.Store().Get(ctx, a.ID, alpha.SteamID)
				So(err, ShouldBeNil)
				So(stored.Batching, ShouldEqual, 10)
				So(stored.TotalScore, ShouldEqual, 270)
			})
		})

		Convey("When the same body is uploaded again", func() {
			again, dup, err := svc.Ingest(ctx, "upload", body)

			Convey("Then the earlier analysis is returned", func() {
				So(err, ShouldBeNil)
				So(dup, ShouldBeTrue)
				So(again.ID, ShouldEqual, a.ID)
			})
		})

		Convey("When an empty body is uploaded", func() {
			_, _, err := svc.Ingest(ctx, "upload", []byte("  \n"))

			Convey("Then it is rejected", func() {
				So(errors.Is(err, service.ErrEmptyLog), ShouldBeTrue)
			})
		})

		Convey("When the leaderboard of an unknown log is requested", func() {
			_, err := svc.Leaderboard(ctx, "nope", 10)

			Convey("Then ErrUnknownLog is returned", func() {
				So(errors.Is(err, service.ErrUnknownLog), ShouldBeTrue)
			})
		})
	})
}

func TestAnalysisRetention(t *testing.T) {
	Convey("Given a service that remembers one log", t, func() {
		svc := service.New(service.WithDedupeSize(1))
		ctx := context.Background()
		body := []byte(matchLog())

		first, _, err := svc.Ingest(ctx, "upload", body)
		So(err, ShouldBeNil)
		second := analyze(t, svc)

		Convey("Then the older analysis is evicted", func() {
			_, err := svc.Lookup(first.ID)
			So(errors.Is(err, service.ErrUnknownLog), ShouldBeTrue)

			got, err := svc.Lookup(second.ID)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, second)
		})

		Convey("When the evicted body is uploaded again", func() {
			again, dup, err := svc.Ingest(ctx, "upload", body)

			Convey("Then it is analyzed afresh", func() {
				So(err, ShouldBeNil)
				So(dup, ShouldBeFalse)
				So(again.ID, ShouldNotEqual, first.ID)

				_, err := svc.Lookup(second.ID)
				So(errors.Is(err, service.ErrUnknownLog), ShouldBeTrue)
			})
		})
	})
}

func TestSummaries(t *testing.T) {
	Convey("Given an analyzed log", t, func() {
		svc := service.New(service.WithWorkerCount(2))
		a := analyze(t, svc)

		Convey("When summarising every player", func() {
			out, err := svc.Summaries(context.Background(), a, 10)

			Convey("Then results follow registry order and flag degenerate players", func() {
				So(err, ShouldBeNil)
				So(out, ShouldHaveLength, 3)
				So(out[0].Summary.StableID, ShouldEqual, alpha.SteamID)
				So(out[0].Degenerate, ShouldBeFalse)
				So(out[2].Degenerate, ShouldBeTrue)
				So(out[2].Events, ShouldEqual, 1)
			})
		})
	})
}
