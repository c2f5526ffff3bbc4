package testlogs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/loggraph/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.InitWithWriter(io.Discard); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestBuilder(t *testing.T) {
	Convey("Given a builder at the default base", t, func() {
		b := NewBuilder(DefaultBase)
		a := NewPlayer(0, "Red")
		v := NewPlayer(1, "Blue")

		Convey("When appending a damage line", func() {
			b.At(3).Damage(a, v, 50, P("weapon", "shotgun"), P("headshot", "1"))
			lines := b.Lines()

			Convey("Then it carries the fixed-width timestamp and the clause", func() {
				So(lines, ShouldHaveLength, 1)
				So(lines[0], ShouldEqual,
					`L 10/07/2021 - 20:00:03: "player00<1><[U:1:100000]><Red>" triggered "damage" against "player01<2><[U:1:100001]><Blue>" (damage "50") (weapon "shotgun") (headshot "1")`)
				So(lines[0][2:23], ShouldEqual, "10/07/2021 - 20:00:03")
				So(b.Timestamp(3), ShouldEqual, DefaultBase.Unix()+3)
			})
		})

		Convey("When rendering as a file body", func() {
			b.RoundStart().GameOver()

			Convey("Then each line ends with a newline", func() {
				So(b.String(), ShouldEndWith, "\n")
				So(strings.Count(b.String(), "\n"), ShouldEqual, 2)
			})
		})
	})
}

func TestGenerate(t *testing.T) {
	Convey("Given the default generator config", t, func() {
		cfg := DefaultConfig()

		Convey("When generating twice with the same seed", func() {
			first := Generate(cfg)
			second := Generate(cfg)

			Convey("Then the logs are identical", func() {
				So(first, ShouldResemble, second)
				So(len(first), ShouldBeGreaterThan, 100)
			})

			Convey("Then the log has round markers and ends the game", func() {
				joined := strings.Join(first, "\n")
				So(strings.Count(joined, `World triggered "Round_Start"`), ShouldEqual, cfg.Rounds)
				So(joined, ShouldContainSubstring, `World triggered "Game_Over"`)
			})
		})

		Convey("When the seed changes", func() {
			other := *cfg
			other.Seed = 99

			Convey("Then the log differs", func() {
				So(Generate(&other), ShouldNotResemble, Generate(cfg))
			})
		})
	})
}

func TestVerifyLeaders(t *testing.T) {
	Convey("Given leaderboard rows", t, func() {
		Convey("When ranks are dense and ties share a rank", func() {
			err := verifyLeaders([]Leader{{Rank: 1, TotalScore: 900}, {Rank: 1, TotalScore: 900}, {Rank: 2, TotalScore: 10}})

			Convey("Then they verify", func() {
				So(err, ShouldBeNil)
			})
		})

		Convey("When a tie is given separate ranks", func() {
			err := verifyLeaders([]Leader{{Rank: 1, TotalScore: 900}, {Rank: 2, TotalScore: 900}})

			Convey("Then verification fails", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When a later row scores higher", func() {
			err := verifyLeaders([]Leader{{Rank: 1, TotalScore: 5}, {Rank: 2, TotalScore: 6}})

			Convey("Then verification fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a fake serve-mode API", t, func() {
		var uploaded string
		mux := http.NewServeMux()
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
		mux.HandleFunc("/logs", func(w http.ResponseWriter, r *http.Request) {
			data, _ := io.ReadAll(r.Body)
			uploaded = string(data)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(UploadResponse{LogID: "abc", Players: 12})
		})
		mux.HandleFunc("/logs/abc/leaderboard", func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(leaderboardResponse{LogID: "abc", Entries: []Leader{
				{Rank: 1, StableID: "[U:1:100003]", TotalScore: 1200},
				{Rank: 2, StableID: "[U:1:100000]", TotalScore: 800},
			}})
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		cfg := DefaultConfig()
		cfg.BaseURL = srv.URL
		cfg.OutputFile = filepath.Join(t.TempDir(), "gen", "match.log")

		Convey("When running", func() {
			stats, err := Run(context.Background(), cfg)

			Convey("Then the log is written, uploaded and the leaders are kept", func() {
				So(err, ShouldBeNil)
				So(stats.LogID, ShouldEqual, "abc")
				So(stats.Leaders, ShouldHaveLength, 2)
				written, readErr := os.ReadFile(cfg.OutputFile)
				So(readErr, ShouldBeNil)
				So(string(written), ShouldEqual, uploaded)
				So(strings.Count(uploaded, "\n"), ShouldEqual, stats.Lines)
			})
		})
	})
}
