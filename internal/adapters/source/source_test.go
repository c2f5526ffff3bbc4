package source_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/loggraph/internal/adapters/source"
	. "github.com/smartystreets/goconvey/convey"
)

const sample = "L 10/07/2021 - 20:00:00: World triggered \"Round_Start\"\n" +
	"L 10/07/2021 - 20:00:05: World triggered \"Game_Over\" reason \"Reached Time Limit\"\n"

func zipped(t *testing.T, name, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFile(t *testing.T) {
	Convey("Given a log file on disk", t, func() {
		path := filepath.Join(t.TempDir(), "match.log")
		So(os.WriteFile(path, []byte(sample), 0o600), ShouldBeNil)

		Convey("When reading its lines", func() {
			lines, err := source.File{Path: path}.Lines(context.Background())

			Convey("Then every line is returned in order", func() {
				So(err, ShouldBeNil)
				So(lines, ShouldHaveLength, 2)
				So(lines[0], ShouldContainSubstring, "Round_Start")
			})
		})

		Convey("When the file does not exist", func() {
			_, err := source.File{Path: path + ".missing"}.Lines(context.Background())

			Convey("Then ErrOpen is returned", func() {
				So(errors.Is(err, source.ErrOpen), ShouldBeTrue)
			})
		})
	})
}

func TestReader(t *testing.T) {
	Convey("Given an open stream", t, func() {
		lines, err := source.Reader{Label: "stdin", R: strings.NewReader(sample)}.Lines(context.Background())

		Convey("Then its lines are returned", func() {
			So(err, ShouldBeNil)
			So(lines, ShouldHaveLength, 2)
		})
	})
}

func TestDownload(t *testing.T) {
	Convey("Given a logs.tf compatible server", t, func() {
		archive := zipped(t, "log_3063012.log", sample)
		wrongEntry := zipped(t, "other.log", sample)

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/logs/log_3063012.log.zip":
				_, _ = w.Write(archive)
			case "/logs/log_7.log.zip":
				_, _ = w.Write(wrongEntry)
			case "/logs/log_8.log.zip":
				_, _ = w.Write([]byte("not a zip"))
			default:
				http.NotFound(w, r)
			}
		}))
		defer srv.Close()

		dl := func(id string) source.Download {
			return source.Download{BaseURL: srv.URL + "/logs/", LogID: id, Client: srv.Client()}
		}

		Convey("When the archive exists", func() {
			lines, err := dl("3063012").Lines(context.Background())

			Convey("Then the entry lines are returned", func() {
				So(err, ShouldBeNil)
				So(lines, ShouldHaveLength, 2)
				So(dl("3063012").URL(), ShouldEqual, srv.URL+"/logs/log_3063012.log.zip")
			})
		})

		Convey("When the server answers 404", func() {
			_, err := dl("1").Lines(context.Background())

			Convey("Then ErrFetch is returned", func() {
				So(errors.Is(err, source.ErrFetch), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "404")
			})
		})

		Convey("When the archive lacks the expected entry", func() {
			_, err := dl("7").Lines(context.Background())

			Convey("Then ErrArchive is returned", func() {
				So(errors.Is(err, source.ErrArchive), ShouldBeTrue)
			})
		})

		Convey("When the body is not a zip", func() {
			_, err := dl("8").Lines(context.Background())

			Convey("Then ErrArchive is returned", func() {
				So(errors.Is(err, source.ErrArchive), ShouldBeTrue)
			})
		})

		Convey("When no id is given", func() {
			_, err := dl("").Lines(context.Background())

			Convey("Then ErrFetch is returned without a request", func() {
				So(errors.Is(err, source.ErrFetch), ShouldBeTrue)
			})
		})
	})
}
