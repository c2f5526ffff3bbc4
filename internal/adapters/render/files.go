package render

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/okian/loggraph/internal/domain/timeline"
)

// Written lists the files produced for one timeline.
type Written struct {
	SVG        string
	Highlights string
	JSON       string
}

// WriteFiles writes <base>.svg, <base>.txt and <base>.json into dir.
func WriteFiles(dir, base string, c Canvas, t *timeline.Timeline) (Written, error) {
	out := Written{
		SVG:        filepath.Join(dir, base+".svg"),
		Highlights: filepath.Join(dir, base+".txt"),
		JSON:       filepath.Join(dir, base+".json"),
	}

	var buf bytes.Buffer
	if err := SVG(&buf, c, t); err != nil {
		return Written{}, err
	}
	if err := writeFile(out.SVG, &buf); err != nil {
		return Written{}, err
	}

	buf.Reset()
	if err := Highlights(&buf, t.Noteworthy); err != nil {
		return Written{}, err
	}
	if err := writeFile(out.Highlights, &buf); err != nil {
		return Written{}, err
	}

	buf.Reset()
	if err := JSON(&buf, NewSummary(t)); err != nil {
		return Written{}, err
	}
	if err := writeFile(out.JSON, &buf); err != nil {
		return Written{}, err
	}
	return out, nil
}

func writeFile(path string, buf *bytes.Buffer) error {
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // output artefacts are world readable
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Extensions lists the suffixes WriteFiles produces.
var Extensions = []string{".svg", ".txt", ".json"} //nolint:gochecknoglobals // fixed artefact set

// PrepareDir creates dir and removes earlier artefacts for bases from it.
// Other files in dir are left alone.
func PrepareDir(dir string, bases ...string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrWrite, dir, err)
	}
	for _, base := range bases {
		for _, ext := range Extensions {
			path := filepath.Join(dir, base+ext)
			if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("%w: clear %s: %w", ErrWrite, path, err)
			}
		}
	}
	return nil
}
