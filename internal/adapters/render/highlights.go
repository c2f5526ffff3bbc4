package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/okian/loggraph/internal/domain/timeline"
)

// Highlights writes the noteworthy moments as demo ticks:
//
//	Highlights:
//	0: tick=7000, 1: tick=9534
func Highlights(w io.Writer, moments []timeline.Moment) error {
	parts := make([]string, len(moments))
	for i, m := range moments {
		parts[i] = fmt.Sprintf("%d: tick=%d", m.Index, m.Tick)
	}
	if _, err := fmt.Fprintf(w, "Highlights:\n%s\n", strings.Join(parts, ", ")); err != nil {
		return fmt.Errorf("%w: highlights: %w", ErrWrite, err)
	}
	return nil
}
