package render

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/okian/loggraph/internal/domain/timeline"
)

const (
	capHalfWidth  = 3
	labelFromBase = 20
)

// Canvas is the drawing surface: the timeline layout plus the legend strip
// below it.
type Canvas struct {
	Layout   timeline.Layout
	KeySpace float32
}

// DefaultCanvas matches timeline.DefaultLayout on a 1280x720 image.
func DefaultCanvas() Canvas {
	return Canvas{Layout: timeline.DefaultLayout(), KeySpace: 70}
}

// RealHeight is the full image height.
func (c Canvas) RealHeight() float32 {
	return c.Layout.Height + c.KeySpace
}

// SVG draws t onto w.
func SVG(w io.Writer, c Canvas, t *timeline.Timeline) error {
	bw := bufio.NewWriter(w)
	p := &svgPrinter{w: bw}

	width, height := c.Layout.Width, c.RealHeight()
	base := c.Layout.Height / 2

	p.printf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(width), num(height), num(width), num(height))
	p.printf(`<rect width="100%%" height="100%%" fill="%s"/>`+"\n", Background.Hex())
	p.printf(`<g font-family="monospace" font-size="12" fill="%s">`+"\n", Foreground.Hex())

	for _, s := range t.Scaled() {
		colour := Colour(s.Category).Hex()
		p.line(s.X, base-s.FromY, s.X, base-s.ToY, colour, 1)
		if s.Capped {
			p.line(s.X-capHalfWidth, base-s.ToY, s.X+capHalfWidth, base-s.ToY, colour, 1)
		}
	}

	for _, m := range t.Noteworthy {
		p.text(m.X, c.Layout.Height-labelFromBase, fmt.Sprintf("%d", m.Index), "middle")
	}

	p.line(c.Layout.LineStart(), base, c.Layout.LineEnd(), base, Foreground.Hex(), 2)

	for i, cat := range legend {
		y := height - 10 - float32(i)*10
		p.line(20, y, 60, y, Colour(cat).Hex(), 1)
		p.text(70, height-5-float32(i)*10, cat.String(), "start")
	}

	p.text(300, height-10, Caption(t), "start")
	p.printf("</g>\n</svg>\n")

	if p.err != nil {
		return fmt.Errorf("%w: svg: %w", ErrWrite, p.err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: svg: %w", ErrWrite, err)
	}
	return nil
}

// Caption is the line printed under the legend.
func Caption(t *timeline.Timeline) string {
	return fmt.Sprintf("Player: %s, batching: %ds, scale: %.2f", t.Player.Name, t.Batching, t.Scale)
}

type svgPrinter struct {
	w   io.Writer
	err error
}

func (p *svgPrinter) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *svgPrinter) line(x1, y1, x2, y2 float32, stroke string, width int) {
	p.printf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%d"/>`+"\n",
		num(x1), num(y1), num(x2), num(y2), stroke, width)
}

func (p *svgPrinter) text(x, y float32, s, anchor string) {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	p.printf(`<text x="%s" y="%s" text-anchor="%s">%s</text>`+"\n", num(x), num(y), anchor, sb.String())
}

// num prints coordinates with at most two decimals and no trailing zeros.
func num(v float32) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
