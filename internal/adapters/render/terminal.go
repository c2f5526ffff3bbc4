package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/okian/loggraph/internal/domain/timeline"
)

var (
	titleStyle = lipgloss.NewStyle(). //nolint:gochecknoglobals // shared styles
			Bold(true).
			Foreground(lipgloss.Color(Background.Hex())).
			Background(lipgloss.Color(Foreground.Hex())).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle(). //nolint:gochecknoglobals // shared styles
			Foreground(lipgloss.Color(Foreground.Hex())).
			Width(12)

	momentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Kill.Hex())).Bold(true) //nolint:gochecknoglobals // shared styles
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ShotHit.Hex()))          //nolint:gochecknoglobals // shared styles

	panelStyle = lipgloss.NewStyle(). //nolint:gochecknoglobals // shared styles
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Damage.Hex())).
			Padding(0, 1)
)

// Terminal prints a short styled report of t for interactive use.
func Terminal(w io.Writer, t *timeline.Timeline) error {
	rows := []string{
		row("player", fmt.Sprintf("%s %s", t.Player.Name, mutedStyle.Render(t.Player.StableID))),
		row("team", t.Player.Team.String()),
		row("span", fmt.Sprintf("%ds in %d groups", t.Duration(), len(t.Groups))),
		row("score", fmt.Sprintf("total %.0f, peak %.0f", t.TotalScore(), t.PeakScore())),
		row("scale", fmt.Sprintf("%.2f", t.Scale)),
	}

	if len(t.Noteworthy) == 0 {
		rows = append(rows, row("highlights", mutedStyle.Render("none")))
	} else {
		var ticks []string
		for _, m := range t.Noteworthy {
			ticks = append(ticks, momentStyle.Render(fmt.Sprintf("#%d", m.Index))+fmt.Sprintf(" tick %d (%.0f)", m.Tick, m.Score))
		}
		rows = append(rows, row("highlights", strings.Join(ticks, "\n")))
	}

	out := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("batching %ds", t.Batching)),
		panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)),
	)
	if _, err := fmt.Fprintln(w, out); err != nil {
		return fmt.Errorf("%w: terminal: %w", ErrWrite, err)
	}
	return nil
}

// PlayerRow is one line of the players listing.
type PlayerRow struct {
	Index      int
	Name       string
	StableID   string
	Team       string
	Events     int
	TotalScore float32
	Noteworthy int
	Degenerate bool
}

// Players prints the registry listing.
func Players(w io.Writer, rows []PlayerRow) error {
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Foreground.Hex()))
	cell := func(width int) lipgloss.Style { return lipgloss.NewStyle().Width(width) }

	lines := []string{lipgloss.JoinHorizontal(lipgloss.Top,
		header.Width(4).Render("#"),
		header.Width(24).Render("name"),
		header.Width(20).Render("stable id"),
		header.Width(6).Render("team"),
		header.Width(8).Render("events"),
		header.Width(8).Render("score"),
		header.Render("moments"),
	)}
	for _, r := range rows {
		score := fmt.Sprintf("%.0f", r.TotalScore)
		if r.Degenerate {
			score = mutedStyle.Render("-")
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			cell(4).Render(fmt.Sprintf("%d", r.Index)),
			cell(24).Render(r.Name),
			cell(20).Render(r.StableID),
			cell(6).Render(r.Team),
			cell(8).Render(fmt.Sprintf("%d", r.Events)),
			cell(8).Render(score),
			momentStyle.Render(fmt.Sprintf("%d", r.Noteworthy)),
		))
	}
	if _, err := fmt.Fprintln(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("%w: players: %w", ErrWrite, err)
	}
	return nil
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}
