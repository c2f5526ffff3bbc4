// Package logreader drives the grammar over every line of a match log and
// produces the frozen player registry and chronological event sequence.
package logreader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/okian/loggraph/internal/domain/grammar"
	"github.com/okian/loggraph/internal/domain/model"
	"github.com/okian/loggraph/internal/domain/registry"
	"github.com/okian/loggraph/pkg/logger"
	"github.com/okian/loggraph/pkg/metrics"
)

const (
	// TimestampLayout is the date format at line[2:23], e.g. "10/07/2021 - 20:15:44".
	TimestampLayout = "01/02/2006 - 15:04:05"

	timestampStart = 2
	timestampEnd   = 23
	clauseStart    = 25

	defaultMaxLine = 1 << 20
	cancelCheck    = 1024
)

// Log is the result of reading a full match log. It is not modified after
// Read returns and may be shared between goroutines.
type Log struct {
	Players []model.Player
	Events  []model.Event
}

// Reader parses whole logs.
type Reader struct {
	parser  *grammar.Parser
	log     logger.Logger
	maxLine int
}

// New creates a Reader.
func New(opts ...Option) *Reader {
	r := &Reader{
		parser:  grammar.New(),
		maxLine: defaultMaxLine,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Get().Named("logreader")
	}
	return r
}

// Read parses lines in order. Any malformed line aborts the read.
func (r *Reader) Read(ctx context.Context, lines []string) (*Log, error) {
	i := 0
	return r.read(ctx, func() (string, bool) {
		if i >= len(lines) {
			return "", false
		}
		i++
		return lines[i-1], true
	}, func() error { return nil })
}

// ReadFrom streams lines from src.
func (r *Reader) ReadFrom(ctx context.Context, src io.Reader) (*Log, error) {
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 0, 64*1024), r.maxLine)
	return r.read(ctx, func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		return sc.Text(), true
	}, sc.Err)
}

func (r *Reader) read(ctx context.Context, next func() (string, bool), done func() error) (*Log, error) {
	start := time.Now()
	reg := registry.New()
	var events []model.Event
	var lineNo, skipped int

	for {
		line, ok := next()
		if !ok {
			break
		}
		lineNo++

		if (lineNo-1)%cancelCheck == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		ev, err := r.parseLine(line, reg)
		if err != nil {
			metrics.RecordParseFailure(failureReason(err))
			r.log.Error(ctx, "log read aborted", logger.Int("line", lineNo), logger.Error(err))
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if ev == nil {
			skipped++
			metrics.RecordLineSkipped()
			continue
		}
		metrics.RecordLineParsed(ev.Kind().String())
		events = append(events, *ev)
	}
	if err := done(); err != nil {
		return nil, fmt.Errorf("scan log: %w", err)
	}

	elapsed := time.Since(start)
	metrics.RecordParseDuration(float64(elapsed.Microseconds()) / 1000)
	metrics.UpdatePlayersRegistered(reg.Len())
	r.log.Info(ctx, "processed log",
		logger.Int("lines", lineNo),
		logger.Int("events", len(events)),
		logger.Int("skipped", skipped),
		logger.Int("players", reg.Len()),
		logger.Duration("took", elapsed),
	)

	return &Log{Players: reg.Players(), Events: events}, nil
}

func (r *Reader) parseLine(line string, reg *registry.Registry) (*model.Event, error) {
	if len(line) < clauseStart {
		return nil, fmt.Errorf("%w: line too short", ErrMalformedTimestamp)
	}
	ts, err := ParseTimestamp(line[timestampStart:timestampEnd])
	if err != nil {
		return nil, err
	}
	return r.parser.ParseLine(line[clauseStart:], ts, reg)
}

// ParseTimestamp converts the fixed-width date slice of a line to epoch seconds (UTC).
func ParseTimestamp(s string) (int64, error) {
	t, err := time.ParseInLocation(TimestampLayout, s, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}
	return t.Unix(), nil
}

// FormatTimestamp renders epoch seconds the way log lines carry them.
func FormatTimestamp(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(TimestampLayout)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrMalformedTimestamp):
		return "timestamp"
	case errors.Is(err, registry.ErrIdentity):
		return "identity"
	case errors.Is(err, grammar.ErrMalformedLine):
		return "line"
	default:
		return "other"
	}
}
