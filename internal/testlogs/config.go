package testlogs

import "time"

// Config holds configuration for a generated log and an optional upload run.
type Config struct {
	Seed         uint64        // generator seed; equal seeds give equal logs
	Players      int           // participants, split evenly between Red and Blue
	Rounds       int           // rounds in the match
	RoundSeconds int           // length of each round
	Base         time.Time     // wall clock of the first line
	OutputFile   string        // where to write the log; empty skips writing
	BaseURL      string        // serve-mode URL to upload to; empty skips the upload
	TopN         int           // leaderboard entries to fetch after upload
	Timeout      time.Duration // HTTP request timeout
}

// DefaultConfig returns a small six-versus-six match.
func DefaultConfig() *Config {
	return &Config{
		Seed:         1,
		Players:      12,
		Rounds:       3,
		RoundSeconds: 120,
		Base:         DefaultBase,
		TopN:         5,
		Timeout:      30 * time.Second,
	}
}

// Stats summarizes a run.
type Stats struct {
	Lines     int
	LogID     string
	Duplicate bool
	Leaders   []Leader
	StartTime time.Time
	Duration  time.Duration
}
