package testlogs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/loggraph/pkg/logger"
)

const (
	directoryPermission = 0o750
	filePermission      = 0o600
)

// Run generates a log, optionally writes it to disk and optionally uploads it
// to a serve-mode instance and checks the returned leaderboard.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("testlogs")

	lines := Generate(cfg)
	stats.Lines = len(lines)
	body := strings.Join(lines, "\n") + "\n"
	log.Info(ctx, "generated log",
		logger.Int("lines", stats.Lines),
		logger.Int("players", cfg.Players),
		logger.Int("rounds", cfg.Rounds),
		logger.Any("seed", cfg.Seed))

	if cfg.OutputFile != "" {
		if err := save(cfg.OutputFile, body); err != nil {
			return nil, err
		}
		log.Info(ctx, "log written", logger.String("file", cfg.OutputFile))
	}

	if cfg.BaseURL != "" {
		if err := upload(ctx, cfg, []byte(body), stats); err != nil {
			return nil, err
		}
	}

	stats.Duration = time.Since(stats.StartTime)
	return stats, nil
}

func save(path, body string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(body), filePermission); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func upload(ctx context.Context, cfg *Config, body []byte, stats *Stats) error {
	log := logger.Get().Named("testlogs")
	client := newHTTPClient(strings.TrimRight(cfg.BaseURL, "/"), cfg.Timeout)

	if err := client.Health(ctx); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	resp, err := client.Upload(ctx, body)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	stats.LogID = resp.LogID
	stats.Duplicate = resp.Duplicate
	log.Info(ctx, "log uploaded",
		logger.String("log_id", resp.LogID),
		logger.Bool("duplicate", resp.Duplicate),
		logger.Int("players", resp.Players))

	leaders, err := client.Leaderboard(ctx, resp.LogID, cfg.TopN)
	if err != nil {
		return fmt.Errorf("leaderboard retrieval failed: %w", err)
	}
	if err := verifyLeaders(leaders); err != nil {
		return err
	}
	stats.Leaders = leaders

	for _, l := range leaders {
		log.Info(ctx, "leader",
			logger.Int("rank", l.Rank),
			logger.String("stable_id", l.StableID),
			logger.Float64("score", l.TotalScore))
	}
	return nil
}

// verifyLeaders checks scores never increase and ranks are dense, with equal
// scores sharing a rank.
func verifyLeaders(leaders []Leader) error {
	for i, l := range leaders {
		if i == 0 {
			if l.Rank != 1 {
				return fmt.Errorf("first entry has rank %d", l.Rank)
			}
			continue
		}
		prev := leaders[i-1]
		if l.TotalScore > prev.TotalScore {
			return fmt.Errorf("rank %d scores %.1f above rank %d", l.Rank, l.TotalScore, prev.Rank)
		}
		want := prev.Rank + 1
		if l.TotalScore == prev.TotalScore {
			want = prev.Rank
		}
		if l.Rank != want {
			return fmt.Errorf("entry %d has rank %d, want %d", i, l.Rank, want)
		}
	}
	return nil
}
