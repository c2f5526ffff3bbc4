package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/loggraph/internal/testlogs"
	"github.com/okian/loggraph/pkg/logger"
)

const runTimeout = 10 * time.Minute

func main() {
	cfg := testlogs.DefaultConfig()
	var verbose bool

	cmd := &cobra.Command{
		Use:   "gen-log",
		Short: "Generate a synthetic match log and optionally upload it",
		Long: `gen-log writes a deterministic, well-formed match log. With --url it also
uploads the log to a running "loggraph serve" and checks that the returned
leaderboard is ordered.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.InitWithWriter(cmd.ErrOrStderr()); err != nil {
				return err
			}
			if verbose {
				_ = logger.SetLevelString("debug")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
			defer cancel()

			stats, err := testlogs.Run(ctx, cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "lines: %d\n", stats.Lines)
			if stats.LogID != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "log id: %s (duplicate: %t)\n", stats.LogID, stats.Duplicate)
				for _, l := range stats.Leaders {
					fmt.Fprintf(cmd.OutOrStdout(), "%3d  %-14s %-12s %8.0f  %d\n", l.Rank, l.StableID, l.Name, l.TotalScore, l.Noteworthy)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "took: %s\n", stats.Duration)
			return nil
		},
	}

	f := cmd.Flags()
	f.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "generator seed; equal seeds give equal logs")
	f.IntVar(&cfg.Players, "players", cfg.Players, "participants, split between Red and Blue")
	f.IntVar(&cfg.Rounds, "rounds", cfg.Rounds, "rounds in the match")
	f.IntVar(&cfg.RoundSeconds, "round-seconds", cfg.RoundSeconds, "length of each round")
	f.StringVar(&cfg.OutputFile, "output", "generated.log", "where to write the log; empty skips writing")
	f.StringVar(&cfg.BaseURL, "url", "", "serve-mode base URL to upload to, e.g. http://localhost:9080")
	f.IntVar(&cfg.TopN, "top", cfg.TopN, "leaderboard entries to fetch after upload")
	f.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP request timeout")
	f.BoolVar(&verbose, "verbose", false, "enable debug logging")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
