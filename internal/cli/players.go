package cli

import (
	"github.com/spf13/cobra"

	"github.com/okian/loggraph/internal/adapters/render"
)

func newPlayersCmd(e *env) *cobra.Command {
	var (
		src      sourceFlags
		batching int64
	)

	cmd := &cobra.Command{
		Use:   "players",
		Short: "List the players of a log with their scores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc := e.newService(nil)
			defer func() { _ = svc.Close() }()

			a, err := svc.Analyze(ctx, src.source(e))
			if err != nil {
				return err
			}
			summaries, err := svc.Summaries(ctx, a, e.batching(batching))
			if err != nil {
				return err
			}

			rows := make([]render.PlayerRow, len(summaries))
			for i, ps := range summaries {
				rows[i] = render.PlayerRow{
					Index:      ps.Index,
					Name:       ps.Summary.Name,
					StableID:   ps.Summary.StableID,
					Team:       ps.Summary.Team,
					Events:     ps.Events,
					TotalScore: float32(ps.Summary.TotalScore),
					Noteworthy: len(ps.Summary.Noteworthy),
					Degenerate: ps.Degenerate,
				}
			}
			return render.Players(cmd.OutOrStdout(), rows)
		},
	}

	src.register(cmd)
	cmd.Flags().Int64Var(&batching, "batching", 0, "grouping window in seconds (default from config)")
	return cmd
}
