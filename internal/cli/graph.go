package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/loggraph/internal/adapters/render"
	"github.com/okian/loggraph/internal/domain/selector"
	"github.com/okian/loggraph/pkg/logger"
)

func newGraphCmd(e *env) *cobra.Command {
	var (
		src      sourceFlags
		steamID  string
		alias    string
		batching int64
		outDir   string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Draw one player's timeline",
		Long: `Draw one player's timeline and list their noteworthy moments.

The player is picked by stable id (--steamid) or by in-game name (--alias).
<out>/<player>.svg, .txt and .json are written and a summary is printed.`,
		Example: `  loggraph graph --log-file match.log --steamid "[U:1:12345]"
  loggraph graph --log-id 3011546 --alias "b4nny" --batching 5 --print yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			id, err := selector.FromFlags(steamID, alias)
			if err != nil {
				return err
			}

			svc := e.newService(nil)
			defer func() { _ = svc.Close() }()

			a, err := svc.Analyze(ctx, src.source(e))
			if err != nil {
				return err
			}
			g, err := svc.Graph(ctx, a, id, e.batching(batching))
			if errors.Is(err, selector.ErrPlayerNotFound) {
				fmt.Fprintln(cmd.ErrOrStderr(), noMatchMessage)
				return err
			}
			if err != nil {
				return err
			}

			if outDir == "" {
				outDir = e.cfg.OutputDir
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", outDir, err)
			}
			written, err := render.WriteFiles(outDir, selector.Sanitize(id.Value), e.canvas(), g.Timeline)
			if err != nil {
				return err
			}
			e.log.Info(ctx, "graph written",
				logger.String("player", g.Timeline.Player.StableID),
				logger.String("svg", written.SVG),
				logger.Int("noteworthy", len(g.Timeline.Noteworthy)))

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				return render.JSON(out, render.NewSummary(g.Timeline))
			case "yaml":
				return render.YAML(out, render.NewSummary(g.Timeline))
			case "none":
				return nil
			default:
				return render.Terminal(out, g.Timeline)
			}
		},
	}

	src.register(cmd)
	cmd.Flags().StringVar(&steamID, "steamid", "", "stable id of the player, e.g. [U:1:12345]")
	cmd.Flags().StringVar(&alias, "alias", "", "in-game name of the player")
	cmd.Flags().Int64Var(&batching, "batching", 0, "grouping window in seconds (default from config)")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default from config)")
	cmd.Flags().StringVar(&format, "print", "terminal", "stdout format: terminal, json, yaml or none")
	cmd.MarkFlagsOneRequired("steamid", "alias")
	cmd.MarkFlagsMutuallyExclusive("steamid", "alias")
	return cmd
}
