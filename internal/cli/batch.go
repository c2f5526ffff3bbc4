package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/loggraph/internal/adapters/render"
	service "github.com/okian/loggraph/internal/app"
	"github.com/okian/loggraph/internal/domain/selector"
	"github.com/okian/loggraph/pkg/logger"
)

func newBatchCmd(e *env) *cobra.Command {
	var (
		src      sourceFlags
		steamIDs string
		aliases  string
		batching int64
		outDir   string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Draw timelines for many players at once",
		Long: `Draw timelines for a list of players in parallel.

Each player gets <out>/<id>.svg, .txt and .json, with ':' in the id replaced
by '.'. Earlier files for the requested ids are removed first; anything else in
<out> is left untouched. Players missing from the log are logged and skipped.`,
		Example: `  loggraph batch --log-file match.log --steamids "[U:1:1], [U:1:2]"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var ids []selector.Identifier
			for _, v := range selector.SplitList(steamIDs) {
				ids = append(ids, selector.StableID(v))
			}
			for _, v := range selector.SplitList(aliases) {
				ids = append(ids, selector.Alias(v))
			}
			if len(ids) == 0 {
				return selector.ErrNoIdentifier
			}

			if outDir == "" {
				outDir = e.cfg.OutputDir
			}
			bases := make([]string, len(ids))
			for i, id := range ids {
				bases[i] = selector.Sanitize(id.Value)
			}
			if err := render.PrepareDir(outDir, bases...); err != nil {
				return err
			}

			svc := e.newService(nil)
			defer func() { _ = svc.Close() }()

			a, err := svc.Analyze(ctx, src.source(e))
			if err != nil {
				return err
			}

			canvas := e.canvas()
			sink := service.SinkFunc(func(_ context.Context, id selector.Identifier, g *service.Graph) error {
				_, err := render.WriteFiles(outDir, selector.Sanitize(id.Value), canvas, g.Timeline)
				return err
			})
			outcomes, err := svc.Batch(ctx, a, ids, e.batching(batching), sink)
			if err != nil {
				return err
			}

			written := 0
			for _, o := range outcomes {
				switch {
				case o.Err == nil:
					written++
				case errors.Is(o.Err, selector.ErrPlayerNotFound):
					e.log.Warn(ctx, "no matching player", logger.String("id", o.Identifier.String()))
				default:
					e.log.Warn(ctx, "graph failed", logger.String("id", o.Identifier.String()), logger.Error(o.Err))
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d of %d graphs to %s\n", written, len(outcomes), outDir)
			if written == 0 {
				return ErrNothingWritten
			}
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().StringVar(&steamIDs, "steamids", "", "comma separated stable ids")
	cmd.Flags().StringVar(&aliases, "aliases", "", "comma separated in-game names")
	cmd.Flags().Int64Var(&batching, "batching", 0, "grouping window in seconds (default from config)")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default from config)")
	cmd.MarkFlagsOneRequired("steamids", "aliases")
	return cmd
}
