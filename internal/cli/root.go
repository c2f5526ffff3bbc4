// Package cli implements the loggraph command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/loggraph/internal/adapters/render"
	"github.com/okian/loggraph/internal/adapters/repository"
	service "github.com/okian/loggraph/internal/app"
	"github.com/okian/loggraph/internal/config"
	"github.com/okian/loggraph/internal/domain/scoring"
	"github.com/okian/loggraph/internal/domain/timeline"
	"github.com/okian/loggraph/pkg/logger"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// env is what every command needs once configuration is loaded.
type env struct {
	cfg *config.Config
	log logger.Logger
}

// load reads configuration and points the global logger at stderr so that
// stdout only carries command output.
func (e *env) load(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	if err := logger.InitWithWriter(cmd.ErrOrStderr()); err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}
	e.cfg = cfg
	e.log = logger.Named("cli")
	return nil
}

func (e *env) layout() timeline.Layout {
	return timeline.Layout{
		Width:     float32(e.cfg.CanvasWidth),
		Height:    float32(e.cfg.DrawableHeight()),
		Padding:   float32(e.cfg.LinePadding),
		PreRoll:   e.cfg.PreRollSeconds,
		TickRate:  float32(e.cfg.TickRate),
		Threshold: float32(e.cfg.NoteworthyThreshold),
	}
}

func (e *env) canvas() render.Canvas {
	return render.Canvas{Layout: e.layout(), KeySpace: float32(e.cfg.KeySpace)}
}

// newService builds a Service from configuration. A nil store keeps the
// in-memory default.
func (e *env) newService(store repository.Store) *service.Service {
	opts := []service.Option{
		service.WithLogger(logger.Named("service")),
		service.WithWorkerCount(e.cfg.WorkerCount),
		service.WithQueueSize(e.cfg.QueueSize),
		service.WithDedupeSize(e.cfg.DedupeSize),
		service.WithBatching(e.cfg.BatchingSeconds),
		service.WithBuilder(timeline.NewBuilder(
			timeline.WithLayout(e.layout()),
			timeline.WithTable(scoring.New(scoring.WithValues(e.cfg.ScoreValues))),
		)),
	}
	if store != nil {
		opts = append(opts, service.WithStore(store))
	}
	return service.New(opts...)
}

// batching resolves a --batching flag against the configured default.
func (e *env) batching(flag int64) int64 {
	if flag > 0 {
		return flag
	}
	return e.cfg.BatchingSeconds
}

// NewRootCommand assembles the command tree.
func NewRootCommand() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:   "loggraph",
		Short: "Graph a player's match from a TF2 server log",
		Long: `loggraph reads a TF2 (logs.tf format) match log and draws one player's
match as a timeline of scored events, with noteworthy moments listed as demo ticks.

Logs are read from a local file or downloaded by logs.tf id. Configuration is
layered from defaults, the YAML file named by LOGGRAPH_CONFIG and LOGGRAPH_*
environment variables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.load(cmd)
		},
	}
	root.AddCommand(
		newGraphCmd(e),
		newBatchCmd(e),
		newPlayersCmd(e),
		newServeCmd(e),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "loggraph %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
			return err
		},
	}
}
