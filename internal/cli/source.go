package cli

import (
	"github.com/spf13/cobra"

	"github.com/okian/loggraph/internal/adapters/source"
)

// sourceFlags selects where a log comes from.
type sourceFlags struct {
	logFile string
	logID   string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.logFile, "log-file", "", "path of a local log file")
	cmd.Flags().StringVar(&f.logID, "log-id", "", "logs.tf id to download")
	cmd.MarkFlagsOneRequired("log-file", "log-id")
	cmd.MarkFlagsMutuallyExclusive("log-file", "log-id")
}

func (f *sourceFlags) source(e *env) source.Source {
	if f.logFile != "" {
		return source.File{Path: f.logFile}
	}
	return source.Download{
		BaseURL: e.cfg.DownloadBaseURL,
		LogID:   f.logID,
		Timeout: e.cfg.DownloadTimeout(),
	}
}
