package cmd

import (
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"suggestbox/internal/source/ipc"
)

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Answer completion requests on stdin and stdout",
		Long: "serve reads msgpack completion requests from stdin and writes the\n" +
			"answers to stdout until stdin is closed or the process is interrupted.\n" +
			"Logs go to stderr.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			workers, _ := cmd.Flags().GetInt("workers")

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			logger := stderrLogger(cfg, "serve")
			idx, err := loadIndex(ctx, cfg, logger)
			if err != nil {
				return err
			}
			logger.Debug("index ready", "words", idx.Len())

			return ipc.NewServer(idx, workers, logger).Serve(ctx, os.Stdin, os.Stdout)
		},
	}
	serveCmd.Flags().Int("workers", runtime.NumCPU(), "Requests answered concurrently")
	return serveCmd
}
