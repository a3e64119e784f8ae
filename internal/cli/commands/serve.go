package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/joingraph/internal/cli/config"
	"github.com/leapstack-labs/joingraph/internal/viewer"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve generated artifacts over HTTP",
		Long: `Start a local HTTP server over the output directory so the interactive
network page can be opened in a browser.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetCurrentConfig()
			if cfg == nil {
				cfg = &config.Config{
					OutputDir: config.DefaultOutputDir,
					ServePort: config.DefaultServePort,
				}
			}
			if !cmd.Flags().Changed("port") {
				port = cfg.ServePort
			}

			srv := viewer.NewServer(viewer.Config{
				Dir:    cfg.OutputDir,
				Port:   port,
				Logger: config.GetLogger(cmd.Context()),
			})
			return srv.Serve(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", config.DefaultServePort, "Port to listen on")
	return cmd
}
