package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"workpulse/internal/config"
	"workpulse/internal/logging"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose    bool
	configPath string
	cfg        *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "workpulse",
	Short: "workpulse reports editor productivity over an MCP server",
	Long: `Reads daily work entries (videos completed against a target, hours, mood, energy)
and turns them into per-person and per-team productivity reports with trends, rankings and
insights, scoped to what the caller's role may see.

Without a subcommand it serves the reports as MCP tools over stdio.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		log.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("driver", cfg.Storage.Driver).
			Msg("workpulse starting")
		return nil
	},
	RunE: runServe,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file (default ./workpulse.yaml)")
	rootCmd.Version = Version

	rootCmd.AddCommand(serveCmd, reportCmd, windowCmd, importCmd)
}
