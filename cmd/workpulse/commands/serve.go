package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"workpulse/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve reports as MCP tools over stdio",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	engine, err := newEngine(b, cfg)
	if err != nil {
		return err
	}

	log.Info().Str("version", Version).Str("driver", cfg.Storage.Driver).Msg("MCP server starting stdio loop")
	server := mcp.NewServer(engine, mcp.Options{Version: Version, Charts: cfg.Charts.EnableMermaid})
	if err := server.Serve(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	log.Info().Msg("MCP server stopped")
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
