package mcp

import (
	"context"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"workpulse/internal/report"
)

// Options configures the tool server.
type Options struct {
	Version string
	// Charts appends mermaid charts to tool results.
	Charts bool
}

// Server exposes the report engine as MCP tools.
type Server struct {
	engine  *report.Engine
	charts  bool
	version string
}

// NewServer creates a new MCP server over engine.
func NewServer(engine *report.Engine, opts Options) *Server {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	return &Server{engine: engine, charts: opts.Charts, version: opts.Version}
}

// Build returns an SDK server with every tool registered.
func (s *Server) Build() *sdk.Server {
	server := sdk.NewServer(&sdk.Implementation{Name: "workpulse", Version: s.version}, nil)
	s.registerTools(server)
	return server
}

// Serve runs the MCP session over stdio until the client disconnects or ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	log.Info().Str("version", s.version).Msg("Serving MCP over stdio")
	return s.Build().Run(ctx, &sdk.StdioTransport{})
}

func mustSchema[T any]() *jsonschema.Schema {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		panic(err)
	}
	return schema
}

func (s *Server) formatResult(data any) string {
	out, _ := json.MarshalIndent(data, "", "  ")
	return string(out)
}

// respond wraps data as JSON text content, followed by any non-empty charts.
func (s *Server) respond(data any, charts ...string) *sdk.CallToolResult {
	content := []sdk.Content{&sdk.TextContent{Text: s.formatResult(data)}}
	if s.charts {
		for _, c := range charts {
			if c != "" {
				content = append(content, &sdk.TextContent{Text: c})
			}
		}
	}
	return &sdk.CallToolResult{Content: content}
}
