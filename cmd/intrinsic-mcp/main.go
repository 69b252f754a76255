package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/intrinsic/internal/app"
)

// Serves the MCP tool registry over stdio for desktop clients. Stdout is
// reserved for the JSON-RPC stream, so logging goes to file only; the app's
// file log output still applies.
func main() {
	godotenv.Load()

	// Force file-only logging before the app builds its logger. Some MCP
	// clients surface stderr to the user, so console output stays off too.
	if os.Getenv("INTRINSIC_LOG_OUTPUTS") == "" {
		os.Setenv("INTRINSIC_LOG_OUTPUTS", "file")
	}

	a, err := app.NewApp(os.Getenv("INTRINSIC_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	a.Logger.Info().Msg("Starting MCP server on stdio")

	if err := mcpserver.ServeStdio(a.MCPServer); err != nil {
		a.Logger.Error().Err(err).Msg("MCP stdio server failed")
		os.Exit(1)
	}
}
