package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/gg"

	"github.com/ironsheep/edge-refine-mcp/internal/config"
	"github.com/ironsheep/edge-refine-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and --help before flag parsing
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("edge-refine-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("edge-refine-mcp - MCP server for radiograph contour extraction and refinement")
			fmt.Println()
			fmt.Println("Usage: edge-refine-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --config PATH    Configuration file (default " + config.GetConfigPath() + ")")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  " + config.EnvLogLevel + "=debug    Enable debug logging")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	configPath := flag.String("config", "", "configuration file")
	flag.Parse()

	// Logs go to stderr; stdout is for MCP protocol
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	level, _ := config.ParseLevel(cfg.Log.Level)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	gg.SetLogger(logger)

	logger.Debug("starting", "version", Version, "built", BuildTime, "commit", GitCommit)

	engine, err := newEngine(cfg.Extraction.Engine, logger)
	if err != nil {
		log.Fatalf("Engine error: %v", err)
	}
	if err := engine.Ready(); err != nil {
		log.Fatalf("Engine error: %v", err)
	}

	server.Version = Version
	srv := server.New(cfg, engine, logger)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
