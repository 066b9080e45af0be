package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ironsheep/kaleido-mcp/internal/config"
	"github.com/ironsheep/kaleido-mcp/internal/logging"
	"github.com/ironsheep/kaleido-mcp/internal/server"
	"github.com/ironsheep/kaleido-mcp/internal/store"
	"github.com/ironsheep/kaleido-mcp/internal/studio"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var configPath string
	var rest []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version", "-v", "version":
			fmt.Fprintf(stdout, "kaleido-mcp %s\n", Version)
			fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
			return 0
		case "--help", "-h", "help":
			printUsage(stdout)
			return 0
		case "--config", "-c":
			if i+1 >= len(args) {
				fmt.Fprintln(stderr, "--config requires a path")
				return 2
			}
			i++
			configPath = args[i]
		default:
			rest = append(rest, args[i])
		}
	}

	// A missing .env is normal; anything else is worth reporting.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(stderr, "Warning: failed to load .env: %v\n", err)
	}
	// --config wins over KALEIDO_CONFIG, which may itself come from .env.
	if configPath == "" {
		configPath = os.Getenv(config.EnvConfigFile)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 1
	}

	// stdout carries the MCP protocol, so logs go to stderr.
	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	st, err := store.New(cfg)
	if err != nil {
		logger.Error("failed to open image store", zap.Error(err))
		return 1
	}
	opts, err := cfg.PipelineOptions()
	if err != nil {
		logger.Error("invalid pipeline options", zap.Error(err))
		return 1
	}
	sd := studio.New(st, opts, logger)

	if len(rest) > 0 {
		switch rest[0] {
		case "render":
			if len(rest) != 2 {
				fmt.Fprintln(stderr, "Usage: kaleido-mcp render <name>")
				return 2
			}
			return render(sd, rest[1], stdout, stderr)
		default:
			fmt.Fprintf(stderr, "Unknown command: %s\n\n", rest[0])
			printUsage(stderr)
			return 2
		}
	}

	logger.Info("kaleido MCP server starting",
		zap.String("version", Version),
		zap.String("commit", GitCommit),
		zap.String("upload_dir", cfg.UploadDir),
		zap.String("output_dir", cfg.OutputDir),
		zap.Stringer("triangle", opts.Triangle),
	)

	if err := server.New(st, sd, cfg.MaxUploadBytes, logger).Run(); err != nil {
		logger.Error("server error", zap.Error(err))
		return 1
	}
	return 0
}

// render runs the pipeline once for name and prints a summary.
func render(sd *studio.Studio, name string, stdout, stderr io.Writer) int {
	result, err := sd.Create(name)
	if err != nil {
		color.New(color.FgRed, color.Bold).Fprint(stderr, "✗ ")
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return 1
	}

	color.New(color.FgGreen, color.Bold).Fprint(stdout, "✓ ")
	fmt.Fprintf(stdout, "%s -> %s\n", name, result.OutputPath)
	color.New(color.FgHiBlack).Fprintf(stdout, "  %dx%d source, %dx%d kaleidoscope, %s triangle\n",
		result.SourceWidth, result.SourceHeight, result.Width, result.Height, result.Triangle)
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "kaleido-mcp - MCP server that turns photos into kaleidoscopes")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  kaleido-mcp [options]                 Serve MCP over stdin/stdout")
	fmt.Fprintln(w, "  kaleido-mcp [options] render <name>   Render one uploaded image and exit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --config, -c <path>  YAML configuration file")
	fmt.Fprintln(w, "  --version, -v        Print version information")
	fmt.Fprintln(w, "  --help, -h           Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables (also read from .env):")
	for _, env := range []string{
		config.EnvConfigFile,
		config.EnvUploadDir,
		config.EnvOutputDir,
		config.EnvMaxUploadBytes,
		config.EnvMinDimension,
		config.EnvTriangle,
		config.EnvBackground,
		config.EnvJPEGQuality,
		config.EnvLogLevel,
		config.EnvLogFile,
	} {
		fmt.Fprintf(w, "  %s\n", env)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Configure it in your MCP client (e.g., Claude Desktop).")
}
