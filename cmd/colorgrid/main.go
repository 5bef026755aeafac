package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/colorgrid/internal/config"
	"github.com/ironsheep/colorgrid/internal/logging"
	"github.com/ironsheep/colorgrid/internal/pipeline"
	"github.com/ironsheep/colorgrid/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Exit codes.
const (
	exitOK          = 0
	exitFileFailed  = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// Handle --version and --help before flag parsing
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			fmt.Printf("colorgrid %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return exitOK
		case "--help", "-h", "help":
			printHelp()
			return exitOK
		case "mcp":
			return runServer(args[1:])
		}
	}
	return runBatch(args)
}

func printHelp() {
	fmt.Println("colorgrid - representative color grids and pixel-sorted mosaics")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  colorgrid [options] <image|dir>...   Process images")
	fmt.Println("  colorgrid mcp [-env file]            Serve MCP over stdin/stdout")
	fmt.Println()
	fmt.Println("Options:")
	fs := newFlagSet("colorgrid", &cliFlags{})
	fs.SetOutput(os.Stdout)
	fs.PrintDefaults()
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables (flags win):")
	fmt.Printf("  %s=10            Number of colors (2-256)\n", config.EnvSteps)
	fmt.Printf("  %s=false     Hue-weighted sampling and sort\n", config.EnvHueNormal)
	fmt.Printf("  %s=false    Also write pixel-sorted mosaics\n", config.EnvSaveSorted)
	fmt.Printf("  %s=false        Circular hue smoothing\n", config.EnvWrapHue)
	fmt.Printf("  %s=400        Grid block edge in pixels\n", config.EnvBlockSize)
	fmt.Printf("  %s=8      Grid blocks per row\n", config.EnvBlocksPerRow)
	fmt.Printf("  %s=#FFFFFF    Grid background\n", config.EnvBackground)
	fmt.Printf("  %s=            Output directory\n", config.EnvOutputDir)
	fmt.Printf("  %s=info        debug, info, warn or error\n", config.EnvLogLevel)
	fmt.Println()
	fmt.Println("Values are also read from ./.env when present.")
}

type cliFlags struct {
	steps      string
	hueNormal  bool
	saveSorted bool
	wrapHue    bool
	outputDir  string
	blockSize  int
	logLevel   string
	envFile    string
}

func newFlagSet(name string, f *cliFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&f.steps, "steps", "", "number of colors to sample (2-256)")
	fs.BoolVar(&f.hueNormal, "hue-normal", false, "hue-weighted band sampling and hue-weighted pixel sort")
	fs.BoolVar(&f.saveSorted, "save-sorted", false, "also write the pixel-sorted mosaic of each image")
	fs.BoolVar(&f.wrapHue, "wrap-hue", false, "smooth the hue histogram circularly")
	fs.StringVar(&f.outputDir, "out", "", "output directory")
	fs.IntVar(&f.blockSize, "block-size", 0, "grid block edge in pixels")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	fs.StringVar(&f.envFile, "env", "", "load settings from this .env file instead of ./.env")
	return fs
}

// loadConfig parses args and overlays explicitly set flags on the
// environment configuration.
func loadConfig(name string, args []string) (config.Config, []string, error) {
	var f cliFlags
	fs := newFlagSet(name, &f)
	if err := fs.Parse(args); err != nil {
		return config.Config{}, nil, err
	}

	var envFiles []string
	if f.envFile != "" {
		envFiles = append(envFiles, f.envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return config.Config{}, nil, err
	}

	var flagErr error
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "steps":
			steps, err := config.ParseSteps(f.steps)
			if err != nil {
				flagErr = err
				return
			}
			cfg.Steps = steps
		case "hue-normal":
			cfg.HueNormal = f.hueNormal
		case "save-sorted":
			cfg.SaveSorted = f.saveSorted
		case "wrap-hue":
			cfg.WrapHue = f.wrapHue
		case "out":
			cfg.OutputDir = f.outputDir
		case "block-size":
			cfg.BlockSize = f.blockSize
		case "log-level":
			cfg.LogLevel = f.logLevel
		}
	})
	if flagErr != nil {
		return config.Config{}, nil, flagErr
	}

	return cfg, fs.Args(), nil
}

func runBatch(args []string) int {
	cfg, inputs, err := loadConfig("colorgrid", args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(os.Stderr, "colorgrid: %v\n", err)
		return exitUsage
	}
	cfg.Inputs = inputs

	logger := logging.Setup(cfg.LogLevel)
	startup := logging.With(logger, logging.ComponentStartup)
	startup.Debug("colorgrid starting", "version", Version, "build_time", BuildTime, "commit", GitCommit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := pipeline.Run(ctx, cfg, logger)
	return batchExit(os.Stdout, report, err, startup)
}

// batchExit prints the artifacts of every finished file, including those
// completed before an interrupt, and maps the outcome to an exit code.
func batchExit(w io.Writer, report *pipeline.Report, err error, logger *slog.Logger) int {
	if report != nil {
		printArtifacts(w, report.Files)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			if report != nil {
				logger.Warn("interrupted", "processed", len(report.Files), "failed", len(report.Failures))
			}
			return exitInterrupted
		}
		logger.Error("cannot start batch", "error", err)
		return exitUsage
	}
	if !report.OK() {
		return exitFileFailed
	}
	return exitOK
}

func printArtifacts(w io.Writer, files []*pipeline.FileResult) {
	for _, f := range files {
		fmt.Fprintln(w, f.GridPath)
		fmt.Fprintln(w, f.InfoPath)
		if f.SortedPath != "" {
			fmt.Fprintln(w, f.SortedPath)
		}
	}
}

func runServer(args []string) int {
	cfg, _, err := loadConfig("colorgrid mcp", args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(os.Stderr, "colorgrid mcp: %v\n", err)
		return exitUsage
	}
	if err := cfg.ValidateSettings(); err != nil {
		fmt.Fprintf(os.Stderr, "colorgrid mcp: %v\n", err)
		return exitUsage
	}

	// Logging goes to stderr; stdout is for the MCP protocol
	logger := logging.Setup(cfg.LogLevel)
	logging.With(logger, logging.ComponentStartup).Info("MCP server starting",
		"version", Version, "build_time", BuildTime, "commit", GitCommit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, logger)
	srv.SetVersion(Version)
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.With(logger, logging.ComponentServer).Error("server error", "error", err)
		return exitFileFailed
	}
	return exitOK
}
