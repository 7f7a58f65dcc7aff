package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/wiwo/tenderindex/internal/config"
	"github.com/wiwo/tenderindex/internal/domain/project"
	"github.com/wiwo/tenderindex/internal/logging"
	"github.com/wiwo/tenderindex/internal/scanner"
	"github.com/wiwo/tenderindex/internal/sqlite"
)

var version = "dev"

type CLI struct {
	Config   string `help:"YAML config file." type:"path" placeholder:"PATH"`
	EnvFile  string `help:"Dotenv file loaded before the environment is read." default:".env" placeholder:"PATH"`
	LogLevel string `help:"Override the log level (debug, info, warn, error)." placeholder:"LEVEL"`

	Scan      ScanCmd      `cmd:"" help:"Scan the project root and record every project directory."`
	Serve     ServeCmd     `cmd:"" help:"Serve the HTTP API (with MCP at /mcp)."`
	MCP       MCPCmd       `cmd:"" name:"mcp" help:"Serve MCP over stdio."`
	List      ListCmd      `cmd:"" help:"List projects."`
	Show      ShowCmd      `cmd:"" help:"Show a project with its tenders and offers."`
	SetStatus SetStatusCmd `cmd:"" help:"Change the status of a project."`
	Statuses  StatusesCmd  `cmd:"" help:"Count projects per status."`
}

func main() {
	cli := new(CLI)
	kctx := kong.Parse(
		cli,
		kong.Name("tenderindex"),
		kong.Description("Index procurement project directories into SQLite."),
	)

	cfg, err := config.Load(config.Options{ConfigPath: cli.Config, EnvFile: cli.EnvFile})
	kctx.FatalIfErrorf(err)
	if cli.LogLevel != "" {
		cfg.Log.Level = strings.ToLower(cli.LogLevel)
		kctx.FatalIfErrorf(config.Validate(cfg))
	}

	// Only the HTTP server logs to stdout; MCP stdio and the reporting
	// commands need stdout for their own output.
	logWriter := io.Writer(os.Stderr)
	if kctx.Command() == "serve" {
		logWriter = os.Stdout
	}
	logger, closeLog, err := logging.New(cfg.Log.Level, cfg.Log.Path, logWriter)
	kctx.FatalIfErrorf(err)
	defer closeLog()

	kctx.FatalIfErrorf(ensureDBDir(cfg.DB.Path))
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DB.Path, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	projects := project.NewService(sqlite.NewProjectRepository(db), logger)
	app := &App{
		Ctx:      ctx,
		Config:   cfg,
		Logger:   logger,
		Projects: projects,
		Scanner: scanner.New(projects, scanner.Options{
			EntryTimeout: cfg.Scan.EntryTimeout,
			Logger:       logger,
		}),
		Out: os.Stdout,
	}
	err = kctx.Run(app)
	if err != nil {
		logger.Error("command failed", "command", kctx.Command(), "error", err)
	}
	kctx.FatalIfErrorf(err)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("prepare database directory: %w", err)
	}
	return nil
}
