package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wiwo/tenderindex/internal/domain/project"
	"github.com/wiwo/tenderindex/internal/scanner"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	List(ctx context.Context, status project.Status) ([]project.Project, error)
	Get(ctx context.Context, id string) (*project.ProjectView, error)
	UpdateStatus(ctx context.Context, id string, status project.Status) error
	ListTenders(ctx context.Context, projectID string) ([]project.TenderRecord, error)
	ListOffers(ctx context.Context, projectID string) ([]project.OfferRecord, error)
	CountByStatus(ctx context.Context) (map[project.Status]int, error)
}

// ScanService runs a directory scan.
type ScanService interface {
	ScanAndPersist(ctx context.Context, root string) (*scanner.Report, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects ProjectService
	Scanner  ScanService
}

// Config contains server configuration.
type Config struct {
	Services Services
	// Root is the directory scanned by scan_projects.
	Root    string
	Version string
	Logger  *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "tenderindex",
		Version: cfg.Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services, cfg.Root)

	return server
}
