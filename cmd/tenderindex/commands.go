package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"text/tabwriter"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/yaml.v3"

	"github.com/wiwo/tenderindex/internal/config"
	"github.com/wiwo/tenderindex/internal/domain/project"
	"github.com/wiwo/tenderindex/internal/httpapi"
	"github.com/wiwo/tenderindex/internal/mcp"
	"github.com/wiwo/tenderindex/internal/scanner"
)

// App carries the wiring shared by all commands.
type App struct {
	Ctx      context.Context
	Config   config.Config
	Logger   *slog.Logger
	Projects *project.Service
	Scanner  *scanner.Scanner
	Out      io.Writer
}

func (a *App) mcpServer() *sdkmcp.Server {
	return mcp.NewServer(mcp.Config{
		Services: mcp.Services{Projects: a.Projects, Scanner: a.Scanner},
		Root:     a.Config.Scan.Root,
		Version:  version,
		Logger:   a.Logger,
	})
}

type ScanCmd struct {
	Root string `help:"Directory to scan instead of the configured root." type:"path" placeholder:"DIR"`
}

func (c *ScanCmd) Run(app *App) error {
	root := c.Root
	if root == "" {
		root = app.Config.Scan.Root
	}
	report, err := app.Scanner.ScanAndPersist(app.Ctx, root)
	if err != nil {
		return err
	}

	fmt.Fprintf(app.Out, "scanned %s: %d persisted, %d skipped, %d failed\n",
		report.Root, report.Persisted, len(report.Skipped), len(report.Failed))
	for _, o := range report.Skipped {
		fmt.Fprintf(app.Out, "skipped %s: %s\n", o.Name, o.Reason)
	}
	for _, o := range report.Failed {
		fmt.Fprintf(app.Out, "failed  %s: %s\n", o.Name, o.Reason)
	}
	if len(report.Failed) > 0 {
		return fmt.Errorf("%d directories could not be persisted", len(report.Failed))
	}
	return nil
}

type ServeCmd struct{}

func (c *ServeCmd) Run(app *App) error {
	mcpServer := app.mcpServer()
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: 30 * time.Minute},
	)
	handler := httpapi.NewHandler(app.Projects, app.Scanner, app.Config.Scan.Root, app.Logger)

	addr := fmt.Sprintf("%s:%d", app.Config.Server.Host, app.Config.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: httpapi.NewRouter(handler, mcpHandler, httpapi.WithCORS(app.Config.Server.CORSOrigins...)),
	}

	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-app.Ctx.Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	app.Logger.Info("shutting down")
	return httpServer.Shutdown(ctx)
}

type MCPCmd struct{}

func (c *MCPCmd) Run(app *App) error {
	app.Logger.Info("starting stdio transport")
	// Run blocks until stdin closes or the context is canceled.
	return app.mcpServer().Run(app.Ctx, &sdkmcp.StdioTransport{})
}

type ListCmd struct {
	Status string `help:"Status filter: TENDER, ACTIVE, ARCHIVED, CLOSED or all." default:"ACTIVE"`
}

func (c *ListCmd) Run(app *App) error {
	status, err := project.ParseStatusFilter(c.Status)
	if err != nil {
		return err
	}
	projects, err := app.Projects.List(app.Ctx, status)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS")
	for _, p := range projects {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Name, p.Status)
	}
	return w.Flush()
}

type ShowCmd struct {
	ID string `arg:"" help:"Project id, e.g. 2022-06001."`
}

func (c *ShowCmd) Run(app *App) error {
	view, err := app.Projects.Get(app.Ctx, c.ID)
	if err != nil {
		return err
	}
	if view == nil {
		return fmt.Errorf("%s: %w", c.ID, project.ErrProjectNotFound)
	}
	enc := yaml.NewEncoder(app.Out)
	enc.SetIndent(2)
	if err := enc.Encode(view); err != nil {
		return err
	}
	return enc.Close()
}

type SetStatusCmd struct {
	ID     string `arg:"" help:"Project id."`
	Status string `arg:"" help:"New status: TENDER, ACTIVE, ARCHIVED or CLOSED."`
}

func (c *SetStatusCmd) Run(app *App) error {
	status, err := project.ParseStatus(c.Status)
	if err != nil {
		return err
	}
	return app.Projects.UpdateStatus(app.Ctx, c.ID, status)
}

type StatusesCmd struct{}

func (c *StatusesCmd) Run(app *App) error {
	counts, err := app.Projects.CountByStatus(app.Ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STATUS\tCOUNT")
	for _, st := range project.Statuses {
		fmt.Fprintf(w, "%s\t%d\n", st, counts[st])
	}
	return w.Flush()
}
