// Package scanner walks the project root and records every project directory
// it finds.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/wiwo/tenderindex/internal/domain/project"
	"github.com/wiwo/tenderindex/internal/naming"
)

// Entry is one item found directly under the scan root.
type Entry struct {
	Name  string
	Path  string
	IsDir bool
}

// Lister enumerates the entries of a directory.
type Lister interface {
	List(ctx context.Context, root string) ([]Entry, error)
}

// Ingester persists one parsed project directory.
type Ingester interface {
	Ingest(ctx context.Context, desc project.Descriptor) error
}

// DirLister lists a directory on the local filesystem.
type DirLister struct{}

// List returns the entries of root sorted by name. Symlinks report the type
// of their target; a dangling link is not a directory.
func (DirLister) List(ctx context.Context, root string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dirEntries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		path := filepath.Join(root, de.Name())
		isDir := de.IsDir()
		if de.Type()&fs.ModeSymlink != 0 {
			if info, err := os.Stat(path); err == nil {
				isDir = info.IsDir()
			}
		}
		entries = append(entries, Entry{Name: de.Name(), Path: path, IsDir: isDir})
	}
	return entries, nil
}

// Outcome describes a directory that was not persisted.
type Outcome struct {
	Name   string `json:"name" yaml:"name"`
	Path   string `json:"path" yaml:"path"`
	Reason string `json:"reason" yaml:"reason"`
}

// Report summarises one scan run.
type Report struct {
	RunID       string               `json:"run_id" yaml:"run_id"`
	Root        string               `json:"root" yaml:"root"`
	StartedAt   time.Time            `json:"started_at" yaml:"started_at"`
	FinishedAt  time.Time            `json:"finished_at" yaml:"finished_at"`
	Persisted   int                  `json:"persisted" yaml:"persisted"`
	Skipped     []Outcome            `json:"skipped" yaml:"skipped"`
	Failed      []Outcome            `json:"failed" yaml:"failed"`
	Descriptors []project.Descriptor `json:"descriptors" yaml:"descriptors"`
}

// Options configures a Scanner.
type Options struct {
	// Lister defaults to DirLister.
	Lister Lister
	// EntryTimeout bounds each Ingest call. Zero means no limit.
	EntryTimeout time.Duration
	Logger       *slog.Logger
}

// Scanner turns directory names under a root into project records.
type Scanner struct {
	ingester     Ingester
	lister       Lister
	entryTimeout time.Duration
	logger       *slog.Logger
}

// New creates a scanner that persists through ingester.
func New(ingester Ingester, opts Options) *Scanner {
	if opts.Lister == nil {
		opts.Lister = DirLister{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Scanner{
		ingester:     ingester,
		lister:       opts.Lister,
		entryTimeout: opts.EntryTimeout,
		logger:       opts.Logger,
	}
}

// ScanAndPersist parses every directory directly under root and ingests the
// ones that follow the naming convention. Entries are handled one at a time;
// a failed entry is recorded in the report and the scan moves on.
// Only a failure to list root, or a canceled context, aborts the run.
func (s *Scanner) ScanAndPersist(ctx context.Context, root string) (*Report, error) {
	report := &Report{
		RunID:       uuid.NewString(),
		Root:        root,
		StartedAt:   time.Now(),
		Skipped:     []Outcome{},
		Failed:      []Outcome{},
		Descriptors: []project.Descriptor{},
	}
	logger := s.logger.With("run_id", report.RunID)
	logger.Info("scanning project root", "root", root)

	entries, err := s.lister.List(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", root, err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return s.finish(logger, report), err
		}
		if !entry.IsDir {
			continue
		}

		desc, err := naming.Parse(entry.Name)
		if err != nil {
			logger.Debug("skipped directory", "name", entry.Name, "reason", err)
			report.Skipped = append(report.Skipped, Outcome{Name: entry.Name, Path: entry.Path, Reason: err.Error()})
			continue
		}
		desc.Path = entry.Path

		if err := s.ingest(ctx, desc); err != nil {
			if errors.Is(err, context.Canceled) && ctx.Err() != nil {
				return s.finish(logger, report), err
			}
			logger.Error("failed to persist directory", "name", entry.Name, "error", err)
			report.Failed = append(report.Failed, Outcome{Name: entry.Name, Path: entry.Path, Reason: err.Error()})
			continue
		}
		report.Persisted++
		report.Descriptors = append(report.Descriptors, desc)
		logger.Info("persisted project directory",
			"project_id", desc.ID,
			"document_type", desc.DocumentType,
			"path", desc.Path,
		)
	}

	return s.finish(logger, report), nil
}

func (s *Scanner) finish(logger *slog.Logger, report *Report) *Report {
	report.FinishedAt = time.Now()
	logger.Info("scan finished",
		"persisted", report.Persisted,
		"skipped", len(report.Skipped),
		"failed", len(report.Failed),
		"duration", report.FinishedAt.Sub(report.StartedAt),
	)
	return report
}

func (s *Scanner) ingest(ctx context.Context, desc project.Descriptor) error {
	if s.entryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.entryTimeout)
		defer cancel()
	}
	return s.ingester.Ingest(ctx, desc)
}
