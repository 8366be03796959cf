package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/crafthouse/crafthouse/internal/seed"
	"github.com/crafthouse/crafthouse/internal/settings"
	"github.com/crafthouse/crafthouse/internal/store"
)

// DataCLI offers seeding, reset and export against the configured store.
type DataCLI struct {
	repo     *store.Repository
	settings *settings.Service
}

// NewDataCLI wires the helpers to a repository.
func NewDataCLI(repo *store.Repository, svc *settings.Service) (*DataCLI, error) {
	if repo == nil || svc == nil {
		return nil, errors.New("data cli: repository not configured")
	}
	return &DataCLI{repo: repo, settings: svc}, nil
}

// SeedOptions defines the flags of the seed command.
type SeedOptions struct {
	Preset     string
	JSONOutput bool
	Stdout     io.Writer
	Stderr     io.Writer
}

// SeedSummary is the JSON output of the seed command.
type SeedSummary struct {
	Preset       string `json:"preset"`
	RawMaterials int    `json:"rawMaterials"`
	Categories   int    `json:"categories"`
	Products     int    `json:"products"`
	Orders       int    `json:"orders"`
	Suppliers    int    `json:"suppliers"`
	Transactions int    `json:"transactions"`
}

// SeedCommand replaces every collection with a preset.
func (c *DataCLI) SeedCommand(ctx context.Context, opts SeedOptions) int {
	opts.Stdout, opts.Stderr = outputs(opts.Stdout, opts.Stderr)
	if opts.Preset == "" {
		_, _ = fmt.Fprintf(opts.Stderr, "seed: preset is required (one of %v)\n", seed.Presets())
		return 1
	}
	ds, err := c.settings.Seed(ctx, opts.Preset)
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "seed: %v\n", err)
		if errors.Is(err, settings.ErrUnknownPreset) {
			_, _ = fmt.Fprintf(opts.Stderr, "available presets: %v\n", seed.Presets())
		}
		return 1
	}
	summary := SeedSummary{
		Preset:       opts.Preset,
		RawMaterials: len(ds.RawMaterials),
		Categories:   len(ds.Categories),
		Products:     len(ds.Products),
		Orders:       len(ds.Orders),
		Suppliers:    len(ds.Suppliers),
		Transactions: len(ds.Transactions),
	}
	if opts.JSONOutput {
		if err := json.NewEncoder(opts.Stdout).Encode(summary); err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "seed: encode json: %v\n", err)
			return 1
		}
		return 0
	}
	_, _ = fmt.Fprintf(opts.Stdout, "Seeded %q: %d materials, %d categories, %d products, %d orders, %d suppliers, %d transactions\n",
		summary.Preset, summary.RawMaterials, summary.Categories, summary.Products, summary.Orders, summary.Suppliers, summary.Transactions)
	return 0
}

// ResetOptions defines the flags of the reset command.
type ResetOptions struct {
	Confirm bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// ResetCommand wipes every stored key.
func (c *DataCLI) ResetCommand(ctx context.Context, opts ResetOptions) int {
	opts.Stdout, opts.Stderr = outputs(opts.Stdout, opts.Stderr)
	if err := c.settings.Reset(ctx, settings.ResetInput{Confirm: opts.Confirm}); err != nil {
		if errors.Is(err, settings.ErrNotConfirmed) {
			_, _ = fmt.Fprintln(opts.Stderr, "reset: refusing to delete all data without --confirm")
			return 2
		}
		_, _ = fmt.Fprintf(opts.Stderr, "reset: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(opts.Stdout, "All data deleted.")
	return 0
}

// ExportOptions defines the flags of the export command.
type ExportOptions struct {
	Stdout io.Writer
	Stderr io.Writer
}

// ExportCommand prints every collection and setting as JSON. A storage
// failure still prints what could be read and exits non-zero.
func (c *DataCLI) ExportCommand(ctx context.Context, opts ExportOptions) int {
	opts.Stdout, opts.Stderr = outputs(opts.Stdout, opts.Stderr)
	snap, readErr := c.repo.Snapshot(ctx)
	enc := json.NewEncoder(opts.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "export: encode json: %v\n", err)
		return 1
	}
	if readErr != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "export: incomplete: %v\n", readErr)
		return 1
	}
	return 0
}

func outputs(stdout, stderr io.Writer) (io.Writer, io.Writer) {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return stdout, stderr
}
