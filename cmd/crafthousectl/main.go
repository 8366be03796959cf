package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/crafthouse/crafthouse/cmd/crafthousectl/cli"
	"github.com/crafthouse/crafthouse/internal/app"
	"github.com/crafthouse/crafthouse/internal/platform/kv"
	"github.com/crafthouse/crafthouse/internal/settings"
	"github.com/crafthouse/crafthouse/internal/store"
)

const usage = `usage: crafthousectl <command> [flags]

commands:
  seed <preset> [--json]   replace all data with a demo preset
  reset --confirm          delete all data
  export                   print all data as JSON
  trigger <task>           enqueue a background task
  queue                    show default queue depth
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		_, _ = fmt.Fprint(stderr, usage)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "load config: %v\n", err)
		return 1
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	command, rest := args[0], args[1:]
	switch command {
	case "trigger", "queue":
		jobsCLI, err := cli.NewJobsCLI(cfg.RedisAddr)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 1
		}
		defer func() { _ = jobsCLI.Close() }()
		if command == "queue" {
			return jobsCLI.QueueCommand(ctx, stdout, stderr)
		}
		fs := flag.NewFlagSet("trigger", flag.ContinueOnError)
		fs.SetOutput(stderr)
		if err := fs.Parse(rest); err != nil {
			return 2
		}
		return jobsCLI.TriggerCommand(ctx, cli.TriggerOptions{Task: fs.Arg(0), Stdout: stdout, Stderr: stderr})
	case "seed", "reset", "export":
	default:
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n\n%s", command, usage)
		return 2
	}

	if cfg.StoreDriver == kv.DriverMemory {
		_, _ = fmt.Fprintln(stderr, "warning: STORE_DRIVER=memory, changes vanish when this command exits")
	}
	kvStore, closeStore, err := kv.Open(ctx, cfg.StoreOptions())
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "open store: %v\n", err)
		return 1
	}
	defer closeStore()

	repo := store.New(kvStore, logger, nil, store.Options{DefaultLowStockThreshold: &cfg.DefaultLowStockThreshold})
	dataCLI, err := cli.NewDataCLI(repo, settings.NewService(repo, logger))
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}

	switch command {
	case "seed":
		fs := flag.NewFlagSet("seed", flag.ContinueOnError)
		fs.SetOutput(stderr)
		jsonOut := fs.Bool("json", false, "print a JSON summary")
		preset, flagArgs := splitPositional(rest)
		if err := fs.Parse(flagArgs); err != nil {
			return 2
		}
		if preset == "" {
			preset = fs.Arg(0)
		}
		return dataCLI.SeedCommand(ctx, cli.SeedOptions{Preset: preset, JSONOutput: *jsonOut, Stdout: stdout, Stderr: stderr})
	case "reset":
		fs := flag.NewFlagSet("reset", flag.ContinueOnError)
		fs.SetOutput(stderr)
		confirm := fs.Bool("confirm", false, "confirm deleting all data")
		if err := fs.Parse(rest); err != nil {
			return 2
		}
		return dataCLI.ResetCommand(ctx, cli.ResetOptions{Confirm: *confirm, Stdout: stdout, Stderr: stderr})
	default:
		return dataCLI.ExportCommand(ctx, cli.ExportOptions{Stdout: stdout, Stderr: stderr})
	}
}

// splitPositional lets the preset come before or after the flags.
func splitPositional(args []string) (string, []string) {
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		return args[0], args[1:]
	}
	return "", args
}
