// Package cli implements the shuttle command-line client: it wires the
// discovery registry, slot negotiation and the transfer coordinator into
// upload and download commands.
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	"github.com/avilovp/mediashuttle/internal/client/config"
	"github.com/avilovp/mediashuttle/internal/discovery"
	"github.com/avilovp/mediashuttle/internal/logging"
	"github.com/avilovp/mediashuttle/internal/slot"
	"github.com/avilovp/mediashuttle/internal/store/blobfs"
	sqlitestore "github.com/avilovp/mediashuttle/internal/store/sqlite"
	"github.com/avilovp/mediashuttle/internal/transfer"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	registry    *discovery.Registry
	coordinator *transfer.Coordinator
	out         *os.File
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	logger := logging.NewText(os.Stderr)

	db, err := sql.Open("sqlite", c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening state database: %w", err)
	}
	if err := sqlitestore.Migrate(ctx, db); err != nil {
		return nil, fmt.Errorf("migrating state database: %w", err)
	}

	blobs, err := blobfs.New(c.BlobDir)
	if err != nil {
		return nil, fmt.Errorf("opening blob dir: %w", err)
	}

	client := &http.Client{Timeout: c.RequestTimeout}

	registry := discovery.NewRegistry(discovery.NewHTTPTransport(c.Servers, client), logger)
	negotiator := slot.NewHTTPNegotiator(client, c.Token)
	messages := sqlitestore.NewMessageStore(db)

	coordinator := transfer.NewCoordinator(registry, negotiator, blobs, messages, client, logger)

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		registry:    registry,
		coordinator: coordinator,
		out:         os.Stdout,
	}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  shuttle [flags] upload [-e] <path>
  shuttle [flags] download <url>

flags:
  -s   comma-separated service base urls
  -t   bearer token
  -b   blob directory
  -db  state database path`)
}

// Run dispatches the subcommand. The config flags have been consumed
// already; the first recognized command word starts the command args.
func (a *App) Run(ctx context.Context) error {
	cmd, rest := splitCommand(os.Args[1:])

	switch cmd {
	case "upload":
		return a.runUpload(ctx, rest)
	case "download":
		return a.runDownload(ctx, rest)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// splitCommand finds the first recognized command word and returns it
// with the args that follow. Config flags before it are skipped.
func splitCommand(args []string) (string, []string) {
	for i, arg := range args {
		if arg == "upload" || arg == "download" {
			return arg, args[i+1:]
		}
	}
	return "", nil
}

func (a *App) runUpload(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	encrypt := fs.Bool("e", false, "encrypt the payload")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		usage()
		return fmt.Errorf("upload needs exactly one path")
	}
	path := fs.Arg(0)

	if err := a.registry.Refresh(ctx); err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	res := <-a.coordinator.Upload(ctx, transfer.UploadRequest{
		Path:    path,
		Encrypt: *encrypt,
	})
	if res.Err != nil {
		return res.Err
	}

	fmt.Fprintln(a.out, res.URL)
	return nil
}

func (a *App) runDownload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		usage()
		return fmt.Errorf("download needs exactly one url")
	}

	res := <-a.coordinator.Download(ctx, args[0], "")
	if res.Err != nil {
		return res.Err
	}

	fmt.Fprintln(a.out, res.Locator)
	return nil
}
