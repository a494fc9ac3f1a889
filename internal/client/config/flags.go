package config

import (
	"flag"
	"os"
	"strings"

	"github.com/avilovp/mediashuttle/internal/flagx"
)

// parseFlags overlays selected Config fields from command-line flags.
//
// Supported flags:
//
//	-s string   comma-separated upload service base URLs
//	-t string   bearer token for slot requests
//	-b string   blob directory
//	-db string  transfer state database path
//
// Args are filtered to the flags handled here so subcommands and their
// flags do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-t", "-b", "-db"})

	fs := flag.NewFlagSet("shuttle", flag.ContinueOnError)

	servers := fs.String("s", strings.Join(cfg.Servers, ","), "comma-separated service base urls")
	fs.StringVar(&cfg.Token, "t", cfg.Token, "bearer token")
	fs.StringVar(&cfg.BlobDir, "b", cfg.BlobDir, "blob directory")
	fs.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "state database path")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *servers != "" {
		cfg.Servers = strings.Split(*servers, ",")
	}
}
