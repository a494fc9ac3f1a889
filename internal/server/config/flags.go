package config

import (
	"flag"
	"os"

	"github.com/avilovp/mediashuttle/internal/flagx"
)

// parseFlags overlays selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   bind address of the HTTP endpoint
//	-d string   PostgreSQL DSN
//	-k string   JWT HMAC secret
//	-m int      advertised max file size, bytes
//	-q int      per-user daily quota, bytes
//
// Args are filtered to the flags handled here so other components' flags
// do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-k", "-m", "-q"})

	fs := flag.NewFlagSet("shuttled", flag.ContinueOnError)

	fs.StringVar(&cfg.EndpointAddr, "a", cfg.EndpointAddr, "address and port to listen on")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "postgres dsn")
	fs.StringVar(&cfg.SecretKey, "k", cfg.SecretKey, "jwt hmac secret")
	fs.Int64Var(&cfg.MaxFileSize, "m", cfg.MaxFileSize, "max file size in bytes")
	fs.Int64Var(&cfg.DailyQuota, "q", cfg.DailyQuota, "per-user daily quota in bytes")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
