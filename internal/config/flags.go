package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/posvault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-n", "-b", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the client database file")
	fs.Int64Var(&cfg.MaxQueueItems, "n", cfg.MaxQueueItems, "maximum number of queued offline actions")
	fs.Int64Var(&cfg.MaxQueueBytes, "b", cfg.MaxQueueBytes, "maximum total encrypted payload bytes")
	fs.IntVar(&cfg.ReceiptHistoryLimit, "r", cfg.ReceiptHistoryLimit, "receipt history length")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
