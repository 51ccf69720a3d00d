package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	_ "time/tzdata"

	"github.com/wesm/agendastats/internal/config"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = ""
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "snapshot":
		runSnapshot(os.Args[2:])
	case "list":
		runList(os.Args[2:])
	case "watch":
		runWatch(os.Args[2:])
	case "version", "--version", "-v":
		fmt.Printf("agendastats %s (commit %s, built %s)\n",
			version, commit, buildDate)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(2)
	}
}

func printUsage() {
	fmt.Printf(`agendastats %s - engagement analytics for agenda replies

Reads an agenda document exported from the backend and derives
KPIs, per-day reply counts, the engagement timeline, top replies
and the engagement breakdown.

Usage:
  agendastats snapshot [flags] FILE   Print the analytics snapshot as JSON
  agendastats list [flags] FILE       Print the records for a listing view
  agendastats watch [flags] FILE      Reprint the snapshot whenever FILE changes
  agendastats version                 Show version information
  agendastats help                    Show this help

Flags:
  -timezone string    IANA time zone for day bucketing (default local)
  -top int            Replies in each ranked table (default 5)
  -debounce duration  Quiet period before recomputing in watch mode (default 500ms)
  -view string        Listing view for list: all, replies, views (default "all")

Environment variables:
  AGENDASTATS_DATA_DIR    Data directory (config.json, .env, debug.log)
  AGENDASTATS_TIMEZONE    Default time zone
  AGENDASTATS_TOP_N       Default ranked table size

Configuration is read from ~/.agendastats/ by default.
`, version)
}

// mustLoadConfig parses args for the named command and returns
// the layered config plus the positional arguments. extra may
// register command-specific flags.
func mustLoadConfig(
	name string, args []string, extra func(*flag.FlagSet),
) (config.Config, []string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			"Usage: agendastats %s [flags] FILE\n\nFlags:\n", name)
		fs.PrintDefaults()
	}
	config.RegisterFlags(fs)
	if extra != nil {
		extra(fs)
	}
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parsing flags: %v", err)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	return cfg, fs.Args()
}

// singleFile returns the one positional argument or exits.
func singleFile(name string, rest []string) string {
	if len(rest) != 1 {
		fmt.Fprintf(os.Stderr,
			"Usage: agendastats %s [flags] FILE\n", name)
		os.Exit(2)
	}
	return rest[0]
}
