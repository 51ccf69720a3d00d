package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/wesm/agendastats/internal/agenda"
	"github.com/wesm/agendastats/internal/analytics"
	"github.com/wesm/agendastats/internal/config"
)

func runSnapshot(args []string) {
	cfg, rest := mustLoadConfig("snapshot", args, nil)
	path := singleFile("snapshot", rest)

	snap, err := computeFile(cfg, path, time.Now())
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := writeJSON(os.Stdout, snap); err != nil {
		log.Fatalf("writing snapshot: %v", err)
	}
}

func runList(args []string) {
	var view string
	cfg, rest := mustLoadConfig("list", args, func(fs *flag.FlagSet) {
		fs.StringVar(&view, "view", string(analytics.ViewAll),
			"Listing view: all, replies, views")
	})
	path := singleFile("list", rest)

	in, err := readAgenda(path)
	if err != nil {
		log.Fatalf("%v", err)
	}
	records, err := analytics.Select(
		in.Records, analytics.View(view), cfg.TopN,
	)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := writeJSON(os.Stdout, records); err != nil {
		log.Fatalf("writing records: %v", err)
	}
}

func readAgenda(path string) (agenda.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return agenda.Input{}, fmt.Errorf("reading agenda: %w", err)
	}
	in, err := agenda.Decode(data)
	if err != nil {
		return agenda.Input{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return in, nil
}

// computeFile reads an agenda document and derives its
// snapshot as of now.
func computeFile(
	cfg config.Config, path string, now time.Time,
) (analytics.Snapshot, error) {
	in, err := readAgenda(path)
	if err != nil {
		return analytics.Snapshot{}, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return analytics.Snapshot{}, err
	}
	snap, err := analytics.Compute(in, analytics.Options{
		Now:      now,
		Location: loc,
		TopN:     cfg.TopN,
	})
	if err != nil {
		return analytics.Snapshot{}, fmt.Errorf(
			"computing snapshot for %s: %w", path, err,
		)
	}
	return snap, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
