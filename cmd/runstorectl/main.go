package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/GoCodeAlone/runstore/artifact"
	"github.com/GoCodeAlone/runstore/config"
)

var version = "dev"

var commands = map[string]func(context.Context, *artifact.Store, []string) error{
	"list":   runList,
	"cat":    runCat,
	"verify": runVerify,
	"purge":  runPurge,
}

func usage() {
	fmt.Fprintf(os.Stderr, `runstorectl - artifact store audit CLI (version %s)

Usage:
  runstorectl <command> [args]

Commands:
  list <tenant> <run>                  List object keys under a run
  cat <tenant> <run> <step> [file]     Print an artifact's bytes to stdout
  verify                               Verify references read as JSON from stdin
  purge <tenant> <run>                 Delete every artifact under a run

Configuration is read from RUNSTORE_* environment variables:
ENDPOINT (localhost:9000), ACCESS_KEY (minioadmin), SECRET_KEY (minioadmin),
USE_TLS (false), BUCKET (runstore-artifacts), REGION (us-east-1).
`, version)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "runstorectl: load config: %v\n", err)
		os.Exit(1)
	}
	backend, err := cfg.Backend(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "runstorectl: build backend: %v\n", err)
		os.Exit(1)
	}
	store := artifact.NewStore(backend, artifact.WithLogger(logger))

	if err := cmd(ctx, store, os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "runstorectl: %v\n", err)
		os.Exit(1)
	}
}

func runList(ctx context.Context, store *artifact.Store, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: list <tenant> <run>")
	}
	keys, err := store.ListRun(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	for _, key := range keys {
		fmt.Println(key)
	}
	return nil
}

func runCat(ctx context.Context, store *artifact.Store, args []string) error {
	if len(args) != 3 && len(args) != 4 {
		return fmt.Errorf("usage: cat <tenant> <run> <step> [file]")
	}
	filename := ""
	if len(args) == 4 {
		filename = args[3]
	}
	path, err := artifact.BuildPath(args[0], args[1], args[2], filename)
	if err != nil {
		return err
	}
	data, err := store.GetPath(ctx, path)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

// runVerify reads a JSON array of references from stdin (the shape the
// orchestration engine stores in workflow history) and re-checks each one
// against the bytes currently in the backend.
func runVerify(ctx context.Context, store *artifact.Store, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("usage: verify < refs.json")
	}
	var refs []artifact.Ref
	if err := json.NewDecoder(os.Stdin).Decode(&refs); err != nil {
		return fmt.Errorf("decode references: %w", err)
	}

	failures := 0
	for _, ref := range refs {
		if err := store.Verify(ctx, ref); err != nil {
			failures++
			fmt.Printf("FAIL %s: %v\n", ref.Path, err)
			continue
		}
		fmt.Printf("OK   %s\n", ref.Path)
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d references failed verification", failures, len(refs))
	}
	return nil
}

func runPurge(ctx context.Context, store *artifact.Store, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: purge <tenant> <run>")
	}
	count, err := store.DeleteRun(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Printf("deleted %d objects\n", count)
	return nil
}
