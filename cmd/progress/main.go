package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"dictee/internal/config"
	"dictee/internal/logger"
	"dictee/internal/models"
	"dictee/internal/repository"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	clearCmd := flag.NewFlagSet("clear", flag.ExitOnError)

	exportDevice := exportCmd.String("device", "", "Device id (required)")
	exportOutput := exportCmd.String("output", "", "Output file path (default: progress_<device>_YYYYMMDD_HHMMSS.json)")

	importDevice := importCmd.String("device", "", "Device id (required)")
	importInput := importCmd.String("input", "", "Input file path (required)")
	importMerge := importCmd.Bool("merge", false, "Merge with existing progress instead of replacing it")

	clearDevice := clearCmd.String("device", "", "Device id (required)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg := config.Load()
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()
	store, closeStore, err := repository.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open progress store", "error", err)
	}
	defer closeStore()

	repoFor := func(fs *flag.FlagSet, device string) *repository.ProgressRepository {
		if _, err := uuid.Parse(device); err != nil {
			fmt.Printf("Error: -device must be a device id: %v\n", err)
			fs.PrintDefaults()
			os.Exit(1)
		}
		return repository.NewProgressRepository(store, repository.DeviceProgressKey(device, cfg.ProgressKey), log)
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		repo := repoFor(exportCmd, *exportDevice)
		path := *exportOutput
		if path == "" {
			path = fmt.Sprintf("progress_%s_%s.json", *exportDevice, time.Now().Format("20060102_150405"))
		}
		f, err := os.Create(path)
		if err != nil {
			log.Fatal("Failed to create output file", "error", err)
		}
		defer f.Close()
		n, err := exportProgress(ctx, repo, f)
		if err != nil {
			log.Fatal("Export failed", "error", err)
		}
		log.Info("Export complete", "file", path, "words", n)

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		repo := repoFor(importCmd, *importDevice)
		f, err := os.Open(*importInput)
		if err != nil {
			log.Fatal("Failed to open input file", "error", err)
		}
		defer f.Close()
		n, err := importProgress(ctx, repo, f, *importMerge)
		if err != nil {
			log.Fatal("Import failed", "error", err)
		}
		log.Info("Import complete", "words", n, "merge", *importMerge)

	case "clear":
		clearCmd.Parse(os.Args[2:])
		repo := repoFor(clearCmd, *clearDevice)
		if err := repo.Clear(ctx); err != nil {
			log.Fatal("Clear failed", "error", err)
		}
		log.Info("Progress cleared", "device", *clearDevice)

	default:
		printUsage()
		os.Exit(1)
	}
}

type progressStore interface {
	Load(ctx context.Context) (models.ProgressMap, error)
	Save(ctx context.Context, progress models.ProgressMap) error
}

func exportProgress(ctx context.Context, store progressStore, w io.Writer) (int, error) {
	progress, err := store.Load(ctx)
	if err != nil {
		return 0, err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(progress); err != nil {
		return 0, fmt.Errorf("failed to encode progress: %w", err)
	}
	return len(progress), nil
}

// importProgress writes a progress blob. With merge, imported entries
// replace existing ones only when they were practiced more recently.
func importProgress(ctx context.Context, store progressStore, r io.Reader, merge bool) (int, error) {
	var incoming models.ProgressMap
	if err := json.NewDecoder(r).Decode(&incoming); err != nil {
		return 0, fmt.Errorf("failed to decode progress: %w", err)
	}
	for id, p := range incoming {
		if p.WordID == "" {
			p.WordID = id
			incoming[id] = p
		}
	}

	if merge {
		existing, err := store.Load(ctx)
		if err != nil {
			return 0, err
		}
		for id, p := range incoming {
			if cur, ok := existing[id]; ok && !p.LastPracticed.After(cur.LastPracticed) {
				continue
			}
			existing[id] = p
		}
		incoming = existing
	}

	if err := store.Save(ctx, incoming); err != nil {
		return 0, err
	}
	return len(incoming), nil
}

func printUsage() {
	fmt.Println("Dictée Progress Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  progress export -device <id> [-output <file>]   Export a device's progress to JSON")
	fmt.Println("  progress import -device <id> -input <file>      Replace a device's progress")
	fmt.Println("  progress import -device <id> -input <file> -merge")
	fmt.Println("  progress clear -device <id>                     Delete a device's progress")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  STORE_BACKEND    sql, redis or memory (default: sql)")
	fmt.Println("  DB_TYPE          sqlite, postgres or mysql (default: sqlite)")
	fmt.Println("  DB_PATH          SQLite database path (default: ./dictee.db)")
	fmt.Println("  DATABASE_URL     PostgreSQL or MySQL connection URL")
	fmt.Println("  REDIS_URL        Redis connection URL")
}
