package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/foldcms/foldcms-go/internal/assetsync"
	"github.com/foldcms/foldcms-go/internal/builder"
	"github.com/foldcms/foldcms-go/internal/cms"
	"github.com/foldcms/foldcms-go/internal/config"
	"github.com/foldcms/foldcms-go/internal/store"
)

var CLI struct {
	Config  string `short:"c" help:"Project file path" default:"foldcms.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Concurrency int  `help:"Collections built in parallel (overrides config)"`
		Incremental bool `short:"i" help:"Skip records whose content hash is unchanged"`
	} `cmd:"" help:"Run every collection pipeline into the content store"`

	Get struct {
		Collection string `arg:"" help:"Collection name"`
		ID         string `arg:"" help:"Record id"`
	} `cmd:"" help:"Print one record as JSON"`

	List struct {
		Collection string `arg:"" help:"Collection name"`
	} `cmd:"" help:"Print every record of a collection as JSON lines"`

	Status struct{} `cmd:"" help:"Print content store statistics"`

	Assets struct {
		Concurrency int `help:"Parallel uploads" default:"8"`
	} `cmd:"" help:"Mirror the asset folder into the configured target by content hash"`
}

func main() {
	kctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var exitErr error
	switch kctx.Command() {
	case "build":
		exitErr = runBuild(ctx, cfg)
	case "get <collection> <id>":
		exitErr = runGet(ctx, cfg, CLI.Get.Collection, CLI.Get.ID)
	case "list <collection>":
		exitErr = runList(ctx, cfg, CLI.List.Collection)
	case "status":
		exitErr = runStatus(ctx, cfg)
	case "assets":
		exitErr = runAssets(ctx, cfg)
	}
	if exitErr != nil {
		slog.Error("Command failed", "error", exitErr)
		os.Exit(1)
	}
}

func openFacade(cfg *config.Config) (*cms.CMS, store.Store, error) {
	st, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return nil, nil, err
	}

	collections, err := cfg.Materialize()
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	var opts []cms.Option
	if cfg.LenientRelations {
		opts = append(opts, cms.WithLenientRelations())
	}
	facade, err := cms.New(st, collections, opts...)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return facade, st, nil
}

func runBuild(ctx context.Context, cfg *config.Config) error {
	facade, st, err := openFacade(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	concurrency := cfg.Build.Concurrency
	if CLI.Build.Concurrency > 0 {
		concurrency = CLI.Build.Concurrency
	}

	b := builder.New(st, &builder.Config{
		Concurrency: concurrency,
		Incremental: cfg.Build.Incremental || CLI.Build.Incremental,
	})
	stats, err := b.Build(ctx, facade.Collections())
	if err != nil {
		return err
	}

	names := make([]string, 0, len(stats.Collections))
	for name := range stats.Collections {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cs := stats.Collections[name]
		fmt.Printf("%-20s stored=%d skipped=%d failed=%d (%s)\n",
			name, cs.Stored, cs.Skipped, cs.Failed, cs.Duration.Round(time.Millisecond))
	}
	for _, msg := range stats.ErrorMessages {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	}
	fmt.Printf("build finished in %s\n", stats.Duration.Round(time.Millisecond))
	return nil
}

func runGet(ctx context.Context, cfg *config.Config, collection, id string) error {
	facade, st, err := openFacade(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := facade.MustGetByID(ctx, collection, id)
	if err != nil {
		return err
	}
	return printJSON(rec)
}

func runList(ctx context.Context, cfg *config.Config, collection string) error {
	facade, st, err := openFacade(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	recs, err := facade.GetAll(ctx, collection)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if err := printJSON(rec); err != nil {
			return err
		}
	}
	return nil
}

func runStatus(ctx context.Context, cfg *config.Config) error {
	_, st, err := openFacade(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := st.Stats(ctx)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(stats.Collections))
	for name := range stats.Collections {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%-20s %d records\n", name, stats.Collections[name])
	}
	fmt.Printf("total: %d records, %.2f MB\n", stats.TotalRows, stats.SizeMB)
	return nil
}

func runAssets(ctx context.Context, cfg *config.Config) error {
	if cfg.Assets == nil {
		return fmt.Errorf("no assets section in %s", CLI.Config)
	}

	storage := &assetsync.DirStorage{Root: cfg.Assets.Target}
	report, err := assetsync.Sync(ctx, cfg.Assets.Folder, storage, &assetsync.Config{
		Prefix:         cfg.Assets.Prefix,
		Concurrency:    CLI.Assets.Concurrency,
		DeleteOrphaned: cfg.Assets.DeleteOrphaned,
	})
	if err != nil {
		return err
	}
	fmt.Printf("uploaded=%d skipped=%d deleted=%d (%s)\n",
		len(report.Uploaded), len(report.Skipped), len(report.Deleted),
		report.Duration.Round(time.Millisecond))
	return nil
}

func printJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Println(string(data))
	return err
}
