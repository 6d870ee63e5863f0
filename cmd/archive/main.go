package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/testsabirweb/slack_archive/internal/config"
	"github.com/testsabirweb/slack_archive/pkg/api"
	"github.com/testsabirweb/slack_archive/pkg/archive"
	"github.com/testsabirweb/slack_archive/pkg/index"
	"github.com/testsabirweb/slack_archive/pkg/render"
	"github.com/testsabirweb/slack_archive/pkg/search"
	"github.com/testsabirweb/slack_archive/pkg/stats"
	"github.com/testsabirweb/slack_archive/pkg/store"
	"github.com/testsabirweb/slack_archive/pkg/thread"
)

func main() {
	// Define command-line flags
	var (
		path      = flag.String("path", "", "Archive root directory (overrides ARCHIVE_ROOT)")
		layout    = flag.String("layout", "", "Archive layout: 'export' or 'history' (overrides ARCHIVE_LAYOUT)")
		out       = flag.String("out", "", "Output file path, or directory with -per-thread (default: stdout)")
		perThread = flag.Bool("per-thread", false, "Write one file per thread under the -out directory")
		channel   = flag.String("channel", "", "Restrict to one channel by name or ID")
		format    = flag.String("format", "md", "Render format for the rethread action: html, md, txt, or links")
		overrides = flag.String("overrides", "", "JSON file mapping message ts to corrected parent ts (rethread)")
		dbPath    = flag.String("db", "", "SQLite database path for to-sqlite (overrides SQLITE_PATH)")
		docs      = flag.String("docs", "html,md", "Comma-separated formats stored as thread documents by to-sqlite")
		topN      = flag.Int("top", 20, "How many entries to list for emojistats")
		workers   = flag.Int("workers", 0, "Concurrent file readers (overrides ARCHIVE_WORKERS)")
		help      = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	action := flag.Arg(0)
	if *help || action == "" {
		printUsage()
		os.Exit(0)
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *path != "" {
		cfg.Archive.Root = *path
	}
	if *layout != "" {
		cfg.Archive.Layout = *layout
	}
	if *workers > 0 {
		cfg.Archive.Workers = *workers
	}
	if *dbPath != "" {
		cfg.Store.Path = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()

	a, forests, err := loadForests(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to load archive: %v", err)
	}
	if *channel != "" {
		forests, err = selectChannel(a, forests, *channel)
		if err != nil {
			log.Fatalf("%v", err)
		}
	}

	switch action {
	case "html", "md", "txt", "links":
		f, err := render.ParseFormat(action)
		if err != nil {
			log.Fatalf("%v", err)
		}
		if err := renderAction(f, a, forests, *out, *perThread); err != nil {
			log.Fatalf("Render failed: %v", err)
		}

	case "emojistats":
		if err := writeOutput(*out, emojiReport(a, forests, *topN)); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}

	case "linkstats":
		if err := writeOutput(*out, linkReport(a, forests)); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}

	case "rethread":
		if err := rethreadAction(a, forests, *overrides, *format, *out, *perThread); err != nil {
			log.Fatalf("Rethread failed: %v", err)
		}

	case "to-sqlite":
		if err := toSQLite(ctx, cfg, a, forests, *docs); err != nil {
			log.Fatalf("SQLite projection failed: %v", err)
		}

	case "index":
		if err := pushIndex(ctx, cfg, a, forests); err != nil {
			log.Fatalf("Index projection failed: %v", err)
		}

	case "serve":
		serve(cfg, a, forests)

	default:
		log.Fatalf("Unknown action: %s", action)
	}
}

// loadForests opens the archive, loads all channels, and reconstructs
// every channel's threads.
func loadForests(ctx context.Context, cfg *config.Config) (*archive.Archive, map[string]*thread.Forest, error) {
	layout, err := archive.ParseLayout(cfg.Archive.Layout)
	if err != nil {
		return nil, nil, err
	}

	a, err := archive.Open(cfg.Archive.Root, layout)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	if err := a.Load(ctx, cfg.Archive.Workers); err != nil {
		return nil, nil, err
	}
	log.Printf("Loaded %d channels in %s", len(a.Messages), time.Since(start).Round(time.Millisecond))

	for _, loadErr := range a.Errors {
		log.Printf("Load error: %v", loadErr)
	}
	if len(a.Diagnostics) > 0 {
		log.Printf("%d diagnostics recorded during load", len(a.Diagnostics))
	}

	return a, thread.ReconstructAll(a.Messages), nil
}

// selectChannel narrows the forests to one channel, addressed by name
// or ID.
func selectChannel(a *archive.Archive, forests map[string]*thread.Forest, key string) (map[string]*thread.Forest, error) {
	if f, ok := forests[key]; ok {
		return map[string]*thread.Forest{key: f}, nil
	}
	if ch := a.ChannelByName(key); ch != nil {
		if f, ok := forests[ch.ID]; ok {
			return map[string]*thread.Forest{ch.ID: f}, nil
		}
	}
	return nil, fmt.Errorf("channel %q not found in archive", key)
}

func sortedIDs(forests map[string]*thread.Forest) []string {
	ids := make([]string, 0, len(forests))
	for id := range forests {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// renderAction renders every selected forest, either concatenated to
// one output or split one file per thread.
func renderAction(f render.Format, a *archive.Archive, forests map[string]*thread.Forest, out string, perThread bool) error {
	if perThread {
		return renderPerThread(f, a, forests, out)
	}

	var parts []string
	for _, id := range sortedIDs(forests) {
		rendered, err := render.Forest(f, forests[id], a)
		if err != nil {
			return err
		}
		parts = append(parts, rendered)
	}
	return writeOutput(out, strings.Join(parts, "\n"))
}

func renderPerThread(f render.Format, a *archive.Archive, forests map[string]*thread.Forest, out string) error {
	if out == "" {
		return fmt.Errorf("-per-thread requires -out directory")
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ext := map[render.Format]string{
		render.FormatHTML:     ".html",
		render.FormatMarkdown: ".md",
		render.FormatText:     ".txt",
		render.FormatLinks:    ".txt",
	}[f]

	written := 0
	for _, id := range sortedIDs(forests) {
		forest := forests[id]
		for i := range forest.Threads {
			t := &forest.Threads[i]
			rendered, err := render.Thread(f, t, a)
			if err != nil {
				return err
			}
			name := fmt.Sprintf("%s-%s%s", id, strings.ReplaceAll(t.Root.TS, ".", "_"), ext)
			if err := os.WriteFile(filepath.Join(out, name), []byte(rendered), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", name, err)
			}
			written++
		}
	}
	log.Printf("Wrote %d thread files to %s", written, out)
	return nil
}

// rethreadAction re-runs reconstruction with corrected parent links
// from the overrides file, then renders the result.
func rethreadAction(a *archive.Archive, forests map[string]*thread.Forest, overridesPath, formatName, out string, perThread bool) error {
	if overridesPath == "" {
		return fmt.Errorf("rethread requires -overrides file")
	}

	f, err := render.ParseFormat(formatName)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(overridesPath)
	if err != nil {
		return fmt.Errorf("failed to read overrides: %w", err)
	}
	var overrides map[string]string
	if err := json.Unmarshal(raw, &overrides); err != nil {
		return fmt.Errorf("failed to parse overrides: %w", err)
	}

	rethreaded := make(map[string]*thread.Forest, len(forests))
	for id := range forests {
		rethreaded[id] = thread.Rethread(id, a.Messages[id], overrides)
	}

	return renderAction(f, a, rethreaded, out, perThread)
}

// emojiReport folds emoji counts over the selected channels and
// formats the global ranking plus one ranking per channel.
func emojiReport(a *archive.Archive, forests map[string]*thread.Forest, topN int) string {
	acc := stats.NewEmojiStats()
	for _, id := range sortedIDs(forests) {
		acc = stats.CountEmoji(acc, id, a.Messages[id])
	}

	var b strings.Builder
	b.WriteString("# global\n")
	for _, ec := range acc.Top(topN) {
		fmt.Fprintf(&b, "%d\t:%s:\n", ec.Count, ec.Name)
	}
	for _, id := range sortedIDs(forests) {
		ranked := acc.TopInChannel(id, topN)
		if len(ranked) == 0 {
			continue
		}
		fmt.Fprintf(&b, "# %s\n", a.ChannelName(id))
		for _, ec := range ranked {
			fmt.Fprintf(&b, "%d\t:%s:\n", ec.Count, ec.Name)
		}
	}
	return b.String()
}

// linkReport folds link references over the selected channels and
// lists each URL with its count and referencing messages.
func linkReport(a *archive.Archive, forests map[string]*thread.Forest) string {
	acc := stats.NewLinkStats()
	for _, id := range sortedIDs(forests) {
		acc = stats.CountLinks(acc, id, a.Messages[id])
	}

	var b strings.Builder
	for _, stat := range acc.ByCount() {
		fmt.Fprintf(&b, "%d\t%s\n", stat.Count, stat.URL)
		for _, ref := range stat.Refs {
			fmt.Fprintf(&b, "\t%s:%s\n", ref.ChannelID, ref.TS)
		}
	}
	return b.String()
}

// toSQLite rebuilds the relational projection in a single transaction.
func toSQLite(ctx context.Context, cfg *config.Config, a *archive.Archive, forests map[string]*thread.Forest, docs string) error {
	var formats []render.Format
	for _, name := range strings.Split(docs, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		f, err := render.ParseFormat(name)
		if err != nil {
			return err
		}
		formats = append(formats, f)
	}

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	snap := store.SnapshotFromArchive(a, forests)
	start := time.Now()
	if err := st.Rebuild(ctx, snap, store.Options{RenderFormats: formats, Resolver: a}); err != nil {
		return err
	}
	log.Printf("Rebuilt %s in %s", cfg.Store.Path, time.Since(start).Round(time.Millisecond))
	return nil
}

// pushIndex projects the forests into search documents and upserts
// them batch by batch.
func pushIndex(ctx context.Context, cfg *config.Config, a *archive.Archive, forests map[string]*thread.Forest) error {
	client, err := index.NewWeaviateClient(cfg.Weaviate.Scheme, cfg.Weaviate.Host, cfg.Weaviate.APIKey)
	if err != nil {
		return err
	}
	if err := client.HealthCheck(ctx); err != nil {
		return err
	}
	if err := client.Initialize(ctx); err != nil {
		return err
	}

	projector := search.NewProjector(forests, a)
	batches := projector.Batches(cfg.Weaviate.BatchSize)

	pushed := 0
	for {
		docs, ok := batches.Next()
		if !ok {
			break
		}
		if err := client.UpsertBatch(ctx, docs); err != nil {
			return err
		}
		pushed += len(docs)
		log.Printf("Indexed %d/%d documents", pushed, projector.Len())
	}
	return nil
}

// serve runs the HTTP API over the loaded archive until interrupted.
func serve(cfg *config.Config, a *archive.Archive, forests map[string]*thread.Forest) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := api.NewHub()
	go hub.Run(ctx)

	server := api.NewServer(a, forests, hub)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func writeOutput(out, content string) error {
	if out == "" {
		_, err := os.Stdout.WriteString(content)
		return err
	}
	return os.WriteFile(out, []byte(content), 0o644)
}

func printUsage() {
	fmt.Println("Slack Archive Tool")
	fmt.Println("\nUsage:")
	fmt.Println("  archive [options] <action>")
	fmt.Println("\nActions:")
	fmt.Println("  html | md | txt | links   Render reconstructed threads")
	fmt.Println("  emojistats                Rank emoji usage")
	fmt.Println("  linkstats                 List referenced URLs with counts")
	fmt.Println("  rethread                  Re-link threads using -overrides, then render")
	fmt.Println("  to-sqlite                 Rebuild the relational projection")
	fmt.Println("  index                     Push documents to the search index")
	fmt.Println("  serve                     Serve the archive over HTTP")
	fmt.Println("\nOptions:")
	flag.PrintDefaults()
	fmt.Println("\nExamples:")
	fmt.Println("  # Render a whole export archive as markdown")
	fmt.Println("  archive -path export/ -layout export md")
	fmt.Println("\n  # One HTML file per thread for a single channel")
	fmt.Println("  archive -path export/ -channel general -out threads/ -per-thread html")
	fmt.Println("\n  # Project into SQLite with stored HTML thread documents")
	fmt.Println("  archive -path export/ -db archive.db -docs html to-sqlite")
}
