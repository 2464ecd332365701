// indicate transliterates Hindi and Marathi text into readable Roman script
// and manages the learned exception store.
//
//	indicate [flags] [text ...]          transliterate args, or stdin when none
//	indicate [flags] learn < batch.tsv   learn from original<TAB>auto[<TAB>corrected] lines
//	indicate [flags] add WORD ROMAN      add a learned exception
//	indicate [flags] remove WORD         remove a learned exception
//	indicate [flags] list                print the learned tier
//	indicate setup                       write a .env file interactively
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/jusunglee/indicate/internal/db"
	"github.com/jusunglee/indicate/internal/db/jsonfile"
	"github.com/jusunglee/indicate/internal/db/postgres"
	"github.com/jusunglee/indicate/internal/db/sqlite"
	"github.com/jusunglee/indicate/internal/envsetup"
	"github.com/jusunglee/indicate/internal/jobs"
	"github.com/jusunglee/indicate/internal/lang"
	"github.com/jusunglee/indicate/internal/logger"
	"github.com/jusunglee/indicate/internal/transliteration"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/samber/lo"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))

	wordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229"))

	romanStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func main() {
	if err := mainE(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func mainE() error {
	if len(os.Args) > 1 && os.Args[1] == "setup" {
		return runSetup()
	}
	_ = godotenv.Load()

	fs := ff.NewFlagSet("indicate")
	var (
		language    = fs.StringEnumLong("source-language", "Source text language", "hindi", "marathi", "english")
		store       = fs.StringEnumLong("store", "Learned exception store", envsetup.StoreJSON, envsetup.StoreSQLite, envsetup.StorePostgres, "memory")
		dataDir     = fs.StringLong("data-dir", "./data", "Directory for JSON learned exception files")
		sqlitePath  = fs.StringLong("sqlite-path", "./indicate.db", "SQLite database path")
		databaseURL = fs.StringLong("database-url", "", "PostgreSQL connection URL")
		features    = fs.StringLong("features", "", "Comma-separated feature overrides, e.g. statistical_schwa=false")
		cacheSize   = fs.Int64Long("cache-size", transliteration.DefaultCacheSize, "Per-word memo cache entries")
		enqueue     = fs.BoolLong("enqueue", "Queue learn batches for the worker instead of learning in-process")
	)

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVars()); err != nil {
		fmt.Printf("%s\n", ffhelp.Flags(fs))
		return fmt.Errorf("parsing flags: %w", err)
	}

	l, err := lang.Parse(*language)
	if err != nil {
		return err
	}
	overrides, err := transliteration.ParseOverrides(splitList(*features))
	if err != nil {
		return fmt.Errorf("parsing features: %w", err)
	}

	ctx := context.Background()
	log := logger.New()
	if envsetup.NeedsSetup() {
		log.Debug("no .env file found, run `indicate setup` to create one")
	}

	args := fs.GetArgs()
	command := "transliterate"
	if len(args) > 0 && slices.Contains([]string{"learn", "add", "remove", "list"}, args[0]) {
		command, args = args[0], args[1:]
	}

	repo, closeRepo, err := openRepository(ctx, *store, *dataDir, *sqlitePath, *databaseURL)
	if err != nil {
		return err
	}
	defer closeRepo()

	if command == "learn" && *enqueue {
		pg, ok := repo.(*postgres.Repository)
		if !ok {
			return errors.New("--enqueue requires --store postgres")
		}
		return enqueueLearn(ctx, pg, l, os.Stdin, log)
	}

	engine, err := transliteration.New(ctx, transliteration.Config{
		Repository: repo,
		CacheSize:  int(*cacheSize),
		Logger:     log,
	})
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	defer engine.Close()

	switch command {
	case "learn":
		originals, autos, corrected, err := parseCorrections(os.Stdin)
		if err != nil {
			return err
		}
		learned, err := engine.LearnFromCorrections(ctx, originals, autos, corrected, l)
		if err != nil {
			return fmt.Errorf("learning corrections: %w", err)
		}
		fmt.Print(renderEntries(fmt.Sprintf("Learned %d entries", len(learned)), learned))
		return nil

	case "add":
		if len(args) != 2 {
			return errors.New("usage: indicate add WORD ROMANIZATION")
		}
		return engine.AddException(ctx, args[0], args[1], l)

	case "remove":
		if len(args) != 1 {
			return errors.New("usage: indicate remove WORD")
		}
		return engine.RemoveException(ctx, args[0], l)

	case "list":
		learned := engine.Learned(l)
		fmt.Print(renderEntries(fmt.Sprintf("%s learned exceptions (%d)", l, len(learned)), learned))
		return nil
	}

	if len(args) > 0 {
		out, err := engine.Transliterate(strings.Join(args, " "), l, overrides)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		out, err := engine.Transliterate(scanner.Text(), l, overrides)
		if err != nil {
			return err
		}
		fmt.Println(out)
	}
	return scanner.Err()
}

func runSetup() error {
	ok, err := envsetup.Run()
	if err != nil {
		return fmt.Errorf("running setup: %w", err)
	}
	if !ok {
		return errors.New("setup cancelled")
	}
	return nil
}

// openRepository returns the learned-tier backend for store. The memory
// store returns a nil repository and leaves ownership to the engine.
func openRepository(ctx context.Context, store, dataDir, sqlitePath, databaseURL string) (db.Repository, func(), error) {
	noop := func() {}
	switch store {
	case envsetup.StoreJSON:
		repo, err := jsonfile.New(dataDir)
		if err != nil {
			return nil, noop, fmt.Errorf("opening JSON store: %w", err)
		}
		return repo, func() { _ = repo.Close() }, nil
	case envsetup.StoreSQLite:
		repo, err := sqlite.New(ctx, sqlitePath)
		if err != nil {
			return nil, noop, fmt.Errorf("opening SQLite store: %w", err)
		}
		return repo, func() { _ = repo.Close() }, nil
	case envsetup.StorePostgres:
		if databaseURL == "" {
			return nil, noop, errors.New("database-url is required for the postgres store")
		}
		repo, err := postgres.New(ctx, databaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("connecting to database: %w", err)
		}
		return repo, func() { _ = repo.Close() }, nil
	default:
		return nil, noop, nil
	}
}

func enqueueLearn(ctx context.Context, repo *postgres.Repository, l lang.Language, r io.Reader, log *slog.Logger) error {
	originals, autos, corrected, err := parseCorrections(r)
	if err != nil {
		return err
	}

	// Insert-only client: no queues or workers are configured.
	riverClient, err := river.NewClient[pgx.Tx](riverpgxv5.New(repo.Pool()), &river.Config{Logger: log})
	if err != nil {
		return fmt.Errorf("creating river client: %w", err)
	}

	res, err := riverClient.Insert(ctx, jobs.LearnCorrectionArgs{
		Language:  l.String(),
		Originals: originals,
		Autos:     autos,
		Corrected: corrected,
	}, nil)
	if err != nil {
		return fmt.Errorf("enqueuing learn job: %w", err)
	}
	log.InfoContext(ctx, "learn job enqueued", "job_id", res.Job.ID, "records", len(originals), "duplicate", res.UniqueSkippedAsDuplicate)
	return nil
}

// parseCorrections reads tab-separated original, auto and optional
// corrected columns. Blank lines and lines starting with # are skipped.
// corrected is nil when no line carries a third column.
func parseCorrections(r io.Reader) (originals, autos, corrected []string, err error) {
	scanner := bufio.NewScanner(r)
	hasCorrected := false
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, "#") {
			continue
		}
		cols := strings.Split(text, "\t")
		if len(cols) < 2 || len(cols) > 3 {
			return nil, nil, nil, fmt.Errorf("line %d: expected 2 or 3 tab-separated columns, got %d", line, len(cols))
		}
		originals = append(originals, cols[0])
		autos = append(autos, cols[1])
		if len(cols) == 3 {
			hasCorrected = true
			corrected = append(corrected, cols[2])
		} else {
			corrected = append(corrected, "")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("reading corrections: %w", err)
	}
	if !hasCorrected {
		corrected = nil
	}
	return originals, autos, corrected, nil
}

func renderEntries(title string, entries map[string]string) string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(title))
	s.WriteString("\n")
	if len(entries) == 0 {
		s.WriteString(dimStyle.Render("  (none)"))
		s.WriteString("\n")
		return s.String()
	}
	keys := lo.Keys(entries)
	slices.Sort(keys)
	width := lo.Max(lo.Map(keys, func(k string, _ int) int { return lipgloss.Width(k) }))
	for _, k := range keys {
		pad := strings.Repeat(" ", width-lipgloss.Width(k))
		s.WriteString("  " + wordStyle.Render(k) + pad + dimStyle.Render(" -> ") + romanStyle.Render(entries[k]) + "\n")
	}
	return s.String()
}

func splitList(s string) []string {
	return lo.Compact(lo.Map(strings.Split(s, ","), func(p string, _ int) string {
		return strings.TrimSpace(p)
	}))
}
