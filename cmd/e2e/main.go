package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/jusunglee/indicate/internal/db/postgres"
	"github.com/jusunglee/indicate/internal/db/sqlite"
	"github.com/jusunglee/indicate/internal/jobs"
	"github.com/jusunglee/indicate/internal/lang"
	"github.com/jusunglee/indicate/internal/logger"
	"github.com/jusunglee/indicate/internal/transliteration"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/riverqueue/river/rivertype"
)

type scenario struct {
	input     string
	language  lang.Language
	overrides map[transliteration.Feature]bool
	want      string
}

var scenarios = []scenario{
	{"नमस्ते", lang.Hindi, nil, "Namaste"},
	{"कमल", lang.Hindi, nil, "Kamal"},
	{"कमल", lang.Hindi, map[transliteration.Feature]bool{transliteration.StatisticalSchwa: false}, "Kamala"},
	{"बाज़ार", lang.Hindi, nil, "Bazar"},
	{"भारत।", lang.Hindi, nil, "Bharat."},
	{"काय", lang.Marathi, nil, "Kay"},
	{"नमस्ते\nभारत", lang.Hindi, nil, "Namaste\nBharat"},
	{"hello World", lang.English, nil, "hello World"},
}

func main() {
	if err := run(); err != nil {
		slog.Error("E2E FAILED", "error", err)
		os.Exit(1)
	}
	slog.Info("E2E PASSED")
}

func run() error {
	_ = godotenv.Load()

	log := logger.New()
	ctx := context.Background()

	// Phase 1: Engine on a throwaway SQLite file
	log.Info("Phase 1: Setting up SQLite-backed engine...")
	dbPath := fmt.Sprintf("/tmp/indicate-e2e-%d.db", time.Now().UnixNano())
	defer os.Remove(dbPath)

	repo, err := sqlite.New(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("creating temp SQLite: %w", err)
	}
	defer repo.Close()

	engine, err := transliteration.New(ctx, transliteration.Config{Repository: repo, Logger: log})
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	// Phase 2: Reference scenarios
	log.Info("Phase 2: Transliterating reference scenarios...", "count", len(scenarios))
	for _, s := range scenarios {
		got, err := engine.Transliterate(s.input, s.language, s.overrides)
		if err != nil {
			return fmt.Errorf("transliterating %q: %w", s.input, err)
		}
		if got != s.want {
			return fmt.Errorf("transliterating %q (%s, %v): got %q, want %q", s.input, s.language, s.overrides, got, s.want)
		}
	}
	if _, err := engine.Transliterate("नमस्ते", lang.Language("tamil"), nil); !errors.Is(err, transliteration.ErrUnsupportedLanguage) {
		return fmt.Errorf("unsupported language: got %v", err)
	}

	// Phase 3: Learn a correction and promote a repeated schwa violation
	log.Info("Phase 3: Learning from corrections...")
	learned, err := engine.LearnFromCorrections(ctx,
		[]string{"अभि", "बचपन", "बचपन", "बचपन"},
		[]string{"Abhi", "bachapana", "bachapana", "bachapana"},
		[]string{"Abhee", "", "", ""},
		lang.Hindi,
	)
	if err != nil {
		return fmt.Errorf("learning: %w", err)
	}
	if learned["अभि"] != "Abhee" || learned["बचपन"] != "bachapan" {
		return fmt.Errorf("unexpected learned entries: %v", learned)
	}
	log.Info("learned entries", "entries", learned)

	if err := engine.Close(); err != nil {
		return fmt.Errorf("closing engine: %w", err)
	}

	// Phase 4: Learned tier survives a restart
	log.Info("Phase 4: Reloading engine from SQLite...")
	engine, err = transliteration.New(ctx, transliteration.Config{Repository: repo, Logger: log})
	if err != nil {
		return fmt.Errorf("recreating engine: %w", err)
	}
	defer engine.Close()

	got, err := engine.Transliterate("अभि", lang.Hindi, nil)
	if err != nil {
		return fmt.Errorf("transliterating learned word: %w", err)
	}
	if got != "Abhee" {
		return fmt.Errorf("learned word after restart: got %q, want %q", got, "Abhee")
	}

	if err := engine.RemoveException(ctx, "अभि", lang.Hindi); err != nil {
		return fmt.Errorf("removing exception: %w", err)
	}
	if n, err := repo.CountLearnedExceptions(ctx, string(lang.Hindi)); err != nil || n != 1 {
		return fmt.Errorf("learned count after removal: got %d (%v), want 1", n, err)
	}

	// Phase 5: Queue round trip, only when a PostgreSQL URL is configured
	databaseURL := os.Getenv("E2E_DATABASE_URL")
	if databaseURL == "" {
		log.Info("Phase 5: skipped, E2E_DATABASE_URL not set")
		return nil
	}
	log.Info("Phase 5: Running learn_correction job through River...")
	return runQueue(ctx, databaseURL, log)
}

func runQueue(ctx context.Context, databaseURL string, log *slog.Logger) error {
	repo, err := postgres.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer repo.Close()

	engine, err := transliteration.New(ctx, transliteration.Config{Repository: repo, Logger: log})
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	defer engine.Close()

	driver := riverpgxv5.New(repo.Pool())
	migrator, err := rivermigrate.New(driver, nil)
	if err != nil {
		return fmt.Errorf("creating river migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		return fmt.Errorf("running river migrations: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, jobs.NewLearnCorrectionWorker(engine, log))
	client, err := river.NewClient(driver, &river.Config{
		Logger:  log,
		Queues:  map[string]river.QueueConfig{river.QueueDefault: {MaxWorkers: 1}},
		Workers: workers,
	})
	if err != nil {
		return fmt.Errorf("creating river client: %w", err)
	}

	completed, cancelSub := client.Subscribe(river.EventKindJobCompleted, river.EventKindJobFailed, river.EventKindJobCancelled)
	defer cancelSub()

	if err := client.Start(ctx); err != nil {
		return fmt.Errorf("starting river client: %w", err)
	}
	defer client.Stop(context.Background())

	word := "पाणी"
	res, err := client.Insert(ctx, jobs.LearnCorrectionArgs{
		Language:  string(lang.Marathi),
		Originals: []string{word},
		Autos:     []string{"pani"},
		Corrected: []string{"paani"},
	}, nil)
	if err != nil {
		return fmt.Errorf("enqueuing job: %w", err)
	}

	timeout := time.After(60 * time.Second)
	for {
		select {
		case event := <-completed:
			if event.Job.ID != res.Job.ID {
				continue
			}
			if event.Job.State != rivertype.JobStateCompleted {
				return fmt.Errorf("job %d finished in state %s", event.Job.ID, event.Job.State)
			}
			if _, ok := engine.Learned(lang.Marathi)[word]; !ok {
				return fmt.Errorf("job completed but %q was not learned", word)
			}
			if err := engine.RemoveException(ctx, word, lang.Marathi); err != nil {
				log.Warn("cleanup: failed to remove exception", "word", word, "error", err)
			}
			log.Info("queue round trip verified", "job_id", res.Job.ID)
			return nil
		case <-timeout:
			return fmt.Errorf("timed out waiting for job %d", res.Job.ID)
		}
	}
}
