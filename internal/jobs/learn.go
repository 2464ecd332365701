package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jusunglee/indicate/internal/lang"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

// LearnCorrectionArgs are the arguments for a learn_correction job: one
// batch of user corrections for a single language.
type LearnCorrectionArgs struct {
	Language  string   `json:"language"`
	Originals []string `json:"originals"`
	Autos     []string `json:"autos"`
	Corrected []string `json:"corrected"`
}

func (LearnCorrectionArgs) Kind() string { return "learn_correction" }

func (args LearnCorrectionArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
			ByState: []rivertype.JobState{
				rivertype.JobStateAvailable,
				rivertype.JobStatePending,
				rivertype.JobStateRunning,
				rivertype.JobStateRetryable,
				rivertype.JobStateScheduled,
			},
		},
		MaxAttempts: 3,
	}
}

// Learner is the part of the engine the worker needs.
type Learner interface {
	LearnFromCorrections(ctx context.Context, originals, autos, corrected []string, l lang.Language) (map[string]string, error)
}

type LearnCorrectionWorker struct {
	river.WorkerDefaults[LearnCorrectionArgs]
	learner Learner
	log     *slog.Logger
}

func NewLearnCorrectionWorker(learner Learner, log *slog.Logger) *LearnCorrectionWorker {
	return &LearnCorrectionWorker{learner: learner, log: log}
}

func (w *LearnCorrectionWorker) Work(ctx context.Context, job *river.Job[LearnCorrectionArgs]) error {
	l, err := lang.Parse(job.Args.Language)
	if err != nil {
		// Bad input will not get better on retry.
		return river.JobCancel(err)
	}
	if len(job.Args.Originals) == 0 {
		return river.JobCancel(errors.New("empty correction batch"))
	}

	learned, err := w.learner.LearnFromCorrections(ctx, job.Args.Originals, job.Args.Autos, job.Args.Corrected, l)
	if err != nil {
		if errors.Is(err, lang.ErrUnsupported) {
			return river.JobCancel(err)
		}
		return fmt.Errorf("learning %s corrections: %w", l, err)
	}

	w.log.InfoContext(ctx, "learned from corrections", "language", l, "records", len(job.Args.Originals), "learned", len(learned))
	return nil
}
