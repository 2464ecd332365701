package jobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/jusunglee/indicate/internal/lang"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLearner struct {
	calls    int
	language lang.Language
	err      error
}

func (f *fakeLearner) LearnFromCorrections(_ context.Context, originals, _, _ []string, l lang.Language) (map[string]string, error) {
	f.calls++
	f.language = l
	if f.err != nil {
		return nil, f.err
	}
	return map[string]string{originals[0]: "x"}, nil
}

func newJob(args LearnCorrectionArgs) *river.Job[LearnCorrectionArgs] {
	return &river.Job[LearnCorrectionArgs]{JobRow: &rivertype.JobRow{ID: 1}, Args: args}
}

func TestLearnCorrectionArgs(t *testing.T) {
	args := LearnCorrectionArgs{Language: "hindi", Originals: []string{"अभि"}}
	assert.Equal(t, "learn_correction", args.Kind())

	opts := args.InsertOpts()
	assert.True(t, opts.UniqueOpts.ByArgs)
	assert.Equal(t, 3, opts.MaxAttempts)
}

func TestWorkLearns(t *testing.T) {
	learner := &fakeLearner{}
	w := NewLearnCorrectionWorker(learner, slog.Default())

	err := w.Work(context.Background(), newJob(LearnCorrectionArgs{
		Language:  "Marathi",
		Originals: []string{"पाणी"},
		Autos:     []string{"pani"},
		Corrected: []string{"paani"},
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, learner.calls)
	assert.Equal(t, lang.Marathi, learner.language)
}

func TestWorkCancelsBadInput(t *testing.T) {
	learner := &fakeLearner{}
	w := NewLearnCorrectionWorker(learner, slog.Default())

	err := w.Work(context.Background(), newJob(LearnCorrectionArgs{Language: "klingon", Originals: []string{"x"}}))
	require.Error(t, err)
	assert.ErrorIs(t, err, lang.ErrUnsupported)

	err = w.Work(context.Background(), newJob(LearnCorrectionArgs{Language: "hindi"}))
	require.Error(t, err)
	assert.Equal(t, 0, learner.calls)
}

func TestWorkRetriesStorageErrors(t *testing.T) {
	storage := errors.New("disk full")
	w := NewLearnCorrectionWorker(&fakeLearner{err: storage}, slog.Default())

	err := w.Work(context.Background(), newJob(LearnCorrectionArgs{Language: "hindi", Originals: []string{"अभि"}}))
	assert.ErrorIs(t, err, storage)
}
