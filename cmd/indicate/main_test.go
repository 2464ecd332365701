package main

import (
	"context"
	"strings"
	"testing"

	"github.com/jusunglee/indicate/internal/db/jsonfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCorrections(t *testing.T) {
	input := "# original\tauto\tcorrected\n" +
		"अभि\tAbhi\tAbhee\n" +
		"\n" +
		"बचपन\tbachapana\r\n"
	originals, autos, corrected, err := parseCorrections(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"अभि", "बचपन"}, originals)
	assert.Equal(t, []string{"Abhi", "bachapana"}, autos)
	assert.Equal(t, []string{"Abhee", ""}, corrected)
}

func TestParseCorrectionsWithoutCorrectedColumn(t *testing.T) {
	_, _, corrected, err := parseCorrections(strings.NewReader("बचपन\tbachapana\n"))
	require.NoError(t, err)
	assert.Nil(t, corrected)
}

func TestParseCorrectionsBadLine(t *testing.T) {
	_, _, _, err := parseCorrections(strings.NewReader("अभि\tAbhi\tAbhee\nonly-one-column\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestRenderEntries(t *testing.T) {
	out := renderEntries("Learned", map[string]string{"अभि": "Abhee", "घर": "ghar"})
	assert.Contains(t, out, "Learned")
	assert.Contains(t, out, "Abhee")
	assert.Less(t, strings.Index(out, "अभि"), strings.Index(out, "घर"), "entries are sorted")

	assert.Contains(t, renderEntries("Empty", nil), "(none)")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"context_aware=false", "statistical_schwa=true"}, splitList(" context_aware=false, ,statistical_schwa=true"))
	assert.Empty(t, splitList(""))
}

func TestOpenRepository(t *testing.T) {
	ctx := context.Background()

	repo, closeRepo, err := openRepository(ctx, "memory", "", "", "")
	require.NoError(t, err)
	assert.Nil(t, repo)
	closeRepo()

	repo, closeRepo, err = openRepository(ctx, "json", t.TempDir(), "", "")
	require.NoError(t, err)
	assert.IsType(t, &jsonfile.Repository{}, repo)
	closeRepo()

	_, _, err = openRepository(ctx, "postgres", "", "", "")
	assert.Error(t, err)
}
