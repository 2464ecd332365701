package envsetup

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jusunglee/indicate/internal/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enter(t *testing.T, m model, value string) model {
	t.Helper()
	m.input.SetValue(value)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(model)
}

func TestWizardWritesEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	m := New(path)

	m = enter(t, m, "")
	assert.Equal(t, stepStore, m.step)

	m = enter(t, m, "2")
	require.Equal(t, stepLocation, m.step)
	assert.Equal(t, defaultSQLitePath, m.input.Value(), "location is prefilled")

	m = enter(t, m, "/tmp/words.db")
	require.Equal(t, stepLanguage, m.step)

	m = enter(t, m, "Marathi")
	require.Equal(t, stepConfirm, m.step)
	assert.Equal(t, lang.Marathi, m.cfg.Language)

	m = enter(t, m, "y")
	require.NoError(t, m.err)
	assert.True(t, m.saved)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "STORE=sqlite\nSQLITE_PATH=/tmp/words.db\nSOURCE_LANGUAGE=marathi\nLOG_FORMAT=pretty\n", string(got))
}

func TestWizardRejectsBadInput(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), ".env"))
	m = enter(t, m, "")

	m = enter(t, m, "9")
	assert.Equal(t, stepStore, m.step)
	assert.Error(t, m.err)

	m = enter(t, m, "3")
	m = enter(t, m, "localhost:5432")
	assert.Equal(t, stepLocation, m.step)
	assert.Error(t, m.err)

	m = enter(t, m, "postgres://u:p@localhost/indicate")
	assert.Equal(t, stepLanguage, m.step)

	m = enter(t, m, "english")
	assert.Equal(t, stepLanguage, m.step)
	assert.Error(t, m.err)
}

func TestWizardStartOver(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), ".env"))
	for _, v := range []string{"", "1", "./words", "hindi", "n"} {
		m = enter(t, m, v)
	}
	assert.Equal(t, stepWelcome, m.step)
	assert.Equal(t, Config{}, m.cfg)
	assert.False(t, m.saved)
}

func TestConfigEnv(t *testing.T) {
	c := Config{Store: StoreJSON, DataDir: "./data", Language: lang.Hindi}
	assert.Equal(t, "STORE=json\nDATA_DIR=./data\nSOURCE_LANGUAGE=hindi\nLOG_FORMAT=pretty\n", c.Env())
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "****", maskToken("abcd"))
	assert.Equal(t, "abcd**ghij", maskToken("abcdefghij"))
}
