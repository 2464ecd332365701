// envsetup provides a lightweight .env configuration wizard.
// It runs from `indicate setup` and records where learned exceptions are
// stored and the default language.
package envsetup

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jusunglee/indicate/internal/lang"
)

// Store backends accepted by the indicate binaries.
const (
	StoreJSON     = "json"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

const (
	defaultDataDir    = "./data"
	defaultSQLitePath = "./indicate.db"
)

type step int

const (
	stepWelcome step = iota
	stepStore
	stepLocation
	stepLanguage
	stepConfirm
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Config is what the wizard collects.
type Config struct {
	Store       string
	DataDir     string
	SQLitePath  string
	DatabaseURL string
	Language    lang.Language
}

// Env renders c as .env lines keyed the way ff.WithEnvVars reads them.
func (c Config) Env() string {
	var b strings.Builder
	fmt.Fprintf(&b, "STORE=%s\n", c.Store)
	switch c.Store {
	case StoreJSON:
		fmt.Fprintf(&b, "DATA_DIR=%s\n", c.DataDir)
	case StoreSQLite:
		fmt.Fprintf(&b, "SQLITE_PATH=%s\n", c.SQLitePath)
	case StorePostgres:
		fmt.Fprintf(&b, "DATABASE_URL=%s\n", c.DatabaseURL)
	}
	fmt.Fprintf(&b, "SOURCE_LANGUAGE=%s\n", c.Language)
	b.WriteString("LOG_FORMAT=pretty\n")
	return b.String()
}

type model struct {
	step   step
	input  textinput.Model
	cfg    Config
	path   string
	saved  bool
	err    error
	width  int
	height int
}

// New returns a wizard that writes to path.
func New(path string) model {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 60
	return model{
		step:  stepWelcome,
		input: ti,
		path:  path,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.handleEnter()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) handleEnter() (tea.Model, tea.Cmd) {
	m.err = nil
	value := strings.TrimSpace(m.input.Value())

	switch m.step {
	case stepWelcome:
		m.next(stepStore, "")

	case stepStore:
		switch strings.ToLower(value) {
		case "1", "", StoreJSON:
			m.cfg.Store = StoreJSON
			m.next(stepLocation, defaultDataDir)
		case "2", StoreSQLite:
			m.cfg.Store = StoreSQLite
			m.next(stepLocation, defaultSQLitePath)
		case "3", StorePostgres:
			m.cfg.Store = StorePostgres
			m.next(stepLocation, "")
			m.input.EchoMode = textinput.EchoPassword
		default:
			m.err = fmt.Errorf("Please enter 1, 2 or 3")
		}

	case stepLocation:
		if value == "" {
			m.err = fmt.Errorf("A location is required")
			return m, nil
		}
		switch m.cfg.Store {
		case StoreJSON:
			m.cfg.DataDir = value
		case StoreSQLite:
			m.cfg.SQLitePath = value
		case StorePostgres:
			if !strings.HasPrefix(value, "postgres://") && !strings.HasPrefix(value, "postgresql://") {
				m.err = fmt.Errorf("Expected a postgres:// URL")
				return m, nil
			}
			m.cfg.DatabaseURL = value
		}
		m.input.EchoMode = textinput.EchoNormal
		m.next(stepLanguage, string(lang.Hindi))

	case stepLanguage:
		l, err := lang.Parse(value)
		if err != nil || l == lang.English {
			m.err = fmt.Errorf("Please enter hindi or marathi")
			return m, nil
		}
		m.cfg.Language = l
		m.next(stepConfirm, "")

	case stepConfirm:
		switch strings.ToLower(value) {
		case "y", "yes", "":
			if err := os.WriteFile(m.path, []byte(m.cfg.Env()), 0600); err != nil {
				m.err = err
				return m, nil
			}
			m.saved = true
			return m, tea.Quit
		case "n", "no":
			m.cfg = Config{}
			m.next(stepWelcome, "")
		}
	}

	return m, nil
}

func (m *model) next(s step, prefill string) {
	m.step = s
	m.input.SetValue(prefill)
	m.input.CursorEnd()
}

func (m model) View() string {
	var s strings.Builder

	switch m.step {
	case stepWelcome:
		s.WriteString(titleStyle.Render("indicate - Env Setup"))
		s.WriteString("\n\n")
		s.WriteString("This wizard writes a .env file for the indicate CLI and worker.\n")
		s.WriteString("You'll choose:\n\n")
		s.WriteString("  - Where learned corrections are stored\n")
		s.WriteString("  - The default input language\n")
		s.WriteString("\n")
		s.WriteString(dimStyle.Render("Press Enter to continue, Ctrl+C to exit"))

	case stepStore:
		s.WriteString(titleStyle.Render("Step 1: Learned Exception Store"))
		s.WriteString("\n\n")
		s.WriteString("  1. JSON files, one per language (default)\n")
		s.WriteString("  2. SQLite database file\n")
		s.WriteString("  3. PostgreSQL (required for the worker)\n")
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("Enter 1, 2 or 3:"))
		m.writeInput(&s)

	case stepLocation:
		s.WriteString(titleStyle.Render("Step 2: Store Location"))
		s.WriteString("\n\n")
		switch m.cfg.Store {
		case StoreJSON:
			s.WriteString(labelStyle.Render("Directory for <language>_exceptions.json files:"))
		case StoreSQLite:
			s.WriteString(labelStyle.Render("SQLite database path:"))
		case StorePostgres:
			s.WriteString(labelStyle.Render("PostgreSQL connection URL:"))
		}
		m.writeInput(&s)

	case stepLanguage:
		s.WriteString(titleStyle.Render("Step 3: Default Language"))
		s.WriteString("\n\n")
		s.WriteString(labelStyle.Render("hindi or marathi:"))
		m.writeInput(&s)

	case stepConfirm:
		s.WriteString(titleStyle.Render("Configuration Complete"))
		s.WriteString("\n\n")
		s.WriteString("Your configuration:\n\n")
		s.WriteString("  Store:    " + successStyle.Render(m.cfg.Store) + "\n")
		s.WriteString("  Location: " + successStyle.Render(m.location()) + "\n")
		s.WriteString("  Language: " + successStyle.Render(m.cfg.Language.String()) + "\n")
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("Save this configuration? [Y/n]:"))
		m.writeInput(&s)
	}

	s.WriteString("\n")
	return s.String()
}

func (m model) writeInput(s *strings.Builder) {
	s.WriteString("\n")
	s.WriteString(m.input.View())
	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render(m.err.Error()))
	}
}

func (m model) location() string {
	switch m.cfg.Store {
	case StoreJSON:
		return m.cfg.DataDir
	case StoreSQLite:
		return m.cfg.SQLitePath
	default:
		return maskToken(m.cfg.DatabaseURL)
	}
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}

// Run starts the setup wizard and returns true if a .env file was written.
func Run() (bool, error) {
	p := tea.NewProgram(New(".env"))
	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m := finalModel.(model)
	return m.saved, nil
}

// NeedsSetup checks if .env file exists
func NeedsSetup() bool {
	_, err := os.Stat(".env")
	return os.IsNotExist(err)
}
