// Package ui holds the terminal interface for `inkview tune`: a field
// editor over the interaction constants in inkview.yml.
package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/recera/inkview/cmd/inkview/internal/config"
)

// field binds one editable config value to its display row.
type field struct {
	name  string
	hint  string
	get   func(*config.Config) string
	set   func(*config.Config, string) error
	isInt bool
}

// KeyMap defines the editor's keyboard shortcuts.
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Back  key.Binding
	Save  key.Binding
	Quit  key.Binding
}

var defaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "edit/commit"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel edit"),
	),
	Save: key.NewBinding(
		key.WithKeys("s", "ctrl+s"),
		key.WithHelp("s", "save & quit"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit without saving"),
	),
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginBottom(1)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

// TuneModel is the bubbletea model for the constant editor.
type TuneModel struct {
	cfg      *config.Config
	fields   []field
	cursor   int
	editing  bool
	input    textinput.Model
	errMsg   string
	saved    bool
	quitting bool
	width    int
}

// NewTuneModel builds the editor over cfg. The config is mutated in
// place as fields are committed.
func NewTuneModel(cfg *config.Config) TuneModel {
	in := textinput.New()
	in.CharLimit = 12
	in.Width = 14

	return TuneModel{
		cfg:    cfg,
		input:  in,
		fields: tuneFields(),
	}
}

func tuneFields() []field {
	floatField := func(name, hint string, get func(*config.Config) *float64) field {
		return field{
			name: name,
			hint: hint,
			get: func(c *config.Config) string {
				return strconv.FormatFloat(*get(c), 'g', -1, 64)
			},
			set: func(c *config.Config, s string) error {
				v, err := strconv.ParseFloat(s, 64)
				if err != nil || v <= 0 {
					return fmt.Errorf("need a positive number")
				}
				*get(c) = v
				return nil
			},
		}
	}
	intField := func(name, hint string, get func(*config.Config) *int) field {
		return field{
			name:  name,
			hint:  hint,
			isInt: true,
			get: func(c *config.Config) string {
				return strconv.Itoa(*get(c))
			},
			set: func(c *config.Config, s string) error {
				v, err := strconv.Atoi(s)
				if err != nil || v <= 0 {
					return fmt.Errorf("need a positive integer")
				}
				*get(c) = v
				return nil
			},
		}
	}

	return []field{
		floatField("deviationEpsilon", "relative drift from fit scale that counts as leaving fit",
			func(c *config.Config) *float64 { return &c.Tuning.DeviationEpsilon }),
		intField("nudgeThreshold", "deliberate zooms inside the window before fit mode is released",
			func(c *config.Config) *int { return &c.Tuning.NudgeThreshold }),
		intField("nudgeWindowMs", "window for counting zoom nudges",
			func(c *config.Config) *int { return &c.Tuning.NudgeWindowMs }),
		floatField("scaleEpsilon", "scale changes below this are ignored",
			func(c *config.Config) *float64 { return &c.Tuning.ScaleEpsilon }),
		intField("resizeDebounceMs", "resize settle time before refit",
			func(c *config.Config) *int { return &c.Tuning.ResizeDebounceMs }),
		floatField("minScale", "zoom floor",
			func(c *config.Config) *float64 { return &c.Constraints.MinScale }),
		floatField("maxScale", "zoom ceiling",
			func(c *config.Config) *float64 { return &c.Constraints.MaxScale }),
		floatField("page.width", "logical page width in CSS pixels",
			func(c *config.Config) *float64 { return &c.Page.Width }),
		floatField("page.height", "logical page height in CSS pixels",
			func(c *config.Config) *float64 { return &c.Page.Height }),
		floatField("page.padding", "horizontal padding reserved by fit-width",
			func(c *config.Config) *float64 { return &c.Page.Padding }),
	}
}

// Saved reports whether the user chose to persist the edits.
func (m TuneModel) Saved() bool { return m.saved }

// Config returns the edited configuration.
func (m TuneModel) Config() *config.Config { return m.cfg }

// Init implements tea.Model.
func (m TuneModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m TuneModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}

	if m.editing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m TuneModel) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, defaultKeyMap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, defaultKeyMap.Save):
		m.saved = true
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, defaultKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, defaultKeyMap.Down):
		if m.cursor < len(m.fields)-1 {
			m.cursor++
		}

	case key.Matches(msg, defaultKeyMap.Enter):
		m.editing = true
		m.errMsg = ""
		m.input.SetValue(m.fields[m.cursor].get(m.cfg))
		m.input.CursorEnd()
		m.input.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m TuneModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, defaultKeyMap.Back):
		m.editing = false
		m.errMsg = ""
		m.input.Blur()
		return m, nil

	case key.Matches(msg, defaultKeyMap.Enter):
		if err := m.fields[m.cursor].set(m.cfg, strings.TrimSpace(m.input.Value())); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.editing = false
		m.errMsg = ""
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m TuneModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Inkview tuning — " + config.FileName))
	b.WriteString("\n")

	for i, f := range m.fields {
		cursor := "  "
		name := f.name
		value := f.get(m.cfg)

		if i == m.cursor {
			cursor = selectedStyle.Render("› ")
			name = selectedStyle.Render(name)
			if m.editing {
				value = m.input.View()
			}
		}

		b.WriteString(fmt.Sprintf("%s%-20s %-16s %s\n", cursor, name, value, dimStyle.Render(f.hint)))
	}

	if m.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render("  "+m.errMsg) + "\n")
	}

	help := "↑/↓ select · enter edit/commit · esc cancel · s save & quit · q quit"
	b.WriteString(footerStyle.Render(help))
	return b.String()
}
