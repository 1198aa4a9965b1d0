// ABOUTME: Interactive TUI wizard for configuring the NASA API key and timezone.
// ABOUTME: 2-step bubbletea model; the timezone decides which date counts as "today".
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harper/apod/internal/fetch"
)

// Step represents the current wizard step.
type Step int

const (
	StepAPIKey Step = iota
	StepTimezone
	StepDone
)

// SetupModel is the bubbletea model for the setup wizard.
type SetupModel struct {
	step     Step
	inputs   [2]textinput.Model
	errMsg   string
	quitting bool
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	brandStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// NewSetupModel creates a new setup wizard model, pre-filling with existing config values.
func NewSetupModel(apiKey, timezone string) SetupModel {
	keyInput := textinput.New()
	keyInput.Placeholder = fetch.DefaultAPIKey
	keyInput.EchoMode = textinput.EchoPassword
	keyInput.Focus()
	keyInput.Width = 50
	if apiKey != "" {
		keyInput.SetValue(apiKey)
	}

	tzInput := textinput.New()
	tzInput.Placeholder = "local"
	tzInput.Width = 50
	if timezone != "" {
		tzInput.SetValue(timezone)
	}

	return SetupModel{
		step:   StepAPIKey,
		inputs: [2]textinput.Model{keyInput, tzInput},
	}
}

// Init implements tea.Model.
func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEscape:
			m.quitting = true
			return m, tea.Quit
		}

		if m.step == StepAPIKey || m.step == StepTimezone {
			return m.updateInput(msg)
		}
	default:
		// Forward other messages (e.g. cursor blink) to the active input
		if m.step == StepAPIKey || m.step == StepTimezone {
			idx := int(m.step)
			var cmd tea.Cmd
			m.inputs[idx], cmd = m.inputs[idx].Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m SetupModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		return m.handleEnter()
	}

	idx := int(m.step)
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	return m, cmd
}

func (m SetupModel) handleEnter() (tea.Model, tea.Cmd) {
	idx := int(m.step)

	if m.step == StepAPIKey {
		m.inputs[0].SetValue(strings.TrimSpace(m.inputs[0].Value()))
	}

	if m.step == StepTimezone {
		val := strings.TrimSpace(m.inputs[1].Value())
		if val != "" && !strings.EqualFold(val, "local") {
			if _, err := time.LoadLocation(val); err != nil {
				m.errMsg = fmt.Sprintf("unknown timezone %q", val)
				return m, nil
			}
		}
		m.inputs[1].SetValue(val)
		m.errMsg = ""
	}

	m.inputs[idx].Blur()

	switch m.step {
	case StepAPIKey:
		m.step = StepTimezone
		m.inputs[1].Focus()
		return m, textinput.Blink
	case StepTimezone:
		m.step = StepDone
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   ASTRONOMY PICTURE OF THE DAY"))
	b.WriteString(titleStyle.Render(" - Setup"))
	b.WriteString("\n\n")
	b.WriteString("Configure NASA API access.\n\n")

	switch m.step {
	case StepAPIKey:
		b.WriteString(stepStyle.Render("Step 1 of 2: NASA API Key"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(get one at https://api.nasa.gov, press Enter to use DEMO_KEY)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[0].View())
		b.WriteString("\n")

	case StepTimezone:
		b.WriteString(fmt.Sprintf("  API key: %s\n\n", maskKey(m.inputs[0].Value())))
		b.WriteString(stepStyle.Render("Step 2 of 2: Timezone"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(IANA name such as America/New_York, press Enter for local time)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[1].View())
		b.WriteString("\n")
		if m.errMsg != "" {
			b.WriteString(errorStyle.Render(m.errMsg))
			b.WriteString("\n")
		}

	case StepDone:
		b.WriteString(successStyle.Render("Setup complete!"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("  API key:  %s\n", maskKey(m.inputs[0].Value())))
		tz := m.inputs[1].Value()
		if tz == "" {
			tz = "local"
		}
		b.WriteString(fmt.Sprintf("  Timezone: %s\n", tz))
		b.WriteString("\n")
	}

	return b.String()
}

// Result returns the entered values.
func (m SetupModel) Result() (apiKey, timezone string) {
	return m.inputs[0].Value(), m.inputs[1].Value()
}

// ShouldSave returns true if the wizard completed and the user did not cancel.
func (m SetupModel) ShouldSave() bool {
	return m.step == StepDone && !m.quitting
}

// maskKey hides all but the last four characters of an API key.
func maskKey(key string) string {
	if key == "" {
		return fetch.DefaultAPIKey
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
