// ABOUTME: Interactive TUI wizard for pointing ifgram at its content.
// ABOUTME: 2-step bubbletea model collecting content source and account handle, then validating posts.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/takubon0202/if-instagram-auto/internal/config"
)

// Step represents the current wizard step.
type Step int

const (
	StepSource Step = iota
	StepAccount
	StepValidating
	StepDone
	StepFailed
)

// validationResultMsg carries the result of an async validation attempt.
type validationResultMsg struct {
	posts int
	err   error
}

// ValidateFn loads posts from source and reports how many were found.
type ValidateFn func(ctx context.Context, source string) (int, error)

// cancelHolder shares a cancel function across bubbletea model copies.
// This MUST be stored as a pointer field on SetupModel so that value-receiver
// methods (required by tea.Model) can store the cancel func and have it
// visible to all copies of the model.
type cancelHolder struct {
	cancel context.CancelFunc
}

// SetupModel is the bubbletea model for the setup wizard.
type SetupModel struct {
	step          Step
	inputs        [2]textinput.Model
	spinner       spinner.Model
	validateFn    ValidateFn
	cancelCtx     *cancelHolder
	validationErr error
	postCount     int
	quitting      bool
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	brandStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// NewSetupModel creates a new setup wizard model, pre-filling with existing config values.
func NewSetupModel(source, account string) SetupModel {
	sourceInput := textinput.New()
	sourceInput.Placeholder = config.DefaultSource
	sourceInput.Focus()
	sourceInput.Width = 50
	if source != "" {
		sourceInput.SetValue(source)
	}

	accountInput := textinput.New()
	accountInput.Placeholder = config.DefaultAccount
	accountInput.Width = 50
	if account != "" {
		accountInput.SetValue(account)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	return SetupModel{
		step:       StepSource,
		inputs:     [2]textinput.Model{sourceInput, accountInput},
		spinner:    s,
		validateFn: ValidateSource,
		cancelCtx:  &cancelHolder{},
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
			if m.cancelCtx.cancel != nil {
				m.cancelCtx.cancel()
			}
			return m, tea.Quit
		}

		switch m.step {
		case StepSource, StepAccount:
			return m.updateInput(msg)
		case StepFailed:
			return m.updateFailed(msg)
		}

	case validationResultMsg:
		m.cancelCtx.cancel = nil
		if msg.err == nil {
			m.postCount = msg.posts
			m.step = StepDone
			return m, tea.Quit
		}
		m.validationErr = msg.err
		m.step = StepFailed
		return m, nil

	case spinner.TickMsg:
		if m.step == StepValidating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m SetupModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		idx := int(m.step)

		switch m.step {
		case StepSource:
			m.inputs[0].SetValue(normalizeSource(m.inputs[0].Value()))
			m.inputs[0].Blur()
			m.step = StepAccount
			m.inputs[1].Focus()
			return m, textinput.Blink
		case StepAccount:
			m.inputs[1].SetValue(normalizeAccount(m.inputs[1].Value()))
			m.inputs[idx].Blur()
			m.step = StepValidating
			return m, tea.Batch(m.startValidation(), m.spinner.Tick)
		}
	}

	// Forward to the active input
	idx := int(m.step)
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	return m, cmd
}

func normalizeSource(val string) string {
	val = strings.TrimSpace(val)
	if val == "" {
		return config.DefaultSource
	}
	if strings.HasPrefix(val, "http://") || strings.HasPrefix(val, "https://") {
		return strings.TrimRight(val, "/")
	}
	return val
}

func normalizeAccount(val string) string {
	val = strings.TrimPrefix(strings.TrimSpace(val), "@")
	if val == "" {
		return config.DefaultAccount
	}
	return val
}

func (m SetupModel) updateFailed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyRunes {
		switch msg.Runes[0] {
		case 'r':
			m.step = StepValidating
			m.validationErr = nil
			return m, tea.Batch(m.startValidation(), m.spinner.Tick)
		case 's':
			m.step = StepDone
			return m, tea.Quit
		case 'q':
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m SetupModel) startValidation() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelCtx.cancel = cancel
	source := m.inputs[0].Value()
	fn := m.validateFn
	return func() tea.Msg {
		n, err := fn(ctx, source)
		return validationResultMsg{posts: n, err: err}
	}
}

// View implements tea.Model.
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   IF JUKU"))
	b.WriteString(titleStyle.Render(" - ifgram setup"))
	b.WriteString("\n\n")
	b.WriteString("Point ifgram at your posts, stories, and highlights.\n\n")

	switch m.step {
	case StepSource:
		b.WriteString(stepStyle.Render("Step 1 of 2: Content source"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(directory or http(s) URL; press Enter for default)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[0].View())
		b.WriteString("\n")

	case StepAccount:
		b.WriteString(fmt.Sprintf("  Source: %s\n\n", m.inputs[0].Value()))
		b.WriteString(stepStyle.Render("Step 2 of 2: Account handle"))
		b.WriteString("\n")
		b.WriteString(m.inputs[1].View())
		b.WriteString("\n")

	case StepValidating:
		b.WriteString(fmt.Sprintf("  Source:  %s\n", m.inputs[0].Value()))
		b.WriteString(fmt.Sprintf("  Account: @%s\n\n", m.inputs[1].Value()))
		b.WriteString(m.spinner.View())
		b.WriteString(" Loading posts...")
		b.WriteString("\n")

	case StepDone:
		b.WriteString(successStyle.Render(fmt.Sprintf("✓ Found %d posts", m.postCount)))
		b.WriteString("\n")

	case StepFailed:
		errMsg := "unknown error"
		if m.validationErr != nil {
			errMsg = m.validationErr.Error()
		}
		b.WriteString(errorStyle.Render(fmt.Sprintf("✗ Validation failed: %s", errMsg)))
		b.WriteString("\n\n")
		b.WriteString(promptStyle.Render("[r]etry  [s]ave anyway  [q]uit"))
		b.WriteString("\n")
	}

	return b.String()
}

// Result returns the entered values.
func (m SetupModel) Result() (source, account string) {
	return m.inputs[0].Value(), m.inputs[1].Value()
}

// ShouldSave returns true if the wizard completed (via validation success or
// "save anyway") and the user did not cancel with Ctrl+C, Escape, or 'q'.
func (m SetupModel) ShouldSave() bool {
	return m.step == StepDone && !m.quitting
}
