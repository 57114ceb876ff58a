package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	wraperrors "github.com/claycoleman/graphite-cli-wrapper/internal/errors"
)

type textInputModel struct {
	textInput textinput.Model
	prompt    string
	done      bool
	err       error
}

func (m textInputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textInputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.err = fmt.Errorf("canceled")
			m.done = true
			return m, tea.Quit
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m textInputModel) View() string {
	if m.done {
		return ""
	}
	return lipgloss.NewStyle().Margin(1, 0).
		Render(fmt.Sprintf("%s\n%s\n\n(Press Enter to submit, Ctrl+C to cancel)", m.prompt, m.textInput.View()))
}

// PromptTextInput prompts the user for a line of text
func PromptTextInput(prompt, defaultValue string) (string, error) {
	if !Interactive() {
		return "", wraperrors.ErrNotInteractive
	}

	input := textinput.New()
	input.SetValue(defaultValue)
	input.Focus()
	input.CharLimit = 200

	model := textInputModel{textInput: input, prompt: prompt}
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return "", fmt.Errorf("failed to run prompt: %w", err)
	}

	result, ok := final.(textInputModel)
	if !ok {
		return "", fmt.Errorf("unexpected prompt model")
	}
	if result.err != nil {
		return "", result.err
	}
	return result.textInput.Value(), nil
}
