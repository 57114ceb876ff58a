package tui

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	wraperrors "github.com/claycoleman/graphite-cli-wrapper/internal/errors"
)

// SelectOption is one choice in a select prompt. Key is a single-letter
// shortcut that picks the option immediately.
type SelectOption struct {
	Key   string
	Label string
}

// Interactive reports whether prompts may be shown. Prompting is disabled
// when stdin is not a terminal or GTW_NO_INTERACTIVE is set.
func Interactive() bool {
	if os.Getenv("GTW_NO_INTERACTIVE") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

type selectModel struct {
	prompt  string
	options []SelectOption
	cursor  int
	choice  string
	done    bool
	err     error
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyEnter:
		m.choice = m.options[m.cursor].Key
		m.done = true
		return m, tea.Quit
	case tea.KeyCtrlC, tea.KeyEsc:
		m.err = fmt.Errorf("canceled")
		m.done = true
		return m, tea.Quit
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyDown:
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case tea.KeyRunes:
		pressed := strings.ToLower(string(keyMsg.Runes))
		for _, option := range m.options {
			if option.Key == pressed {
				m.choice = option.Key
				m.done = true
				return m, tea.Quit
			}
		}
	}

	return m, nil
}

func (m selectModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.prompt)
	b.WriteString("\n\n")
	for i, option := range m.options {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		b.WriteString(fmt.Sprintf("%s[%s] %s\n", marker, option.Key, option.Label))
	}
	b.WriteString("\n(Press a shortcut key or Enter to confirm, Ctrl+C to cancel)")

	return lipgloss.NewStyle().Margin(1, 0).Render(b.String())
}

// PromptSelect shows a single-choice prompt and returns the chosen option key
func PromptSelect(prompt string, options []SelectOption) (string, error) {
	if !Interactive() {
		return "", wraperrors.ErrNotInteractive
	}
	if len(options) == 0 {
		return "", fmt.Errorf("no options to select from")
	}

	model := selectModel{prompt: prompt, options: options}
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return "", fmt.Errorf("failed to run prompt: %w", err)
	}

	result, ok := final.(selectModel)
	if !ok {
		return "", fmt.Errorf("unexpected prompt model")
	}
	if result.err != nil {
		return "", result.err
	}
	return result.choice, nil
}
