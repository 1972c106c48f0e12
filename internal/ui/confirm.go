package ui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmResult holds the outcome of a yes/no prompt.
type ConfirmResult struct {
	Confirmed bool
	Cancelled bool
}

type confirmModel struct {
	question string
	result   ConfirmResult
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "y", "Y":
			m.result.Confirmed = true
			return m, tea.Quit
		case "n", "N", "enter":
			return m, tea.Quit
		case "ctrl+c", "esc", "q":
			m.result.Cancelled = true
			return m, tea.Quit
		}
	}
	return m, nil
}

var questionStyle = lipgloss.NewStyle().Bold(true)

func (m confirmModel) View() string {
	return fmt.Sprintf("%s [y/N] ", questionStyle.Render(m.question))
}

// Confirm asks a yes/no question on the terminal. Enter and "n" decline,
// Esc and Ctrl+C cancel.
func Confirm(question string) (ConfirmResult, error) {
	model := confirmModel{question: question}
	p := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return ConfirmResult{}, err
	}
	m, ok := final.(confirmModel)
	if !ok {
		return ConfirmResult{Cancelled: true}, nil
	}
	fmt.Fprint(os.Stderr, "\r\033[K")
	return m.result, nil
}
