package ui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// ErrPickCancelled is returned when the user aborts the picker.
var ErrPickCancelled = errors.New("selection cancelled")

const maxVisible = 10

var (
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	matchedStyle = lipgloss.NewStyle().Underline(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

type pickerModel struct {
	title     string
	options   []string
	input     textinput.Model
	matches   fuzzy.Matches
	cursor    int
	selected  string
	cancelled bool
}

func newPickerModel(title string, options []string) pickerModel {
	input := textinput.New()
	input.Prompt = "> "
	input.Focus()

	m := pickerModel{title: title, options: options, input: input}
	m.filter("")
	return m
}

func (m *pickerModel) filter(query string) {
	if query == "" {
		m.matches = make(fuzzy.Matches, len(m.options))
		for i, opt := range m.options {
			m.matches[i] = fuzzy.Match{Str: opt, Index: i}
		}
	} else {
		m.matches = fuzzy.Find(query, m.options)
	}
	if m.cursor >= len(m.matches) {
		m.cursor = 0
	}
}

func (m pickerModel) Init() tea.Cmd { return textinput.Blink }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			if len(m.matches) > 0 {
				m.selected = m.matches[m.cursor].Str
				return m, tea.Quit
			}
			return m, nil
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "ctrl+n":
			if m.cursor < len(m.matches)-1 {
				m.cursor++
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.filter(m.input.Value())
	}
	return m, cmd
}

func (m pickerModel) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(m.title))
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	b.WriteByte('\n')

	if len(m.matches) == 0 {
		b.WriteString(dimStyle.Render("  no matches"))
		b.WriteByte('\n')
		return b.String()
	}

	start := 0
	if m.cursor >= maxVisible {
		start = m.cursor - maxVisible + 1
	}
	end := start + maxVisible
	if end > len(m.matches) {
		end = len(m.matches)
	}

	for i := start; i < end; i++ {
		match := m.matches[i]
		line := highlightMatch(match)
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func highlightMatch(match fuzzy.Match) string {
	if len(match.MatchedIndexes) == 0 {
		return match.Str
	}
	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}
	var b strings.Builder
	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(matchedStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Pick shows a fuzzy-filterable list and returns the chosen option.
func Pick(title string, options []string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("nothing to pick from")
	}
	model := newPickerModel(title, options)
	p := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	m, ok := final.(pickerModel)
	if !ok || m.cancelled || m.selected == "" {
		return "", ErrPickCancelled
	}
	return m.selected, nil
}
