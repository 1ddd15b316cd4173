package bren

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

var errNeedsYes = errors.New("cannot prompt for confirmation without a terminal; pass --yes")

type confirmModel struct {
	question string
	answered bool
	accepted bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.answered, m.accepted = true, true
		return m, tea.Quit
	case "n", "N", "enter", "esc", "q", "ctrl+c":
		m.answered = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.answered {
		answer := "no"
		if m.accepted {
			answer = "yes"
		}
		return fmt.Sprintf("%s %s\n", m.question, answer)
	}
	return fmt.Sprintf("%s [y/N] ", headerStyle.Render(m.question))
}

// Confirm asks a yes/no question on the terminal. When stdin carries the
// piped file list, keys are read from /dev/tty instead.
func Confirm(question string) (bool, error) {
	var opts []tea.ProgramOption
	if !isTerminal(os.Stdin) {
		tty, err := os.Open("/dev/tty")
		if err != nil {
			return false, errNeedsYes
		}
		defer tty.Close()
		opts = append(opts, tea.WithInput(tty))
	}

	final, err := tea.NewProgram(confirmModel{question: question}, opts...).Run()
	if err != nil {
		return false, fmt.Errorf("confirmation prompt: %w", err)
	}
	return final.(confirmModel).accepted, nil
}
