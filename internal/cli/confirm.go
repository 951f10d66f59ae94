package cli

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Confirmer asks the user a yes/no question.
type Confirmer func(prompt string) (bool, error)

var (
	promptStyle   = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1)
	choiceStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// confirmModel is a two-button prompt. It starts on "No" so an accidental
// Enter never cancels a reservation.
type confirmModel struct {
	prompt    string
	yes       bool
	done      bool
	cancelled bool
}

func newConfirmModel(prompt string) confirmModel {
	return confirmModel{prompt: prompt}
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.yes, m.done = true, true
		return m, tea.Quit
	case "n", "N":
		m.yes, m.done = false, true
		return m, tea.Quit
	case "left", "right", "h", "l", "tab":
		m.yes = !m.yes
	case "enter":
		m.done = true
		return m, tea.Quit
	case "esc", "q", "ctrl+c":
		m.yes, m.done, m.cancelled = false, true, true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}
	yes, no := choiceStyle.Render("Yes"), selectedStyle.Render("No")
	if m.yes {
		yes, no = selectedStyle.Render("Yes"), choiceStyle.Render("No")
	}
	return fmt.Sprintf("%s\n\n  %s  %s\n\n(y/n, arrows to move, enter to choose)\n", promptStyle.Render(m.prompt), yes, no)
}

// TerminalConfirmer runs the prompt as a bubbletea program on in/out.
func TerminalConfirmer(in io.Reader, out io.Writer) Confirmer {
	return func(prompt string) (bool, error) {
		program := tea.NewProgram(newConfirmModel(prompt), tea.WithInput(in), tea.WithOutput(out))
		final, err := program.Run()
		if err != nil {
			return false, fmt.Errorf("confirmation prompt: %w", err)
		}
		m := final.(confirmModel)
		return m.yes && !m.cancelled, nil
	}
}

// AutoConfirm answers every prompt with answer. Used for --yes.
func AutoConfirm(answer bool) Confirmer {
	return func(string) (bool, error) { return answer, nil }
}
