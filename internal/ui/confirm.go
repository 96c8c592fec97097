package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/rivo/tview"
)

// Confirm asks a yes/no question through the first backend that works.
// The second return reports whether any interactive backend handled the
// prompt; callers fall back to a plain stdin prompt when it is false.
func Confirm(backend, title, description string) (bool, bool, error) {
	var firstErr error
	for _, candidate := range backendCandidates(backend) {
		var (
			approved bool
			err      error
		)
		switch candidate {
		case BackendHuh:
			approved, err = confirmWithHuh(title, description)
		case BackendBubbleTea:
			approved, err = confirmWithBubbleTea(title, description)
		case BackendTView:
			approved, err = confirmWithTView(title, description)
		default:
			continue
		}
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		return approved, true, nil
	}
	if firstErr != nil {
		return false, false, firstErr
	}
	return false, false, nil
}

func confirmWithHuh(title, description string) (bool, error) {
	approved := false
	prompt := huh.NewConfirm().
		Title(title).
		Description(strings.TrimSpace(description)).
		Affirmative("Yes").
		Negative("No").
		Value(&approved).
		WithTheme(huh.ThemeCharm())
	err := prompt.Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return approved, nil
}

type bubbleConfirmModel struct {
	title       string
	description string
	approved    bool
	done        bool
}

func (m bubbleConfirmModel) Init() tea.Cmd { return nil }

func (m bubbleConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch k := msg.(type) {
	case tea.KeyMsg:
		switch strings.ToLower(k.String()) {
		case "y":
			m.approved = true
			m.done = true
			return m, tea.Quit
		case "n", "esc", "ctrl+c", "enter":
			m.approved = false
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m bubbleConfirmModel) View() string {
	return fmt.Sprintf("%s\n\n%s\n\n[y] yes  [n] no", m.title, m.description)
}

func confirmWithBubbleTea(title, description string) (bool, error) {
	model := bubbleConfirmModel{title: title, description: strings.TrimSpace(description)}
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return false, err
	}
	out, ok := final.(bubbleConfirmModel)
	if !ok || !out.done {
		return false, nil
	}
	return out.approved, nil
}

func confirmWithTView(title, description string) (bool, error) {
	app := tview.NewApplication()
	approved := false
	done := false

	modal := tview.NewModal().
		SetText(fmt.Sprintf("%s\n\n%s", title, strings.TrimSpace(description))).
		AddButtons([]string{"Yes", "No"}).
		SetDoneFunc(func(_ int, label string) {
			done = true
			approved = strings.EqualFold(strings.TrimSpace(label), "yes")
			app.Stop()
		})

	if err := app.SetRoot(modal, true).Run(); err != nil {
		return false, err
	}
	if !done {
		return false, nil
	}
	return approved, nil
}
