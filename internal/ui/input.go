package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Input asks for a line of text, pre-filled with prefill so the user
// can edit in place (the modify-before-run flow depends on this).
func Input(backend, title, prefill string) (string, bool, error) {
	var firstErr error
	for _, candidate := range backendCandidates(backend) {
		var (
			value string
			used  bool
			err   error
		)
		switch candidate {
		case BackendHuh:
			value, used, err = inputWithHuh(title, prefill)
		case BackendBubbleTea:
			value, used, err = inputWithBubbleTea(title, prefill)
		case BackendTView:
			value, used, err = inputWithTView(title, prefill)
		default:
			continue
		}
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if used {
			return value, true, nil
		}
	}
	if firstErr != nil {
		return "", false, firstErr
	}
	return "", false, nil
}

func inputWithHuh(title, prefill string) (string, bool, error) {
	value := prefill
	prompt := huh.NewInput().
		Title(title).
		Value(&value).
		WithTheme(huh.ThemeCharm())
	err := prompt.Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", true, nil
		}
		return "", false, err
	}
	return strings.TrimSpace(value), true, nil
}

type inputModel struct {
	title     string
	input     textinput.Model
	done      bool
	cancelled bool
}

func (m inputModel) Init() tea.Cmd { return textinput.Blink }

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch k := msg.(type) {
	case tea.KeyMsg:
		switch k.String() {
		case "enter":
			m.done = true
			return m, tea.Quit
		case "esc", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	return fmt.Sprintf("%s\n\n%s\n\n(enter to accept, esc to cancel)", m.title, m.input.View())
}

func inputWithBubbleTea(title, prefill string) (string, bool, error) {
	field := textinput.New()
	field.SetValue(prefill)
	field.CursorEnd()
	field.Focus()
	field.CharLimit = 500
	field.Width = 72

	model := inputModel{title: title, input: field}
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return "", false, err
	}
	out, ok := final.(inputModel)
	if !ok || out.cancelled || !out.done {
		return "", true, nil
	}
	return strings.TrimSpace(out.input.Value()), true, nil
}

func inputWithTView(title, prefill string) (string, bool, error) {
	app := tview.NewApplication()
	value := ""
	done := false

	field := tview.NewInputField().
		SetLabel(title + ": ").
		SetText(prefill).
		SetFieldWidth(0)
	field.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			value = field.GetText()
			done = true
		}
		app.Stop()
	})

	if err := app.SetRoot(field, true).SetFocus(field).Run(); err != nil {
		return "", false, err
	}
	if !done {
		return "", true, nil
	}
	return strings.TrimSpace(value), true, nil
}
