package ui

import (
	"errors"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/rivo/tview"
)

// Option is a single menu entry. Value is what Select returns; Label is
// what the user sees.
type Option struct {
	Label string
	Value string
}

// Select presents a menu and returns the chosen value. The second
// return reports whether an interactive backend handled the menu; the
// third distinguishes "user cancelled" from "nothing chosen".
func Select(backend, title string, options []Option) (string, bool, error) {
	if len(options) == 0 {
		return "", false, nil
	}

	var firstErr error
	for _, candidate := range backendCandidates(backend) {
		var (
			value string
			used  bool
			err   error
		)
		switch candidate {
		case BackendHuh:
			value, used, err = selectWithHuh(title, options)
		case BackendBubbleTea:
			value, used, err = selectWithBubbleTea(title, options)
		case BackendTView:
			value, used, err = selectWithTView(title, options)
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

func selectWithHuh(title string, options []Option) (string, bool, error) {
	huhOptions := make([]huh.Option[string], 0, len(options))
	for _, option := range options {
		huhOptions = append(huhOptions, huh.NewOption(option.Label, option.Value))
	}

	choice := options[0].Value
	prompt := huh.NewSelect[string]().
		Title(title).
		Options(huhOptions...).
		Height(selectHeight(len(huhOptions))).
		Value(&choice).
		WithTheme(huh.ThemeCharm())

	err := prompt.Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", true, nil
		}
		return "", false, err
	}
	return choice, true, nil
}

type selectItem struct {
	label string
	value string
}

func (i selectItem) Title() string       { return i.label }
func (i selectItem) Description() string { return "" }
func (i selectItem) FilterValue() string { return i.label + " " + i.value }

type selectModel struct {
	list      list.Model
	selection string
	chosen    bool
	cancelled bool
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch k := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(k.Width-4, listHeight(k.Height, len(m.list.Items())))
		return m, nil
	case tea.KeyMsg:
		switch k.String() {
		case "q", "esc", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(selectItem); ok {
				m.selection = item.value
				m.chosen = true
			}
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) View() string {
	return m.list.View()
}

func selectWithBubbleTea(title string, options []Option) (string, bool, error) {
	items := make([]list.Item, 0, len(options))
	for _, option := range options {
		items = append(items, selectItem{label: option.Label, value: option.Value})
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	picker := list.New(items, delegate, 76, listHeight(24, len(items)))
	picker.Title = title
	picker.SetShowHelp(false)
	picker.SetFilteringEnabled(false)

	model := selectModel{list: picker}
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return "", false, err
	}
	out, ok := final.(selectModel)
	if !ok || out.cancelled || !out.chosen {
		return "", true, nil
	}
	return out.selection, true, nil
}

func selectWithTView(title string, options []Option) (string, bool, error) {
	app := tview.NewApplication()
	listView := tview.NewList()
	listView.SetBorder(true)
	listView.SetTitle(title)
	listView.ShowSecondaryText(false)

	value := ""
	chosen := false
	for _, option := range options {
		current := option
		listView.AddItem(current.Label, "", 0, func() {
			value = current.Value
			chosen = true
			app.Stop()
		})
	}
	listView.SetDoneFunc(func() {
		app.Stop()
	})

	if err := app.SetRoot(listView, true).SetFocus(listView).Run(); err != nil {
		return "", false, err
	}
	if !chosen {
		return "", true, nil
	}
	return value, true, nil
}

func selectHeight(optionCount int) int {
	if optionCount < 1 {
		optionCount = 1
	}
	return clampInt(optionCount+1, 4, 12)
}

func listHeight(termHeight, optionCount int) int {
	if termHeight <= 0 {
		termHeight = 24
	}
	if optionCount < 1 {
		optionCount = 1
	}
	return clampInt(optionCount+4, 6, termHeight-2)
}

func clampInt(v, minV, maxV int) int {
	if maxV < minV {
		maxV = minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
