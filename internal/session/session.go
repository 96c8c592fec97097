package session

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shycli/shy/internal/history"
	"github.com/shycli/shy/internal/runtime"
	"github.com/shycli/shy/internal/suggest"
	"github.com/shycli/shy/internal/ui"
)

const pageSize = 20

// Session owns the mutable state of one interactive run: the pinned
// history source, the history-browser pagination offset, and the
// suggestion set from the most recent AI response. None of it survives
// a process restart.
type Session struct {
	backend     string
	out         io.Writer
	in          *bufio.Reader
	pinned      *history.Source
	pageOffset  int
	suggestions []string

	confirmFn func(title, description string) (bool, error)
	inputFn   func(title, prefill string) (string, error)
	selectFn  func(title string, options []ui.Option) (string, error)
	runFn     func(command string) (runtime.Result, error)
}

func New() *Session {
	s := &Session{
		backend: ui.EffectiveBackend(),
		out:     os.Stdout,
		in:      bufio.NewReader(os.Stdin),
		runFn:   runtime.Run,
	}
	s.confirmFn = s.confirmDefault
	s.inputFn = s.inputDefault
	s.selectFn = s.selectDefault
	return s
}

// Suggestions is the current suggestion set, replaced wholesale by
// every AI response.
func (s *Session) Suggestions() []string {
	return s.suggestions
}

// HandleResponse extracts candidate commands from an AI response and
// makes them the session's suggestion set.
func (s *Session) HandleResponse(response string) []string {
	s.suggestions = suggest.Extract(response)
	return s.suggestions
}

// PinnedSource describes the pinned history source, or "auto-detect".
func (s *Session) PinnedSource() string {
	if s.pinned == nil {
		return "auto-detect"
	}
	return s.pinned.Describe()
}

func (s *Session) confirmDefault(title, description string) (bool, error) {
	approved, used, err := ui.Confirm(s.backend, title, description)
	if err != nil {
		return false, err
	}
	if used {
		return approved, nil
	}

	if description != "" {
		fmt.Fprintln(s.out, description)
	}
	fmt.Fprintf(s.out, "%s [y/N]: ", title)
	line, err := s.in.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("could not read confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func (s *Session) inputDefault(title, prefill string) (string, error) {
	value, used, err := ui.Input(s.backend, title, prefill)
	if err != nil {
		return "", err
	}
	if used {
		return value, nil
	}

	fmt.Fprintf(s.out, "%s [%s]: ", title, prefill)
	line, err := s.in.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("could not read input: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return prefill, nil
	}
	return line, nil
}

func (s *Session) selectDefault(title string, options []ui.Option) (string, error) {
	value, used, err := ui.Select(s.backend, title, options)
	if err != nil {
		return "", err
	}
	if used {
		return value, nil
	}

	fmt.Fprintln(s.out, title)
	for i, option := range options {
		fmt.Fprintf(s.out, "  %d) %s\n", i+1, option.Label)
	}
	fmt.Fprint(s.out, "choice [1]: ")
	line, err := s.in.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("could not read selection: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return options[0].Value, nil
	}
	index := 0
	if _, err := fmt.Sscanf(line, "%d", &index); err != nil || index < 1 || index > len(options) {
		return "", nil
	}
	return options[index-1].Value, nil
}
