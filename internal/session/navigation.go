package session

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shycli/shy/internal/history"
	"github.com/shycli/shy/internal/ui"
)

const (
	choiceNone       = "none"
	choiceCustom     = "custom"
	choiceExit       = "exit"
	choicePrev       = "prev"
	choiceNext       = "next"
	choiceSource     = "source"
	choiceAutoDetect = "auto"
)

// RunSuggestionMenu offers the current suggestion set. "Do nothing" is
// always first so it is the safe default; picking a suggestion is an
// explicit choice, so it runs without a second confirmation, while a
// custom command still goes through the full confirm flow.
func (s *Session) RunSuggestionMenu() error {
	if len(s.suggestions) == 0 {
		return nil
	}

	options := []ui.Option{{Label: "Do nothing", Value: choiceNone}}
	for i, cmd := range s.suggestions {
		options = append(options, ui.Option{
			Label: fmt.Sprintf("Run %d: %s", i+1, cmd),
			Value: "run:" + strconv.Itoa(i),
		})
	}
	options = append(options, ui.Option{Label: "Enter a custom command", Value: choiceCustom})

	choice, err := s.selectFn("Suggested commands", options)
	if err != nil {
		return fmt.Errorf("suggestion menu failed: %w", err)
	}

	switch {
	case choice == "" || choice == choiceNone:
		return nil
	case choice == choiceCustom:
		custom, err := s.inputFn("Command to run", "")
		if err != nil {
			return fmt.Errorf("custom command prompt failed: %w", err)
		}
		if strings.TrimSpace(custom) == "" {
			return nil
		}
		return s.ConfirmAndRun(custom, true)
	case strings.HasPrefix(choice, "run:"):
		index, err := strconv.Atoi(strings.TrimPrefix(choice, "run:"))
		if err != nil || index < 0 || index >= len(s.suggestions) {
			return nil
		}
		return s.ConfirmAndRun(s.suggestions[index], false)
	default:
		return nil
	}
}

// RunHistoryBrowser pages through the active history source. The
// pagination offset lives on the session, so re-entering the browser
// resumes where the user left off.
func (s *Session) RunHistoryBrowser() error {
	for {
		entries, description, total := history.Page(s.pageOffset, pageSize, s.pinned)
		if total == 0 {
			// description is the no-data sentinel here, not a source name
			fmt.Fprintln(s.out, "No shell history found.")
			if s.pinned == nil {
				return nil
			}
		} else {
			if s.pageOffset >= total {
				s.pageOffset = 0
				continue
			}
			fmt.Fprintf(s.out, "\nHistory from %s\n", description)
			for i, entry := range entries {
				fmt.Fprintf(s.out, "  %3d  %s\n", s.pageOffset+i+1, entry)
			}
			fmt.Fprintf(s.out, "showing %d-%d of %d\n", s.pageOffset+1, s.pageOffset+len(entries), total)
		}

		var options []ui.Option
		if s.pageOffset > 0 {
			options = append(options, ui.Option{Label: "Previous page", Value: choicePrev})
		}
		if s.pageOffset+pageSize < total {
			options = append(options, ui.Option{Label: "Next page", Value: choiceNext})
		}
		options = append(options,
			ui.Option{Label: "Change source", Value: choiceSource},
			ui.Option{Label: "Exit", Value: choiceExit},
		)

		choice, err := s.selectFn("History", options)
		if err != nil {
			return fmt.Errorf("history menu failed: %w", err)
		}

		switch choice {
		case choicePrev:
			s.pageOffset -= pageSize
			if s.pageOffset < 0 {
				s.pageOffset = 0
			}
		case choiceNext:
			s.pageOffset += pageSize
		case choiceSource:
			if err := s.changeSource(); err != nil {
				return err
			}
		case choiceExit, "":
			return nil
		}
	}
}

// changeSource lists every discovered source with existence and
// last-modified annotations. Picking one pins it and resets paging;
// auto-detect clears the pin.
func (s *Session) changeSource() error {
	sources := history.CandidateSources()
	if len(sources) < 2 {
		fmt.Fprintln(s.out, "Only one history source is available; nothing to change.")
		return nil
	}

	options := []ui.Option{{Label: "Auto-detect (default)", Value: choiceAutoDetect}}
	for i, src := range sources {
		options = append(options, ui.Option{
			Label: fmt.Sprintf("%s %s", src.Describe(), sourceAnnotation(src)),
			Value: "src:" + strconv.Itoa(i),
		})
	}

	choice, err := s.selectFn("History source", options)
	if err != nil {
		return fmt.Errorf("source menu failed: %w", err)
	}

	switch {
	case choice == choiceAutoDetect:
		s.pinned = nil
		s.pageOffset = 0
	case strings.HasPrefix(choice, "src:"):
		index, err := strconv.Atoi(strings.TrimPrefix(choice, "src:"))
		if err != nil || index < 0 || index >= len(sources) {
			return nil
		}
		src := sources[index]
		s.pinned = &src
		s.pageOffset = 0
	}
	return nil
}

func sourceAnnotation(src history.Source) string {
	info, err := os.Stat(src.Path)
	if err != nil {
		return "(missing)"
	}
	return fmt.Sprintf("(modified %s)", info.ModTime().Format("2006-01-02 15:04"))
}
