package session

import (
	"fmt"
	"strings"

	"github.com/shycli/shy/internal/runtime"
	"github.com/shycli/shy/internal/suggest"
)

type runState int

const (
	statePreview runState = iota
	stateConfirmed
	stateCancelled
)

// ConfirmAndRun drives the preview/confirm/modify/cancel workflow and
// then executes the command. With requireConfirmation false (the user
// already picked the command from a menu) the preview step is skipped
// but execution and follow-up analysis still happen. Execution
// failures are reported inline and never returned: only aborted
// prompts propagate.
func (s *Session) ConfirmAndRun(command string, requireConfirmation bool) error {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil
	}

	state := statePreview
	if !requireConfirmation {
		state = stateConfirmed
	}

	for state == statePreview {
		fmt.Fprintf(s.out, "\nSuggested command: %s\n", command)

		approved, err := s.confirmFn("Run it?", command)
		if err != nil {
			return fmt.Errorf("confirmation prompt failed: %w", err)
		}
		if approved {
			state = stateConfirmed
			break
		}

		modify, err := s.confirmFn("Modify it?", command)
		if err != nil {
			return fmt.Errorf("modify prompt failed: %w", err)
		}
		if !modify {
			state = stateCancelled
			break
		}

		edited, err := s.inputFn("Edit command", command)
		if err != nil {
			return fmt.Errorf("edit prompt failed: %w", err)
		}
		edited, normErr := runtime.NormalizeCommand(edited)
		if normErr != nil {
			state = stateCancelled
			break
		}
		command = edited
	}

	if state == stateCancelled {
		fmt.Fprintln(s.out, "Cancelled. Command not executed.")
		return nil
	}

	s.execute(command)
	return nil
}

func (s *Session) execute(command string) {
	result, err := s.runFn(command)
	if err != nil {
		fmt.Fprintf(s.out, "shy: could not execute %q: %v\n", command, err)
		return
	}

	if result.Stdout != "" {
		fmt.Fprint(s.out, result.Stdout)
		if !strings.HasSuffix(result.Stdout, "\n") {
			fmt.Fprintln(s.out)
		}
	}
	if result.Stderr != "" {
		fmt.Fprint(s.out, result.Stderr)
		if !strings.HasSuffix(result.Stderr, "\n") {
			fmt.Fprintln(s.out)
		}
	}

	if result.ExitCode != 0 {
		fmt.Fprintf(s.out, "shy: command exited with status %d\n", result.ExitCode)
		return
	}

	s.showFollowUps(command, result.Stdout)
}

// showFollowUps prints advisory suggestions derived from the command's
// output. They are displayed only, never queued into the suggestion
// set.
func (s *Session) showFollowUps(command, stdout string) {
	followUp, ok := suggest.AnalyzeOutput(command, stdout)
	if !ok {
		return
	}
	fmt.Fprintf(s.out, "\n%s - you could try:\n", followUp.Title)
	for _, cmd := range followUp.Commands {
		fmt.Fprintf(s.out, "  %s\n", cmd)
	}
}
