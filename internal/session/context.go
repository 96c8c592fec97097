package session

import (
	"fmt"
	"os"
	"strings"

	"github.com/shycli/shy/internal/history"
	"github.com/shycli/shy/internal/safety"
)

const (
	maxContextFiles   = 20
	maxContextHistory = 10
)

// BuildContext assembles the prompt for a user message: working
// directory, shell, a capped directory listing, recent history, and
// formatting instructions so suggested commands come back in a form
// the extractor recognizes. The user's message goes last, verbatim.
func (s *Session) BuildContext(userMessage string) string {
	var b strings.Builder

	b.WriteString("You are shy, a shell assistant. Suggest concrete shell commands when helpful.\n\n")

	if cwd, err := os.Getwd(); err == nil {
		fmt.Fprintf(&b, "Current directory: %s\n", cwd)
	}
	fmt.Fprintf(&b, "Shell: %s\n", history.ShellName())

	if files := listFiles(maxContextFiles); len(files) > 0 {
		b.WriteString("Directory contents:\n")
		for _, name := range files {
			fmt.Fprintf(&b, "  %s\n", name)
		}
	}

	if recent, _ := history.Recent(maxContextHistory, s.pinned); len(recent) > 0 {
		b.WriteString("Recent commands:\n")
		for _, cmd := range recent {
			fmt.Fprintf(&b, "  %s\n", safety.Redact(cmd))
		}
	}

	b.WriteString("\nWhen suggesting commands, list them as numbered items and wrap each ")
	b.WriteString("command in backticks on a single line. Suggest at most three.\n\n")
	b.WriteString(userMessage)

	return b.String()
}

func listFiles(limit int) []string {
	entries, err := os.ReadDir(".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, limit)
	for _, entry := range entries {
		if len(names) >= limit {
			break
		}
		name := entry.Name()
		if entry.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	return names
}
