package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shycli/shy/internal/suggest"
)

var (
	commandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	flagStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// Highlight colors backticked code spans in an AI response: command
// names in cyan, flags in yellow. The backticks themselves are
// dropped. Text outside backticks passes through unchanged.
func Highlight(text string) string {
	var b strings.Builder
	inCode := false
	for _, part := range strings.Split(text, "`") {
		if inCode {
			b.WriteString(formatCode(part))
		} else {
			b.WriteString(part)
		}
		inCode = !inCode
	}
	return b.String()
}

func formatCode(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return code
	}
	if strings.Contains(trimmed, "|") {
		return formatPipeline(trimmed)
	}
	return formatSimple(trimmed)
}

func formatSimple(code string) string {
	parts := strings.Fields(code)
	if len(parts) == 1 {
		switch {
		case strings.HasPrefix(parts[0], "-"):
			return flagStyle.Render(parts[0])
		case suggest.LooksLikeCommand(parts[0]):
			return commandStyle.Render(parts[0])
		default:
			return parts[0]
		}
	}

	var b strings.Builder
	b.WriteString(commandStyle.Render(parts[0]))
	for _, part := range parts[1:] {
		b.WriteByte(' ')
		if strings.HasPrefix(part, "-") {
			b.WriteString(flagStyle.Render(part))
		} else {
			b.WriteString(part)
		}
	}
	return b.String()
}

func formatPipeline(code string) string {
	stages := strings.Split(code, "|")
	var b strings.Builder
	for i, stage := range stages {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(formatSimple(strings.TrimSpace(stage)))
	}
	return b.String()
}
