package history

import "strings"

// Dialect names the shell family whose history format governs parsing.
type Dialect string

const (
	DialectBash    Dialect = "bash"
	DialectZsh     Dialect = "zsh"
	DialectFish    Dialect = "fish"
	DialectGeneric Dialect = "generic"
	DialectCustom  Dialect = "custom"
	DialectUnknown Dialect = ""
)

// maxEntryLen guards against corrupted history data. Entries at or over
// the limit are dropped rather than truncated.
const maxEntryLen = 200

const fishCmdPrefix = "- cmd: "

// Parse turns raw history-file text into commands in chronological order,
// oldest first. Unknown dialects fall back to line-oriented parsing.
func Parse(raw string, dialect Dialect) []string {
	switch dialect {
	case DialectFish:
		return parseFish(raw)
	default:
		return parseLines(raw)
	}
}

func parseLines(raw string) []string {
	var entries []string
	for _, line := range strings.Split(raw, "\n") {
		cmd := strings.TrimSpace(line)
		if cmd == "" || strings.HasPrefix(cmd, "#") {
			continue
		}
		if len(cmd) >= maxEntryLen {
			continue
		}
		entries = append(entries, cmd)
	}
	return entries
}

// parseFish handles fish's structured history: each entry opens with a
// "- cmd: " line; two-space-indented lines that are not "when:"/"paths:"
// markers continue the command across an embedded newline.
func parseFish(raw string) []string {
	var entries []string
	var current strings.Builder
	active := false

	flush := func() {
		if !active {
			return
		}
		cmd := strings.TrimSpace(current.String())
		if cmd != "" && len(cmd) < maxEntryLen {
			entries = append(entries, cmd)
		}
		current.Reset()
		active = false
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(line, fishCmdPrefix) {
			flush()
			current.WriteString(line[len(fishCmdPrefix):])
			active = true
			continue
		}
		if active && strings.HasPrefix(line, "  ") {
			body := line[2:]
			marker := strings.TrimSpace(body)
			if strings.HasPrefix(marker, "when:") || strings.HasPrefix(marker, "paths:") {
				flush()
				continue
			}
			current.WriteString("\n")
			current.WriteString(body)
			continue
		}
		flush()
	}
	flush()
	return entries
}
