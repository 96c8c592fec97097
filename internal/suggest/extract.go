package suggest

import "strings"

// MaxCandidates caps how many commands a single AI response can yield.
const MaxCandidates = 3

const (
	basicMaxLen    = 200
	extendedMaxLen = 500
	extendedMinLen = 3
)

// knownCommands covers the common file, VCS, package-manager, process,
// and system-admin tools the assistant tends to suggest.
var knownCommands = map[string]struct{}{
	"ls": {}, "cd": {}, "pwd": {}, "mkdir": {}, "rmdir": {}, "rm": {},
	"cp": {}, "mv": {}, "cat": {}, "less": {}, "more": {}, "head": {},
	"tail": {}, "grep": {}, "find": {}, "which": {}, "whereis": {},
	"git": {}, "npm": {}, "yarn": {}, "cargo": {}, "pip": {},
	"docker": {}, "kubectl": {}, "ssh": {}, "scp": {}, "rsync": {},
	"curl": {}, "wget": {}, "sudo": {}, "su": {}, "chmod": {}, "chown": {},
	"ps": {}, "kill": {}, "top": {}, "htop": {}, "df": {}, "du": {},
	"free": {}, "mount": {}, "umount": {}, "systemctl": {}, "service": {},
	"vim": {}, "nano": {}, "emacs": {},
}

var shellFenceTags = map[string]struct{}{
	"": {}, "bash": {}, "sh": {}, "shell": {}, "zsh": {}, "console": {}, "terminal": {},
}

// Extract scans an AI response for candidate shell commands. Three
// layers run in a fixed order, each appending to the working list:
// numbered-list lines, fenced code blocks, then inline code spans. The
// result is truncated to MaxCandidates. Duplicates are kept on purpose:
// downstream menu numbering relies on stable extraction-order indices.
func Extract(response string) []string {
	var candidates []string

	for _, line := range strings.Split(response, "\n") {
		if cmd, ok := commandFromNumberedLine(line); ok {
			candidates = append(candidates, cmd)
		}
	}

	for _, block := range fencedBlocks(response) {
		if LooksLikeCommand(block) {
			candidates = append(candidates, block)
		}
	}

	for _, span := range inlineSpans(response) {
		if LooksLikeCommandExtended(span) {
			candidates = append(candidates, span)
		}
	}

	if len(candidates) > MaxCandidates {
		candidates = candidates[:MaxCandidates]
	}
	return candidates
}

// commandFromNumberedLine recovers a command from a "1. do something"
// suggestion line. Inline code wins; otherwise connector phrases
// ("using X", "with X", ": X", "X to ...") isolate a command-like
// substring; otherwise the whole remainder is taken when it already
// looks like a command.
func commandFromNumberedLine(line string) (string, bool) {
	rest, ok := stripListNumber(line)
	if !ok {
		return "", false
	}

	for _, span := range inlineSpans(rest) {
		if LooksLikeCommandExtended(span) {
			return span, true
		}
	}

	plain := strings.TrimSpace(strings.ReplaceAll(rest, "`", ""))
	if plain == "" {
		return "", false
	}

	for _, connector := range []string{" using ", " with "} {
		if idx := strings.Index(strings.ToLower(plain), connector); idx >= 0 {
			candidate := trimCommandText(plain[idx+len(connector):])
			if LooksLikeCommand(candidate) {
				return candidate, true
			}
		}
	}
	if idx := strings.Index(plain, ": "); idx >= 0 {
		candidate := trimCommandText(plain[idx+2:])
		if LooksLikeCommand(candidate) {
			return candidate, true
		}
	}
	for _, tail := range []string{" to ", " and ", " then "} {
		if idx := strings.Index(strings.ToLower(plain), tail); idx > 0 {
			candidate := trimCommandText(plain[:idx])
			if LooksLikeCommand(candidate) {
				return candidate, true
			}
		}
	}

	candidate := trimCommandText(plain)
	if LooksLikeCommand(candidate) {
		return candidate, true
	}
	return "", false
}

func stripListNumber(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	i := 0
	for i < len(trimmed) && trimmed[i] >= '0' && trimmed[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(trimmed) || trimmed[i] != '.' {
		return "", false
	}
	return strings.TrimSpace(trimmed[i+1:]), true
}

func trimCommandText(text string) string {
	return strings.Trim(strings.TrimSpace(text), ".,;")
}

func fencedBlocks(response string) []string {
	var blocks []string
	rest := response
	for {
		start := strings.Index(rest, "```")
		if start < 0 {
			return blocks
		}
		rest = rest[start+3:]
		end := strings.Index(rest, "```")
		if end < 0 {
			return blocks
		}
		block := rest[:end]
		rest = rest[end+3:]

		tag := ""
		if nl := strings.IndexByte(block, '\n'); nl >= 0 {
			tag = strings.TrimSpace(block[:nl])
			block = block[nl+1:]
		}
		if _, ok := shellFenceTags[strings.ToLower(tag)]; !ok {
			continue
		}
		if trimmed := strings.TrimSpace(block); trimmed != "" {
			blocks = append(blocks, trimmed)
		}
	}
}

func inlineSpans(text string) []string {
	parts := strings.Split(text, "`")
	if len(parts) < 3 {
		return nil
	}
	var spans []string
	for i := 1; i < len(parts); i += 2 {
		if span := strings.TrimSpace(parts[i]); span != "" {
			spans = append(spans, span)
		}
	}
	return spans
}

// LooksLikeCommand is the basic classifier: short, single-line text that
// either starts with a known tool name or has the "command arg..." shape.
func LooksLikeCommand(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" || len(text) > basicMaxLen {
		return false
	}
	if strings.ContainsRune(text, '\n') {
		return false
	}
	return startsWithKnownCommand(text) || hasCommandShape(text)
}

// LooksLikeCommandExtended relaxes the basic classifier for inline code
// spans: a higher length ceiling, plus pipelines and flag-bearing text.
func LooksLikeCommandExtended(text string) bool {
	text = strings.TrimSpace(text)
	if len(text) < extendedMinLen || len(text) > extendedMaxLen {
		return false
	}
	if strings.ContainsRune(text, '\n') {
		return false
	}
	if startsWithKnownCommand(text) || hasCommandShape(text) {
		return true
	}
	return hasFlankedPipe(text) || hasFlagArgument(text)
}

func startsWithKnownCommand(text string) bool {
	first := text
	if idx := strings.IndexAny(text, " \t"); idx >= 0 {
		first = text[:idx]
	}
	_, ok := knownCommands[strings.ToLower(first)]
	return ok
}

func hasCommandShape(text string) bool {
	idx := strings.IndexAny(text, " \t")
	if idx <= 0 {
		return false
	}
	return strings.TrimSpace(text[idx:]) != ""
}

func hasFlankedPipe(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] != '|' {
			continue
		}
		before := strings.TrimSpace(text[:i])
		after := strings.TrimSpace(text[i+1:])
		if before != "" && after != "" {
			return true
		}
	}
	return false
}

func hasFlagArgument(text string) bool {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return false
	}
	for _, field := range fields[1:] {
		if len(field) >= 2 && field[0] == '-' && isAlpha(field[1]) {
			return true
		}
	}
	return false
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
