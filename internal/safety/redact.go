package safety

import "regexp"

// History lines and command output leave the machine as AI prompt
// context, so obvious credentials are scrubbed first. Matching is
// keyword-driven; it will not catch an opaque secret with no
// surrounding hint.

type redactRule struct {
	pattern     *regexp.Regexp
	replacement string
}

const secretKeywords = `(?:token|secret|password|passwd|api[_-]?key|access[_-]?key)`

var redactRules = []redactRule{
	// VAR=value and key: value assignments
	{
		pattern:     regexp.MustCompile(`(?i)\b([a-z0-9_]*` + secretKeywords + `[a-z0-9_]*)\s*[=:]\s*([^\s"']+|"[^"]*"|'[^']*')`),
		replacement: `$1=<redacted>`,
	},
	// Authorization: Bearer <token>
	{
		pattern:     regexp.MustCompile(`(?i)\b(authorization\s*:\s*bearer)\s+(\S+)`),
		replacement: `$1 <redacted>`,
	},
	// --password=value and --password value
	{
		pattern:     regexp.MustCompile(`(?i)(--[a-z0-9_-]*` + secretKeywords + `[a-z0-9_-]*)=([^\s"']+|"[^"]*"|'[^']*')`),
		replacement: `$1=<redacted>`,
	},
	{
		pattern:     regexp.MustCompile(`(?i)(--[a-z0-9_-]*` + secretKeywords + `[a-z0-9_-]*)\s+([^\s"']+|"[^"]*"|'[^']*')`),
		replacement: `$1 <redacted>`,
	},
	// bare "password hunter2" style arguments
	{
		pattern:     regexp.MustCompile(`(?i)\b([a-z0-9_-]*` + secretKeywords + `[a-z0-9_-]*)\b\s+([^\s"'=-][^\s"']*|"[^"]*"|'[^']*')`),
		replacement: `$1 <redacted>`,
	},
}

// Redact scrubs credential-looking values from free-form text before
// it is included in a prompt.
func Redact(text string) string {
	for _, rule := range redactRules {
		text = rule.pattern.ReplaceAllString(text, rule.replacement)
	}
	return text
}
