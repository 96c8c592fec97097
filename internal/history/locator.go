package history

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// EnvHistFile overrides source discovery when set.
const EnvHistFile = "SHY_HISTFILE"

// Source is a discovered history file. Sources are read-only; a session
// may pin one to override auto-detection.
type Source struct {
	Path    string
	Dialect Dialect
}

func (s Source) Describe() string {
	path := s.Path
	if home, err := os.UserHomeDir(); err == nil && strings.HasPrefix(path, home) {
		path = "~" + strings.TrimPrefix(path, home)
	}
	if s.Dialect == DialectUnknown {
		return path
	}
	return fmt.Sprintf("%s (%s)", string(s.Dialect), path)
}

// CandidateSources lists every history file worth trying: the
// environment override first, then the well-known per-shell locations
// under the home directory, deduplicated by resolved path.
func CandidateSources() []Source {
	var sources []Source
	if override := strings.TrimSpace(os.Getenv(EnvHistFile)); override != "" {
		sources = append(sources, Source{Path: override, Dialect: dialectForPath(override)})
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return dedupeSources(sources)
	}
	sources = append(sources,
		Source{Path: filepath.Join(home, ".bash_history"), Dialect: DialectBash},
		Source{Path: filepath.Join(home, ".zsh_history"), Dialect: DialectZsh},
		Source{Path: filepath.Join(home, ".local", "share", "fish", "fish_history"), Dialect: DialectFish},
		Source{Path: filepath.Join(home, ".history"), Dialect: DialectGeneric},
		Source{Path: filepath.Join(home, ".sh_history"), Dialect: DialectGeneric},
	)
	return dedupeSources(sources)
}

func dialectForPath(path string) Dialect {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.Contains(name, "zsh"):
		return DialectZsh
	case strings.Contains(name, "bash"):
		return DialectBash
	case strings.Contains(name, "fish"):
		return DialectFish
	default:
		return DialectCustom
	}
}

func dedupeSources(sources []Source) []Source {
	seen := map[string]struct{}{}
	out := make([]Source, 0, len(sources))
	for _, src := range sources {
		key := resolvePath(src.Path)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, src)
	}
	return out
}

func resolvePath(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return filepath.Clean(path)
}

// ActiveSources orders candidates for reading. A pinned source wins
// outright; otherwise existing sources are returned with the detected
// shell's dialect promoted to the front.
func ActiveSources(pinned *Source) []Source {
	if pinned != nil {
		return []Source{*pinned}
	}

	var existing []Source
	for _, src := range CandidateSources() {
		if _, err := os.Stat(src.Path); err == nil {
			existing = append(existing, src)
		}
	}

	detected := DetectShell()
	if detected == DialectUnknown {
		return existing
	}
	promoted := make([]Source, 0, len(existing))
	var rest []Source
	for _, src := range existing {
		if src.Dialect == detected {
			promoted = append(promoted, src)
		} else {
			rest = append(rest, src)
		}
	}
	return append(promoted, rest...)
}

var knownShells = []string{"fish", "zsh", "bash", "sh"}

// DetectShell is best-effort and layered: a running-process scan, then
// the parent process, then our own invocation name, then $SHELL. Every
// step may fail silently.
func DetectShell() Dialect {
	if d := shellFromProcessList(); d != DialectUnknown {
		return d
	}
	if d := shellFromName(parentProcessName()); d != DialectUnknown {
		return d
	}
	if d := shellFromName(filepath.Base(os.Args[0])); d != DialectUnknown {
		return d
	}
	return shellFromName(filepath.Base(os.Getenv("SHELL")))
}

// shellFromProcessList walks the ancestor process chain looking for a
// known shell. Wrappers like `go run` or terminal multiplexers sit
// between the REPL and the interactive shell, so one parent hop is not
// always enough.
func shellFromProcessList() Dialect {
	pid := os.Getppid()
	for depth := 0; depth < 10 && pid > 1; depth++ {
		name, ppid := processInfo(pid)
		if d := shellFromName(name); d != DialectUnknown {
			return d
		}
		if ppid <= 0 || ppid == pid {
			break
		}
		pid = ppid
	}
	return DialectUnknown
}

func parentProcessName() string {
	name, _ := processInfo(os.Getppid())
	return name
}

func processInfo(pid int) (string, int) {
	if pid <= 0 {
		return "", 0
	}
	if runtime.GOOS == "linux" {
		if stat, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "stat")); err == nil {
			return parseProcStat(string(stat))
		}
	}
	out, err := exec.Command("ps", "-o", "ppid=,comm=", "-p", strconv.Itoa(pid)).Output()
	if err != nil {
		return "", 0
	}
	fields := strings.Fields(string(out))
	if len(fields) < 2 {
		return "", 0
	}
	ppid, err := strconv.Atoi(fields[0])
	if err != nil {
		return "", 0
	}
	return fields[1], ppid
}

// parseProcStat extracts comm and ppid from /proc/<pid>/stat. The comm
// field is parenthesized and may itself contain spaces or parens.
func parseProcStat(stat string) (string, int) {
	open := strings.IndexByte(stat, '(')
	close := strings.LastIndexByte(stat, ')')
	if open < 0 || close < open {
		return "", 0
	}
	name := stat[open+1 : close]
	rest := strings.Fields(stat[close+1:])
	if len(rest) < 2 {
		return name, 0
	}
	ppid, err := strconv.Atoi(rest[1])
	if err != nil {
		return name, 0
	}
	return name, ppid
}

func shellFromName(name string) Dialect {
	name = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "-")
	for _, shell := range knownShells {
		if name != shell {
			continue
		}
		switch shell {
		case "fish":
			return DialectFish
		case "zsh":
			return DialectZsh
		case "bash":
			return DialectBash
		default:
			return DialectGeneric
		}
	}
	return DialectUnknown
}

// ShellName reports the detected shell for prompt context, or "unknown".
func ShellName() string {
	if d := DetectShell(); d != DialectUnknown {
		return string(d)
	}
	return "unknown"
}

func readSource(src Source) []string {
	payload, err := os.ReadFile(src.Path)
	if err != nil {
		return nil
	}
	return Parse(string(payload), src.Dialect)
}

func firstReadableSource(pinned *Source) ([]string, Source, bool) {
	for _, src := range ActiveSources(pinned) {
		if entries := readSource(src); len(entries) > 0 {
			return entries, src, true
		}
	}
	return nil, Source{}, false
}

// Recent returns the last n entries in chronological order together with
// a description of the source they came from.
func Recent(n int, pinned *Source) ([]string, string) {
	entries, src, ok := firstReadableSource(pinned)
	if !ok {
		return nil, "no history found"
	}
	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, src.Describe()
}

// Page returns a most-recent-first window over the active source.
func Page(offset, limit int, pinned *Source) ([]string, string, int) {
	entries, src, ok := firstReadableSource(pinned)
	if !ok {
		return nil, "no history found", 0
	}

	reversed := make([]string, len(entries))
	for i, entry := range entries {
		reversed[len(entries)-1-i] = entry
	}

	total := len(reversed)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return nil, src.Describe(), total
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return reversed[offset:end], src.Describe(), total
}
