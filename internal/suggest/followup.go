package suggest

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"
)

// FollowUp is an advisory set of commands derived from a just-executed
// command's output. It is displayed, never queued as AI suggestions.
type FollowUp struct {
	Title    string
	Commands []string
}

var downloadableExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg",
	".pdf", ".zip", ".tar.gz", ".tgz", ".mp3", ".mp4", ".iso",
}

// AnalyzeOutput inspects a successful command and its stdout for
// recognizable shapes worth a follow-up. At most one rule fires.
func AnalyzeOutput(command, stdout string) (FollowUp, bool) {
	if followUp, ok := comicDownload(stdout); ok {
		return followUp, true
	}
	if followUp, ok := jsonURLDownload(stdout); ok {
		return followUp, true
	}
	if followUp, ok := longListing(command, stdout); ok {
		return followUp, true
	}
	if followUp, ok := dirtyWorktree(command, stdout); ok {
		return followUp, true
	}
	return FollowUp{}, false
}

// comicDownload recognizes the xkcd API JSON shape and offers to fetch
// the comic image under its title.
func comicDownload(stdout string) (FollowUp, bool) {
	fields, ok := jsonObject(stdout)
	if !ok {
		return FollowUp{}, false
	}
	img, _ := fields["img"].(string)
	title, _ := fields["title"].(string)
	if _, hasNum := fields["num"]; !hasNum {
		return FollowUp{}, false
	}
	if !isHTTPURL(img) || strings.TrimSpace(title) == "" {
		return FollowUp{}, false
	}

	name := sanitizeFilename(title) + path.Ext(img)
	return FollowUp{
		Title:    fmt.Sprintf("comic %q spotted in output", title),
		Commands: []string{fmt.Sprintf("curl -o %s %s", name, img)},
	}, true
}

func jsonURLDownload(stdout string) (FollowUp, bool) {
	fields, ok := jsonObject(stdout)
	if !ok {
		return FollowUp{}, false
	}
	for _, value := range fields {
		url, ok := value.(string)
		if !ok || !isHTTPURL(url) {
			continue
		}
		if !hasDownloadableExtension(url) {
			continue
		}
		name := path.Base(url)
		return FollowUp{
			Title:    "downloadable URL spotted in output",
			Commands: []string{fmt.Sprintf("curl -o %s %s", name, url)},
		}, true
	}
	return FollowUp{}, false
}

func longListing(command, stdout string) (FollowUp, bool) {
	first := firstToken(command)
	if first != "ls" {
		return FollowUp{}, false
	}
	if strings.Count(stdout, "\n") < 20 {
		return FollowUp{}, false
	}
	return FollowUp{
		Title: "that is a long listing",
		Commands: []string{
			"ls -lt | head -10",
			"ls -lS | head -10",
			"ls | grep <pattern>",
		},
	}, true
}

func dirtyWorktree(command, stdout string) (FollowUp, bool) {
	if firstToken(command) != "git" {
		return FollowUp{}, false
	}
	if !strings.Contains(stdout, "modified:") && !hasPorcelainModified(stdout) {
		return FollowUp{}, false
	}
	return FollowUp{
		Title: "modified files in the worktree",
		Commands: []string{
			"git diff",
			"git add -p",
		},
	}, true
}

func hasPorcelainModified(stdout string) bool {
	for _, line := range strings.Split(stdout, "\n") {
		if strings.HasPrefix(line, " M ") || strings.HasPrefix(line, "M  ") {
			return true
		}
	}
	return false
}

func jsonObject(text string) (map[string]any, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "{") {
		return nil, false
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(trimmed), &fields); err != nil {
		return nil, false
	}
	return fields, true
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func hasDownloadableExtension(url string) bool {
	low := strings.ToLower(url)
	for _, ext := range downloadableExtensions {
		if strings.HasSuffix(low, ext) {
			return true
		}
	}
	return false
}

func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "download"
	}
	return b.String()
}

func firstToken(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
