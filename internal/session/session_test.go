package session

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shycli/shy/internal/history"
	"github.com/shycli/shy/internal/runtime"
	"github.com/shycli/shy/internal/ui"
)

type script struct {
	confirms []bool
	inputs   []string
	selects  []string
	ran      []string
	result   runtime.Result
}

func newTestSession(t *testing.T, sc *script) (*Session, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	s := &Session{backend: ui.BackendPlain, out: out}
	s.confirmFn = func(title, description string) (bool, error) {
		if len(sc.confirms) == 0 {
			t.Fatalf("unexpected confirm prompt %q", title)
		}
		answer := sc.confirms[0]
		sc.confirms = sc.confirms[1:]
		return answer, nil
	}
	s.inputFn = func(title, prefill string) (string, error) {
		if len(sc.inputs) == 0 {
			t.Fatalf("unexpected input prompt %q", title)
		}
		answer := sc.inputs[0]
		sc.inputs = sc.inputs[1:]
		return answer, nil
	}
	s.selectFn = func(title string, options []ui.Option) (string, error) {
		if len(sc.selects) == 0 {
			t.Fatalf("unexpected select prompt %q", title)
		}
		answer := sc.selects[0]
		sc.selects = sc.selects[1:]
		return answer, nil
	}
	s.runFn = func(command string) (runtime.Result, error) {
		sc.ran = append(sc.ran, command)
		return sc.result, nil
	}
	return s, out
}

func TestHandleResponseReplacesSuggestions(t *testing.T) {
	s, _ := newTestSession(t, &script{})
	s.HandleResponse("1. `ls -la`\n2. `pwd`\n")
	if got := s.Suggestions(); len(got) != 2 || got[0] != "ls -la" || got[1] != "pwd" {
		t.Fatalf("unexpected suggestions: %v", got)
	}
	s.HandleResponse("Try `df -h` here.")
	if got := s.Suggestions(); len(got) != 1 || got[0] != "df -h" {
		t.Fatalf("suggestions not replaced: %v", got)
	}
}

func TestConfirmAndRunApproved(t *testing.T) {
	sc := &script{confirms: []bool{true}, result: runtime.Result{Stdout: "ok\n"}}
	s, out := newTestSession(t, sc)
	if err := s.ConfirmAndRun("echo ok", true); err != nil {
		t.Fatalf("ConfirmAndRun: %v", err)
	}
	if len(sc.ran) != 1 || sc.ran[0] != "echo ok" {
		t.Fatalf("ran %v, want [echo ok]", sc.ran)
	}
	if !strings.Contains(out.String(), "Suggested command: echo ok") {
		t.Fatalf("missing preview in output: %q", out.String())
	}
	if !strings.Contains(out.String(), "ok\n") {
		t.Fatalf("missing stdout in output: %q", out.String())
	}
}

func TestConfirmAndRunModifyThenConfirm(t *testing.T) {
	sc := &script{
		confirms: []bool{false, true, true},
		inputs:   []string{"ls -la /tmp"},
	}
	s, _ := newTestSession(t, sc)
	if err := s.ConfirmAndRun("ls", true); err != nil {
		t.Fatalf("ConfirmAndRun: %v", err)
	}
	if len(sc.ran) != 1 || sc.ran[0] != "ls -la /tmp" {
		t.Fatalf("ran %v, want the edited command", sc.ran)
	}
}

func TestConfirmAndRunCancelled(t *testing.T) {
	sc := &script{confirms: []bool{false, false}}
	s, out := newTestSession(t, sc)
	if err := s.ConfirmAndRun("rm -rf build", true); err != nil {
		t.Fatalf("ConfirmAndRun: %v", err)
	}
	if len(sc.ran) != 0 {
		t.Fatalf("command ran despite cancellation: %v", sc.ran)
	}
	if !strings.Contains(out.String(), "Cancelled. Command not executed.") {
		t.Fatalf("missing cancellation notice: %q", out.String())
	}
}

func TestConfirmAndRunSkipsConfirmation(t *testing.T) {
	sc := &script{}
	s, _ := newTestSession(t, sc)
	if err := s.ConfirmAndRun("pwd", false); err != nil {
		t.Fatalf("ConfirmAndRun: %v", err)
	}
	if len(sc.ran) != 1 || sc.ran[0] != "pwd" {
		t.Fatalf("ran %v, want [pwd]", sc.ran)
	}
}

func TestConfirmAndRunReportsExitStatus(t *testing.T) {
	sc := &script{result: runtime.Result{Stderr: "not found\n", ExitCode: 2}}
	s, out := newTestSession(t, sc)
	if err := s.ConfirmAndRun("grep missing file", false); err != nil {
		t.Fatalf("ConfirmAndRun: %v", err)
	}
	if !strings.Contains(out.String(), "not found") {
		t.Fatalf("missing stderr in output: %q", out.String())
	}
	if !strings.Contains(out.String(), "exited with status 2") {
		t.Fatalf("missing exit status warning: %q", out.String())
	}
}

func TestConfirmAndRunShowsFollowUps(t *testing.T) {
	stdout := `{"num": 353, "title": "Python", "img": "https://imgs.xkcd.com/comics/python.png"}`
	sc := &script{result: runtime.Result{Stdout: stdout}}
	s, out := newTestSession(t, sc)
	if err := s.ConfirmAndRun("curl https://xkcd.com/info.0.json", false); err != nil {
		t.Fatalf("ConfirmAndRun: %v", err)
	}
	if !strings.Contains(out.String(), "you could try:") {
		t.Fatalf("missing follow-up heading: %q", out.String())
	}
	if !strings.Contains(out.String(), "curl -o python.png") {
		t.Fatalf("missing download follow-up: %q", out.String())
	}
	if len(s.Suggestions()) != 0 {
		t.Fatalf("follow-ups leaked into suggestions: %v", s.Suggestions())
	}
}

func TestRunSuggestionMenuRunsPick(t *testing.T) {
	sc := &script{selects: []string{"run:1"}}
	s, _ := newTestSession(t, sc)
	s.suggestions = []string{"ls", "df -h", "pwd"}
	if err := s.RunSuggestionMenu(); err != nil {
		t.Fatalf("RunSuggestionMenu: %v", err)
	}
	if len(sc.ran) != 1 || sc.ran[0] != "df -h" {
		t.Fatalf("ran %v, want [df -h]", sc.ran)
	}
}

func TestRunSuggestionMenuDefaultDoesNothing(t *testing.T) {
	sc := &script{selects: []string{choiceNone}}
	s, _ := newTestSession(t, sc)
	s.suggestions = []string{"ls"}
	if err := s.RunSuggestionMenu(); err != nil {
		t.Fatalf("RunSuggestionMenu: %v", err)
	}
	if len(sc.ran) != 0 {
		t.Fatalf("command ran from the do-nothing option: %v", sc.ran)
	}
}

func TestRunSuggestionMenuCustomCommandConfirms(t *testing.T) {
	sc := &script{
		selects:  []string{choiceCustom},
		inputs:   []string{"uname -a"},
		confirms: []bool{true},
	}
	s, _ := newTestSession(t, sc)
	s.suggestions = []string{"ls"}
	if err := s.RunSuggestionMenu(); err != nil {
		t.Fatalf("RunSuggestionMenu: %v", err)
	}
	if len(sc.ran) != 1 || sc.ran[0] != "uname -a" {
		t.Fatalf("ran %v, want [uname -a]", sc.ran)
	}
	if len(sc.confirms) != 0 {
		t.Fatalf("custom command skipped confirmation")
	}
}

func writeBrowserHistory(t *testing.T, n int) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "echo %d\n", i)
	}
	path := filepath.Join(home, "history")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write history: %v", err)
	}
	t.Setenv("SHY_HISTFILE", path)
}

func TestRunHistoryBrowserPagination(t *testing.T) {
	writeBrowserHistory(t, 45)
	sc := &script{selects: []string{choiceNext, choiceNext, choiceExit}}
	s, out := newTestSession(t, sc)
	if err := s.RunHistoryBrowser(); err != nil {
		t.Fatalf("RunHistoryBrowser: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "showing 1-20 of 45") {
		t.Fatalf("missing first page header: %q", text)
	}
	if !strings.Contains(text, "showing 21-40 of 45") {
		t.Fatalf("missing second page header: %q", text)
	}
	if !strings.Contains(text, "showing 41-45 of 45") {
		t.Fatalf("missing final page header: %q", text)
	}
	if s.pageOffset != 40 {
		t.Fatalf("pageOffset = %d after exit, want 40", s.pageOffset)
	}
}

func TestRunHistoryBrowserOffsetPersists(t *testing.T) {
	writeBrowserHistory(t, 45)
	sc := &script{selects: []string{choiceNext, choiceExit, choiceExit}}
	s, out := newTestSession(t, sc)
	if err := s.RunHistoryBrowser(); err != nil {
		t.Fatalf("first RunHistoryBrowser: %v", err)
	}
	out.Reset()
	if err := s.RunHistoryBrowser(); err != nil {
		t.Fatalf("second RunHistoryBrowser: %v", err)
	}
	if !strings.Contains(out.String(), "showing 21-40 of 45") {
		t.Fatalf("offset not preserved across re-entry: %q", out.String())
	}
}

func TestBuildContextEndsWithUserMessage(t *testing.T) {
	writeBrowserHistory(t, 3)
	s, _ := newTestSession(t, &script{})
	message := "how do I see disk usage per directory?"
	prompt := s.BuildContext(message)
	if !strings.HasSuffix(prompt, message) {
		t.Fatalf("prompt does not end with the user message: %q", prompt)
	}
	if !strings.Contains(prompt, "echo 3") {
		t.Fatalf("prompt missing recent history: %q", prompt)
	}
	if !strings.Contains(prompt, "Current directory:") {
		t.Fatalf("prompt missing working directory: %q", prompt)
	}
}

func TestRunHistoryBrowserEmptyPinnedSource(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SHY_HISTFILE", "")

	sc := &script{selects: []string{choiceExit}}
	s, out := newTestSession(t, sc)
	src := history.Source{Path: filepath.Join(home, "gone"), Dialect: history.DialectBash}
	s.pinned = &src
	if err := s.RunHistoryBrowser(); err != nil {
		t.Fatalf("RunHistoryBrowser: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "No shell history found.") {
		t.Fatalf("missing no-data notice: %q", text)
	}
	if strings.Contains(text, "History from") {
		t.Fatalf("header printed without a readable source: %q", text)
	}
}

func TestBuildContextRedactsHistorySecrets(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "history")
	entries := "export API_TOKEN=supersecret123\nls -la\n"
	if err := os.WriteFile(path, []byte(entries), 0o644); err != nil {
		t.Fatalf("write history: %v", err)
	}
	t.Setenv("SHY_HISTFILE", path)

	s, _ := newTestSession(t, &script{})
	prompt := s.BuildContext("hello")
	if strings.Contains(prompt, "supersecret123") {
		t.Fatalf("secret leaked into prompt: %q", prompt)
	}
	if !strings.Contains(prompt, "API_TOKEN=<redacted>") {
		t.Fatalf("redaction marker missing: %q", prompt)
	}
}
