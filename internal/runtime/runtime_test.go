package runtime

import (
	goruntime "runtime"
	"strings"
	"testing"
)

func TestRunCapturesStdout(t *testing.T) {
	if goruntime.GOOS == "windows" {
		t.Skip("unix shell assumed")
	}
	result, err := Run("echo hello")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if strings.TrimSpace(result.Stdout) != "hello" {
		t.Fatalf("expected stdout hello, got %q", result.Stdout)
	}
	if result.ExitCode != 0 {
		t.Fatalf("expected exit 0, got %d", result.ExitCode)
	}
}

func TestRunReportsNonZeroExitWithoutError(t *testing.T) {
	if goruntime.GOOS == "windows" {
		t.Skip("unix shell assumed")
	}
	result, err := Run("exit 3")
	if err != nil {
		t.Fatalf("expected non-zero exit to not be an error, got %v", err)
	}
	if result.ExitCode != 3 {
		t.Fatalf("expected exit 3, got %d", result.ExitCode)
	}
}

func TestRunCapturesStderr(t *testing.T) {
	if goruntime.GOOS == "windows" {
		t.Skip("unix shell assumed")
	}
	result, err := Run("echo oops 1>&2")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if strings.TrimSpace(result.Stderr) != "oops" {
		t.Fatalf("expected stderr oops, got %q", result.Stderr)
	}
}

func TestNormalizeCommand(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"ls -la", "ls -la", false},
		{"  git status  ", "git status", false},
		{"$ make build", "make build", false},
		{"> npm test", "npm test", false},
		{"```bash\ngit diff\n```", "git diff", false},
		{"", "", true},
		{"   ", "", true},
	}
	for _, tc := range cases {
		got, err := NormalizeCommand(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("NormalizeCommand(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NormalizeCommand(%q) failed: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("NormalizeCommand(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
