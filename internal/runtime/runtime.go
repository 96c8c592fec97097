package runtime

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	goruntime "runtime"
	"strings"
)

// Result captures everything a synchronous command run produced.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run executes command through the platform shell and captures its
// output. A non-zero exit is reported via Result.ExitCode, not an
// error; err is reserved for spawn failures.
func Run(command string) (Result, error) {
	shell, args := shellInvocation(command)
	cmd := exec.Command(shell, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("could not run command: %w", err)
	}
	return result, nil
}

func shellInvocation(command string) (string, []string) {
	if goruntime.GOOS == "windows" {
		comspec := strings.TrimSpace(os.Getenv("COMSPEC"))
		if comspec == "" {
			comspec = "cmd"
		}
		return comspec, []string{"/C", command}
	}
	return "sh", []string{"-c", command}
}

// NormalizeCommand cleans up user- or AI-supplied command text: code
// fences and prompt prefixes are stripped, empty input rejected.
func NormalizeCommand(command string) (string, error) {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return "", fmt.Errorf("command cannot be empty")
	}
	if strings.ContainsRune(trimmed, '\x00') {
		return "", fmt.Errorf("command contains invalid null byte")
	}

	if strings.HasPrefix(trimmed, "```") {
		lines := strings.Split(trimmed, "\n")
		if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[0]), "```") {
			lines = lines[1:]
		}
		if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
			lines = lines[:len(lines)-1]
		}
		trimmed = strings.TrimSpace(strings.Join(lines, "\n"))
	}

	switch {
	case strings.HasPrefix(trimmed, "$ "):
		trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "$ "))
	case strings.HasPrefix(trimmed, "> "):
		trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "> "))
	}

	if trimmed == "" {
		return "", fmt.Errorf("command cannot be empty")
	}
	return trimmed, nil
}
