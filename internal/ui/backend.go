package ui

import (
	"os"
	"strings"
)

const (
	BackendAuto      = "auto"
	BackendBubbleTea = "bubbletea"
	BackendHuh       = "huh"
	BackendTView     = "tview"
	BackendPlain     = "plain"
)

// EnvBackend selects the interactive backend, mostly for debugging and
// non-tty environments ("plain" skips every full-screen backend).
const EnvBackend = "SHY_UI"

func EffectiveBackend() string {
	return NormalizeBackend(os.Getenv(EnvBackend))
}

func NormalizeBackend(backend string) string {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendAuto, "":
		return BackendAuto
	case BackendBubbleTea:
		return BackendBubbleTea
	case BackendHuh:
		return BackendHuh
	case BackendTView:
		return BackendTView
	case BackendPlain:
		return BackendPlain
	default:
		return BackendAuto
	}
}

func backendCandidates(backend string) []string {
	switch NormalizeBackend(backend) {
	case BackendBubbleTea:
		return []string{BackendBubbleTea, BackendHuh, BackendTView}
	case BackendHuh:
		return []string{BackendHuh, BackendBubbleTea, BackendTView}
	case BackendTView:
		return []string{BackendTView, BackendHuh, BackendBubbleTea}
	case BackendPlain:
		return []string{BackendPlain}
	default:
		return []string{BackendHuh, BackendBubbleTea, BackendTView}
	}
}
