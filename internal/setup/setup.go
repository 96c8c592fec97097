package setup

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/shycli/shy/internal/config"
	"github.com/shycli/shy/internal/ui"
)

// Run walks the user through first-time configuration: an OpenRouter
// API key and a default model. The result is written to the config
// file. Aborting the form leaves any existing config untouched.
func Run(backend string, in io.Reader, out io.Writer) error {
	cfg := config.Default()
	if existing, err := config.Load(); err == nil {
		cfg = existing
	}

	done := false
	if ui.NormalizeBackend(backend) != ui.BackendPlain {
		aborted, err := runHuhForm(&cfg)
		if err == nil {
			if aborted {
				fmt.Fprintln(out, "Setup cancelled.")
				return nil
			}
			done = true
		}
	}
	if !done {
		if err := runPlainForm(&cfg, in, out); err != nil {
			return err
		}
	}

	if strings.TrimSpace(cfg.APIKey) == "" {
		return fmt.Errorf("an API key is required")
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("could not save configuration: %w", err)
	}
	fmt.Fprintf(out, "Configuration saved to %s\n", mustPath())
	return nil
}

func runHuhForm(cfg *config.Config) (aborted bool, err error) {
	modelOptions := make([]huh.Option[string], 0, len(config.AvailableModels))
	for _, model := range config.AvailableModels {
		modelOptions = append(modelOptions, huh.NewOption(model, model))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("OpenRouter API key").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.APIKey),
			huh.NewSelect[string]().
				Title("Default model").
				Options(modelOptions...).
				Value(&cfg.DefaultModel),
		),
	).WithTheme(huh.ThemeCharm())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

func runPlainForm(cfg *config.Config, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	fmt.Fprint(out, "OpenRouter API key: ")
	key, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("could not read API key: %w", err)
	}
	if key = strings.TrimSpace(key); key != "" {
		cfg.APIKey = key
	}

	fmt.Fprintln(out, "Available models:")
	for i, model := range config.AvailableModels {
		fmt.Fprintf(out, "  %d) %s\n", i+1, model)
	}
	fmt.Fprintf(out, "Default model [%s]: ", cfg.DefaultModel)
	line, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("could not read model choice: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	index := 0
	if _, err := fmt.Sscanf(line, "%d", &index); err == nil && index >= 1 && index <= len(config.AvailableModels) {
		cfg.DefaultModel = config.AvailableModels[index-1]
		return nil
	}
	cfg.DefaultModel = line
	return nil
}

func mustPath() string {
	path, err := config.Path()
	if err != nil {
		return "config.toml"
	}
	return path
}
