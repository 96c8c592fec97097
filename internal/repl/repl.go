package repl

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"

	"github.com/shycli/shy/internal/appdirs"
	"github.com/shycli/shy/internal/chat"
	"github.com/shycli/shy/internal/config"
	"github.com/shycli/shy/internal/history"
	"github.com/shycli/shy/internal/session"
	"github.com/shycli/shy/internal/ui"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var elapsedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

// Repl is the interactive loop: plain lines go to the AI, slash
// commands are handled locally.
type Repl struct {
	client *chat.Client
	cfg    config.Config
	sess   *session.Session
	out    io.Writer
}

func New(cfg config.Config) *Repl {
	return &Repl{
		client: chat.NewClient(cfg),
		cfg:    cfg,
		sess:   session.New(),
		out:    os.Stdout,
	}
}

func (r *Repl) Run(ctx context.Context) error {
	rlConfig := &readline.Config{
		Prompt:            "shy> ",
		InterruptPrompt:   "^C",
		EOFPrompt:         "/exit",
		HistorySearchFold: true,
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("/help"),
			readline.PcItem("/exit"),
			readline.PcItem("/model"),
			readline.PcItem("/config"),
			readline.PcItem("/history"),
		),
	}
	if path, err := appdirs.ReplHistoryPath(); err == nil {
		rlConfig.HistoryFile = path
	}

	rl, err := readline.NewEx(rlConfig)
	if err != nil {
		return fmt.Errorf("could not initialize the prompt: %w", err)
	}
	defer rl.Close()

	fmt.Fprintf(r.out, "shy %s - %s\n", r.client.Model(), history.ShellName())
	fmt.Fprintln(r.out, "Type /help for commands, /exit to quit.")
	fmt.Fprintln(r.out)

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			fmt.Fprintln(r.out, "Goodbye!")
			return nil
		}
		if err != nil {
			return fmt.Errorf("could not read input: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if done := r.handleCommand(input); done {
				return nil
			}
			continue
		}

		if err := r.handleChat(ctx, input); err != nil {
			fmt.Fprintf(os.Stderr, "shy: %v\n", err)
		}
	}
}

// handleCommand dispatches a slash command. It returns true when the
// loop should exit.
func (r *Repl) handleCommand(input string) bool {
	cmd := strings.Fields(input)[0]
	switch cmd {
	case "/help":
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, "Available commands:")
		fmt.Fprintln(r.out, "  /help     - Show this help message")
		fmt.Fprintln(r.out, "  /exit     - Exit the assistant")
		fmt.Fprintln(r.out, "  /model    - Change AI model")
		fmt.Fprintln(r.out, "  /config   - Show current configuration")
		fmt.Fprintln(r.out, "  /history  - Browse shell history")
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, "Or just type your message to chat with the AI.")
		fmt.Fprintln(r.out)
	case "/exit":
		fmt.Fprintln(r.out, "Goodbye!")
		return true
	case "/model":
		if err := r.changeModel(); err != nil {
			fmt.Fprintf(os.Stderr, "shy: could not change model: %v\n", err)
		}
	case "/config":
		path, _ := config.Path()
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, "Current configuration:")
		fmt.Fprintf(r.out, "  Model: %s\n", r.client.Model())
		fmt.Fprintf(r.out, "  History source: %s\n", r.sess.PinnedSource())
		fmt.Fprintf(r.out, "  Config file: %s\n", path)
		fmt.Fprintln(r.out)
	case "/history":
		if err := r.sess.RunHistoryBrowser(); err != nil {
			fmt.Fprintf(os.Stderr, "shy: %v\n", err)
		}
	default:
		fmt.Fprintf(r.out, "Unknown command: %s. Type /help for available commands.\n", cmd)
	}
	return false
}

func (r *Repl) handleChat(ctx context.Context, message string) error {
	// The interrupt scope lives and dies with this one request, so a
	// Ctrl+C aborts the in-flight call without poisoning later turns.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	prompt := r.sess.BuildContext(message)

	frame := 0
	response, err := r.client.StreamWithProgress(ctx, prompt, 80*time.Millisecond, func(elapsed time.Duration) {
		fmt.Fprintf(r.out, "\r %s %s",
			commandStyle.Render(spinnerFrames[frame]),
			elapsedStyle.Render(fmt.Sprintf("(%.1fs)", elapsed.Seconds())))
		frame = (frame + 1) % len(spinnerFrames)
	})
	fmt.Fprintf(r.out, "\r%s\r", strings.Repeat(" ", 50))
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(r.out, "Cancelled.")
			return nil
		}
		return err
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, Highlight(response))
	fmt.Fprintln(r.out)

	if suggestions := r.sess.HandleResponse(response); len(suggestions) > 0 {
		return r.sess.RunSuggestionMenu()
	}
	return nil
}

func (r *Repl) changeModel() error {
	options := make([]ui.Option, 0, len(config.AvailableModels))
	for _, model := range config.AvailableModels {
		label := model
		if model == r.client.Model() {
			label += " (current)"
		}
		options = append(options, ui.Option{Label: label, Value: model})
	}

	chosen, used, err := ui.Select(ui.EffectiveBackend(), "Choose new default model", options)
	if err != nil {
		return err
	}
	if !used {
		chosen, err = r.chooseModelPlain(options)
		if err != nil {
			return err
		}
	}
	if chosen == "" || chosen == r.client.Model() {
		return nil
	}

	r.cfg.DefaultModel = chosen
	if err := config.Save(r.cfg); err != nil {
		return err
	}
	r.client.SetModel(chosen)
	fmt.Fprintf(r.out, "Default model set to %s\n", chosen)
	return nil
}

func (r *Repl) chooseModelPlain(options []ui.Option) (string, error) {
	fmt.Fprintln(r.out, "Choose new default model:")
	for i, option := range options {
		fmt.Fprintf(r.out, "  %d) %s\n", i+1, option.Label)
	}
	fmt.Fprint(r.out, "choice: ")
	var index int
	if _, err := fmt.Fscanln(os.Stdin, &index); err != nil {
		return "", nil
	}
	if index < 1 || index > len(options) {
		return "", nil
	}
	return options[index-1].Value, nil
}
