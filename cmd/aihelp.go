package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/quocvuong92/ai-terminal/internal/api"
	"github.com/quocvuong92/ai-terminal/internal/display"
	"github.com/quocvuong92/ai-terminal/internal/explainer"
	"github.com/quocvuong92/ai-terminal/internal/logging"
	"github.com/quocvuong92/ai-terminal/internal/session"
)

// helpKind is one entry of the one-shot helper menu
type helpKind struct {
	keyword  string
	label    string
	progress string
	title    string
}

var helpKinds = []helpKind{
	{keyword: "explain", label: "💭 Explain a command", progress: "🤖 Analyzing command...", title: "\n✨ AI Explanation:"},
	{keyword: "suggest", label: "🔍 Suggest a command for a task", progress: "🤖 Finding the perfect command...", title: "\n💡 AI Suggestion:"},
	{keyword: "error", label: "🆘 Help with an error", progress: "🤖 Analyzing error...", title: "\n🔧 AI Error Help:"},
}

// aiHelper asks a single question and returns, there is no loop
type aiHelper struct {
	in  session.LineReader
	out *display.Printer
	ai  session.Explainer
}

func (app *App) runAIHelp(ctx context.Context) {
	cfg := app.loadConfig()
	p := app.printer(cfg)

	p.Heading("🤖 AI Command Helper")
	if !cfg.AIEnabled() {
		p.ShowError("❌ No AI API key configured.")
		p.ShowWarning("Add your Kimi API key to your config file to use AI features.")
		p.Info(`Example: add "apiKey: your-key-here" to .toolrc or run tool --init-config`)
		return
	}

	client := app.client
	if client == nil {
		client = api.NewCompletionClient(cfg, api.WithSessionID(uuid.NewString()))
	}
	ai := explainer.New(client)
	defer ai.Close()

	h := &aiHelper{in: app.lineReader(), out: p, ai: ai}
	if err := h.run(ctx); err != nil && !errors.Is(err, session.ErrInterrupted) {
		logger.Warn("Error in AI helper", logging.Fields{"error": err.Error()})
	}
}

func (h *aiHelper) run(ctx context.Context) error {
	kind, err := h.choose(ctx)
	if err != nil {
		return err
	}

	var q explainer.Query
	switch kind.keyword {
	case "explain":
		command, err := h.readRequired(ctx, "Enter the command you want explained: ", "Please enter a command")
		if err != nil {
			return err
		}
		q = explainer.Explain{Command: command}
	case "suggest":
		task, err := h.readRequired(ctx, "Describe what you want to do: ", "Please describe your task")
		if err != nil {
			return err
		}
		q = explainer.Suggest{Task: task}
	case "error":
		command, err := h.readRequired(ctx, "What command did you run? ", "Please enter the command")
		if err != nil {
			return err
		}
		errText, err := h.readRequired(ctx, "What error message did you get? ", "Please enter the error message")
		if err != nil {
			return err
		}
		q = explainer.DiagnoseError{Command: command, ErrorText: errText}
	}

	sp := h.out.NewSpinner(kind.progress)
	sp.Start()
	reply := h.ai.Ask(ctx, q)
	sp.Stop()
	if ctx.Err() != nil {
		return session.ErrInterrupted
	}

	if reply.Unavailable {
		h.out.ShowError(reply.Text)
		return nil
	}
	h.out.Success(kind.title)
	h.out.ShowContentRendered(reply.Text)
	return nil
}

func (h *aiHelper) choose(ctx context.Context) (helpKind, error) {
	choices := make([]session.Choice, len(helpKinds))
	h.out.Println("What kind of help do you need?")
	for i, k := range helpKinds {
		h.out.Println(fmt.Sprintf("  %d) %s", i+1, k.label))
		choices[i] = session.Choice{Text: k.keyword, Description: k.label}
	}

	for {
		line, err := h.in.ReadLine(ctx, "> ", choices...)
		if err != nil {
			return helpKind{}, err
		}
		if k, ok := parseHelpKind(line); ok {
			return k, nil
		}
		h.out.ShowWarning(fmt.Sprintf("Unknown option %q. Choose 1-%d, explain, suggest or error", strings.TrimSpace(line), len(helpKinds)))
	}
}

func (h *aiHelper) readRequired(ctx context.Context, prompt, emptyMessage string) (string, error) {
	for {
		line, err := h.in.ReadLine(ctx, prompt)
		if err != nil {
			return "", err
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed, nil
		}
		h.out.ShowError(emptyMessage)
	}
}

func parseHelpKind(input string) (helpKind, bool) {
	input = strings.ToLower(strings.TrimSpace(input))
	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(helpKinds) {
			return helpKinds[n-1], true
		}
		return helpKind{}, false
	}
	for _, k := range helpKinds {
		if k.keyword == input {
			return k, true
		}
	}
	return helpKind{}, false
}
