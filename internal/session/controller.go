// Package session runs the interactive menu loop: it reads the user's
// choice, executes commands behind the confirmation gate, forwards questions
// to the explainer and keeps going until the user exits or interrupts.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/quocvuong92/ai-terminal/internal/api"
	"github.com/quocvuong92/ai-terminal/internal/config"
	"github.com/quocvuong92/ai-terminal/internal/display"
	"github.com/quocvuong92/ai-terminal/internal/executor"
	"github.com/quocvuong92/ai-terminal/internal/explainer"
	"github.com/quocvuong92/ai-terminal/internal/logging"
)

const aiDisabledMessage = "AI service not available. Please configure your Kimi API key."

// Explainer answers AI queries. Implementations never fail: problems come
// back as an Unavailable reply.
type Explainer interface {
	Ask(ctx context.Context, q explainer.Query) explainer.Reply
}

// Controller owns one interactive session
type Controller struct {
	cfg  config.Config
	exec executor.CommandExecutor
	ai   Explainer
	in   LineReader
	out  *display.Printer
	log  *logging.Logger

	sessionID   string
	aiAvailable bool
	state       State
	onState     func(State)
}

// Option configures a Controller
type Option func(*Controller)

// WithExecutor replaces the command executor
func WithExecutor(e executor.CommandExecutor) Option {
	return func(c *Controller) { c.exec = e }
}

// WithExplainer replaces the AI explainer
func WithExplainer(e Explainer) Option {
	return func(c *Controller) { c.ai = e }
}

// WithReader replaces the input reader
func WithReader(r LineReader) Option {
	return func(c *Controller) { c.in = r }
}

// WithPrinter replaces the output printer
func WithPrinter(p *display.Printer) Option {
	return func(c *Controller) { c.out = p }
}

// WithSessionID sets the id attached to logs and AI requests
func WithSessionID(id string) Option {
	return func(c *Controller) { c.sessionID = id }
}

// WithStateHook is called on every state change
func WithStateHook(fn func(State)) Option {
	return func(c *Controller) { c.onState = fn }
}

// New creates a controller. AI availability is decided once, from the API
// key; the explainer is only built and used when a key is present.
func New(cfg config.Config, opts ...Option) *Controller {
	c := &Controller{cfg: cfg, state: MainMenu}
	for _, opt := range opts {
		opt(c)
	}

	if c.sessionID == "" {
		c.sessionID = uuid.NewString()
	}
	if c.out == nil {
		c.out = display.NewPrinter(os.Stdout, cfg.EnableColors)
	}
	if c.in == nil {
		c.in = NewLineReader(os.Stdin, c.out.Writer())
	}
	if c.exec == nil {
		c.exec = executor.New(cfg.SafeMode, executor.WithTimeout(cfg.CommandTimeoutDuration()))
	}
	c.log = logging.Named("terminal").WithFields(logging.Fields{"session": c.sessionID})

	c.aiAvailable = cfg.AIEnabled()
	if c.aiAvailable && c.ai == nil {
		c.ai = explainer.New(api.NewCompletionClient(cfg, api.WithSessionID(c.sessionID)))
	}
	return c
}

// AIAvailable reports whether AI actions are enabled for this session
func (c *Controller) AIAvailable() bool {
	return c.aiAvailable
}

// State returns the current state
func (c *Controller) State() State {
	return c.state
}

// SessionID returns the id attached to this session's logs
func (c *Controller) SessionID() string {
	return c.sessionID
}

func (c *Controller) setState(s State) {
	c.state = s
	if c.onState != nil {
		c.onState(s)
	}
}

// Run loops over the main menu until the user exits or interrupts and
// returns the process exit status
func (c *Controller) Run(ctx context.Context) int {
	c.log.Debug("Received configuration", c.cfg.LogFields())
	c.log.Debug("Command gate", c.exec.GetPermissionChecker().GetSettings())
	c.out.Highlight("🚀 Starting AI Terminal Helper")
	if c.aiAvailable {
		c.out.Success("✅ AI assistant ready!")
	} else {
		c.out.ShowWarning("⚠️  AI features disabled. Add your Kimi API key to config for full functionality.")
	}
	if c.cfg.ShowWelcome {
		c.out.Blank()
		c.out.Banner("Welcome to your AI-enhanced terminal! I'm here to help you learn.")
		c.out.Blank()
	}

	for {
		c.setState(MainMenu)

		exit, err := c.step(ctx)
		if err != nil {
			if c.interrupted(ctx, err) {
				c.out.Success("\n👋 Goodbye!")
				c.setState(Exited)
				return 0
			}
			c.log.Warn("Error in terminal", logging.Fields{"error": err.Error()})
			continue
		}
		if exit {
			return 0
		}
	}
}

// step shows the menu, performs one action and waits on the pacing gate
func (c *Controller) step(ctx context.Context) (exit bool, err error) {
	c.out.Println("What would you like to do?")
	for i, a := range Menu {
		c.out.Println(fmt.Sprintf("  %d) %s", i+1, a.Label()))
	}

	input, err := c.in.ReadLine(ctx, "> ", menuChoices()...)
	if err != nil {
		return false, err
	}
	action, ok := ParseAction(input)
	if !ok {
		c.out.ShowWarning(fmt.Sprintf("Unknown option %q. Choose 1-%d or one of: %s", strings.TrimSpace(input), len(Menu), keywords()))
		return false, nil
	}

	c.log.Debug("Menu action", logging.Fields{"action": action.Keyword()})
	exit, err = c.perform(ctx, action)
	if err != nil || exit {
		return exit, err
	}

	_, err = c.in.ReadLine(ctx, "Press Enter to continue...")
	return false, err
}

// perform runs one action and turns a panic inside it into an error
func (c *Controller) perform(ctx context.Context, a Action) (exit bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s action panicked: %v", a.Keyword(), r)
		}
	}()
	return a.perform(ctx, c)
}

func (c *Controller) interrupted(ctx context.Context, err error) bool {
	return errors.Is(err, ErrInterrupted) || ctx.Err() != nil
}

// readRequired re-prompts until the line is non-blank
func (c *Controller) readRequired(ctx context.Context, prompt, emptyMessage string) (string, error) {
	for {
		line, err := c.in.ReadLine(ctx, prompt)
		if err != nil {
			return "", err
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed, nil
		}
		c.out.ShowError(emptyMessage)
	}
}

// confirm asks a yes/no question, an empty answer picks def
func (c *Controller) confirm(ctx context.Context, question string, def bool) (bool, error) {
	hint := "(y/N)"
	if def {
		hint = "(Y/n)"
	}
	yesNo := []Choice{{Text: "yes"}, {Text: "no"}}
	for {
		line, err := c.in.ReadLine(ctx, fmt.Sprintf("%s %s ", question, hint), yesNo...)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		c.out.ShowError("Please answer yes or no")
	}
}

// ask runs one query behind a spinner. The explainer is never reached
// while AI is unavailable.
func (c *Controller) ask(ctx context.Context, progress string, q explainer.Query) (explainer.Reply, error) {
	if !c.aiAvailable || c.ai == nil {
		return explainer.Reply{}, errors.New("AI query issued while AI is unavailable")
	}

	c.setState(QueryingAI)
	sp := c.out.NewSpinner(progress)
	sp.Start()
	reply := c.ai.Ask(ctx, q)
	sp.Stop()

	if ctx.Err() != nil {
		return explainer.Reply{}, ErrInterrupted
	}
	c.setState(ShowingResult)
	return reply, nil
}

func keywords() string {
	words := make([]string, len(Menu))
	for i, a := range Menu {
		words[i] = a.Keyword()
	}
	return strings.Join(words, ", ")
}
