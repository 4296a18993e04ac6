package session

import (
	"context"
	"strconv"
	"strings"

	"github.com/quocvuong92/ai-terminal/internal/executor"
	"github.com/quocvuong92/ai-terminal/internal/explainer"
	"github.com/quocvuong92/ai-terminal/internal/logging"
)

// Action is one main menu entry. The unexported methods keep the set closed
// to this package, and every entry has to carry its own handler.
type Action interface {
	Keyword() string
	Label() string
	perform(ctx context.Context, c *Controller) (exit bool, err error)
}

type (
	executeAction struct{}
	explainAction struct{}
	suggestAction struct{}
	learnAction   struct{}
	exitAction    struct{}
)

// Menu lists the actions in display order
var Menu = []Action{
	executeAction{},
	explainAction{},
	suggestAction{},
	learnAction{},
	exitAction{},
}

func (executeAction) Keyword() string { return "execute" }
func (executeAction) Label() string   { return "🖥️  Execute Terminal Command" }
func (explainAction) Keyword() string { return "explain" }
func (explainAction) Label() string   { return "🤖  Ask AI to Explain a Command" }
func (suggestAction) Keyword() string { return "suggest" }
func (suggestAction) Label() string   { return "💡  Ask AI to Suggest a Command" }
func (learnAction) Keyword() string   { return "learn" }
func (learnAction) Label() string     { return "📚  Learn Basic Commands" }
func (exitAction) Keyword() string    { return "exit" }
func (exitAction) Label() string      { return "🚪  Exit" }

// ParseAction maps menu input, a 1 based number or a keyword, to an action
func ParseAction(input string) (Action, bool) {
	input = strings.ToLower(strings.TrimSpace(input))
	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(Menu) {
			return Menu[n-1], true
		}
		return nil, false
	}
	for _, a := range Menu {
		if a.Keyword() == input {
			return a, true
		}
	}
	return nil, false
}

func menuChoices() []Choice {
	choices := make([]Choice, 0, len(Menu))
	for _, a := range Menu {
		choices = append(choices, Choice{Text: a.Keyword(), Description: a.Label()})
	}
	return choices
}

func (executeAction) perform(ctx context.Context, c *Controller) (bool, error) {
	c.setState(AwaitingCommandInput)
	command, err := c.readRequired(ctx, "Enter your command: ", "Please enter a command")
	if err != nil {
		return false, err
	}

	confirmed := false
	risk, needsConfirm, reason := c.exec.GetPermissionChecker().CheckPermission(command)
	if risk == executor.Dangerous {
		c.out.ShowError("⚠️  WARNING: This command might be dangerous!")
		c.log.Debug("Dangerous command", logging.Fields{"command": command, "reason": reason})
	}
	if needsConfirm {
		c.setState(AwaitingConfirmation)
		ok, err := c.confirm(ctx, "Are you sure you want to run this command?", false)
		if err != nil {
			return false, err
		}
		if !ok {
			c.exec.Decline(command)
			c.out.ShowWarning("Command cancelled for safety.")
			return false, nil
		}
		confirmed = true
	}

	c.setState(Executing)
	sp := c.out.NewSpinner("Executing...")
	sp.Start()
	result := c.exec.Execute(ctx, command, confirmed)
	sp.Stop()

	if ctx.Err() != nil {
		return false, ErrInterrupted
	}
	if result.Status != executor.Completed {
		c.out.ShowWarning("Command cancelled for safety.")
		return false, nil
	}

	c.setState(ShowingResult)
	if result.Stdout != "" {
		c.out.ShowCommandOutput(result.Stdout)
	}
	if result.Stderr != "" {
		c.out.ShowCommandStderr(result.Stderr)
	}
	if result.ExitErr != nil {
		c.out.ShowCommandError(result.ExitErr)
	}

	if !result.HasErrorOutput() || !c.aiAvailable {
		return false, nil
	}

	ok, err := c.confirm(ctx, "Would you like AI to explain this error?", true)
	if err != nil || !ok {
		return false, err
	}

	reply, err := c.ask(ctx, "🤖 Thinking...", explainer.DiagnoseError{
		Command:   command,
		ErrorText: result.ErrorText(),
	})
	if err != nil {
		return false, err
	}
	c.out.ShowContent("🤖 AI Explanation:", reply.Text)
	return false, nil
}

func (explainAction) perform(ctx context.Context, c *Controller) (bool, error) {
	if !c.aiAvailable {
		c.out.ShowError(aiDisabledMessage)
		return false, nil
	}

	c.setState(AwaitingAIQuery)
	command, err := c.readRequired(ctx, "Which command would you like me to explain? ", "Please enter a command")
	if err != nil {
		return false, err
	}

	reply, err := c.ask(ctx, "🤖 Thinking...", explainer.Explain{Command: command})
	if err != nil {
		return false, err
	}
	c.out.ShowContent("AI Explanation:", reply.Text)
	return false, nil
}

func (suggestAction) perform(ctx context.Context, c *Controller) (bool, error) {
	if !c.aiAvailable {
		c.out.ShowError(aiDisabledMessage)
		return false, nil
	}

	c.setState(AwaitingAIQuery)
	task, err := c.readRequired(ctx,
		`What do you want to do? (e.g., "find all .txt files", "check disk space") `,
		"Please describe what you want to do")
	if err != nil {
		return false, err
	}

	reply, err := c.ask(ctx, "🤖 Finding the best command for you...", explainer.Suggest{Task: task})
	if err != nil {
		return false, err
	}
	c.out.ShowContent("AI Suggestion:", reply.Text)
	return false, nil
}

func (learnAction) perform(_ context.Context, c *Controller) (bool, error) {
	c.setState(ShowingResult)
	c.out.Heading("📚 Essential Terminal Commands for Beginners:")
	c.out.ShowTable(BasicCommands, basicsWidth)
	c.out.ShowWarning("\n💡 Tip: You can ask AI to explain any of these commands in detail!\n")
	return false, nil
}

func (exitAction) perform(_ context.Context, c *Controller) (bool, error) {
	c.out.Success("👋 Happy coding! Come back anytime to learn more.")
	c.setState(Exited)
	return true, nil
}
