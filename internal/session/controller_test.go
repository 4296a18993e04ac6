package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/quocvuong92/ai-terminal/internal/config"
	"github.com/quocvuong92/ai-terminal/internal/display"
	"github.com/quocvuong92/ai-terminal/internal/executor"
	"github.com/quocvuong92/ai-terminal/internal/explainer"
	"github.com/quocvuong92/ai-terminal/internal/logging"
)

// scriptedReader replays inputs and reports ErrInterrupted once they run out.
// An input that is an error value is returned as a read failure.
type scriptedReader struct {
	inputs  []interface{}
	prompts []string
}

func (r *scriptedReader) ReadLine(ctx context.Context, prompt string, _ ...Choice) (string, error) {
	r.prompts = append(r.prompts, prompt)
	if ctx.Err() != nil || len(r.inputs) == 0 {
		return "", ErrInterrupted
	}
	next := r.inputs[0]
	r.inputs = r.inputs[1:]
	if err, ok := next.(error); ok {
		return "", err
	}
	return next.(string), nil
}

func (r *scriptedReader) prompted(substr string) bool {
	for _, p := range r.prompts {
		if strings.Contains(p, substr) {
			return true
		}
	}
	return false
}

// fakeExplainer records queries and answers with a fixed reply
type fakeExplainer struct {
	reply   explainer.Reply
	queries []explainer.Query
}

func (f *fakeExplainer) Ask(ctx context.Context, q explainer.Query) explainer.Reply {
	f.queries = append(f.queries, q)
	return f.reply
}

// countingRunner counts spawned processes
type countingRunner struct {
	mu     sync.Mutex
	spawns int
	output executor.RunOutput
}

func (r *countingRunner) Run(ctx context.Context, command string) executor.RunOutput {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spawns++
	return r.output
}

type harness struct {
	ctrl   *Controller
	out    *bytes.Buffer
	logs   *bytes.Buffer
	reader *scriptedReader
	runner *countingRunner
	ai     *fakeExplainer
	states []State
}

func newHarness(t *testing.T, apiKey string, inputs ...interface{}) *harness {
	t.Helper()

	logs := &bytes.Buffer{}
	logging.SetOutput(logs)
	logging.SetColors(false)
	t.Cleanup(func() {
		logging.SetOutput(os.Stderr)
		logging.SetColors(true)
	})

	cfg := config.Default()
	cfg.APIKey = apiKey
	cfg.EnableColors = false

	h := &harness{
		out:    &bytes.Buffer{},
		logs:   logs,
		reader: &scriptedReader{inputs: inputs},
		runner: &countingRunner{},
		ai:     &fakeExplainer{reply: explainer.Reply{Text: "the answer"}},
	}
	h.ctrl = New(cfg,
		WithReader(h.reader),
		WithPrinter(display.NewPrinter(h.out, false)),
		WithExecutor(executor.New(cfg.SafeMode, executor.WithRunner(h.runner))),
		WithExplainer(h.ai),
		WithSessionID("test-session"),
		WithStateHook(func(s State) { h.states = append(h.states, s) }),
	)
	return h
}

func (h *harness) visited(s State) bool {
	for _, v := range h.states {
		if v == s {
			return true
		}
	}
	return false
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"1", "execute", true},
		{" 4 ", "learn", true},
		{"5", "exit", true},
		{"EXPLAIN", "explain", true},
		{"suggest", "suggest", true},
		{"0", "", false},
		{"6", "", false},
		{"dance", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			a, ok := ParseAction(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseAction(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && a.Keyword() != tt.want {
				t.Errorf("ParseAction(%q) = %q, want %q", tt.input, a.Keyword(), tt.want)
			}
		})
	}
}

func TestController_AIAvailability(t *testing.T) {
	if newHarness(t, "").ctrl.AIAvailable() {
		t.Error("AI should be unavailable without a key")
	}
	if !newHarness(t, "key").ctrl.AIAvailable() {
		t.Error("AI should be available with a key")
	}
}

func TestController_LearnBasics(t *testing.T) {
	h := newHarness(t, "", "4", "", "5")

	if code := h.ctrl.Run(context.Background()); code != 0 {
		t.Errorf("Run() = %d, want 0", code)
	}

	output := h.out.String()
	if !strings.Contains(output, "📚 Essential Terminal Commands for Beginners:") {
		t.Error("missing basics heading")
	}
	wantKeys := []string{"ls", "cd [folder]", "pwd", "mkdir [name]", "touch [file]",
		"cp [from] [to]", "mv [from] [to]", "rm [file]", "cat [file]", "clear"}
	if len(BasicCommands) != len(wantKeys) {
		t.Fatalf("len(BasicCommands) = %d, want %d", len(BasicCommands), len(wantKeys))
	}
	var table strings.Builder
	for i, row := range BasicCommands {
		if row.Key != wantKeys[i] {
			t.Errorf("BasicCommands[%d].Key = %q, want %q", i, row.Key, wantKeys[i])
		}
		table.WriteString(row.Key + strings.Repeat(" ", 20-len(row.Key)) + " " + row.Description + "\n")
	}
	if !strings.Contains(output, table.String()) {
		t.Errorf("basics table not printed as ten padded rows:\n%s", output)
	}
	if !strings.Contains(output, "ls                   List files and folders in current directory\n") {
		t.Error("ls row not padded to the command column")
	}
	if !strings.Contains(output, "💡 Tip: You can ask AI to explain any of these commands in detail!") {
		t.Error("missing tip line")
	}
	if !h.reader.prompted("Press Enter to continue...") {
		t.Error("learn should wait on the pacing gate")
	}
	if !strings.Contains(output, "👋 Happy coding! Come back anytime to learn more.") {
		t.Error("missing exit farewell")
	}
	if h.ctrl.State() != Exited {
		t.Errorf("State() = %v, want %v", h.ctrl.State(), Exited)
	}
}

func TestController_DangerousCommandDeclined(t *testing.T) {
	h := newHarness(t, "", "1", "rm -rf /tmp/test", "n", "", "5")

	h.ctrl.Run(context.Background())

	output := h.out.String()
	if !strings.Contains(output, "⚠️  WARNING: This command might be dangerous!") {
		t.Error("missing danger warning")
	}
	if !strings.Contains(output, "Command cancelled for safety.") {
		t.Error("missing cancellation message")
	}
	if h.runner.spawns != 0 {
		t.Errorf("spawns = %d, want 0", h.runner.spawns)
	}
	if !h.visited(AwaitingConfirmation) {
		t.Error("controller should pass through AwaitingConfirmation")
	}
	if h.visited(Executing) {
		t.Error("a declined command must not reach Executing")
	}
}

func TestController_DangerousCommandConfirmed(t *testing.T) {
	h := newHarness(t, "", "1", "rm -rf /tmp/test", "yes", "", "5")

	h.ctrl.Run(context.Background())

	if h.runner.spawns != 1 {
		t.Errorf("spawns = %d, want 1", h.runner.spawns)
	}
}

func TestController_ExecuteShowsOutput(t *testing.T) {
	h := newHarness(t, "", "1", "echo hello", "", "5")
	h.runner.output = executor.RunOutput{Stdout: "hello\n"}

	h.ctrl.Run(context.Background())

	if !strings.Contains(h.out.String(), "Output:\nhello\n") {
		t.Errorf("missing command output, got %q", h.out.String())
	}
	if h.runner.spawns != 1 {
		t.Errorf("spawns = %d, want 1", h.runner.spawns)
	}
	if h.reader.prompted("Are you sure") {
		t.Error("safe command should not ask for confirmation")
	}
}

func TestController_EmptyCommandReprompts(t *testing.T) {
	h := newHarness(t, "", "1", "   ", "ls", "", "5")

	h.ctrl.Run(context.Background())

	if !strings.Contains(h.out.String(), "Please enter a command") {
		t.Error("blank command should be rejected")
	}
	if h.runner.spawns != 1 {
		t.Errorf("spawns = %d, want 1", h.runner.spawns)
	}
}

func TestController_DiagnoseStderr(t *testing.T) {
	h := newHarness(t, "key", "1", "cat missing", "", "", "5")
	h.runner.output = executor.RunOutput{
		Stderr:   "cat: missing: No such file or directory\n",
		ExitCode: 1,
		Err:      &executor.CommandError{Command: "cat missing", ExitCode: 1},
	}

	h.ctrl.Run(context.Background())

	if len(h.ai.queries) != 1 {
		t.Fatalf("queries = %d, want 1", len(h.ai.queries))
	}
	q, ok := h.ai.queries[0].(explainer.DiagnoseError)
	if !ok {
		t.Fatalf("query = %T, want DiagnoseError", h.ai.queries[0])
	}
	if q.Command != "cat missing" || !strings.Contains(q.ErrorText, "No such file") {
		t.Errorf("query = %+v", q)
	}
	output := h.out.String()
	if !strings.Contains(output, "Warnings/Errors:") || !strings.Contains(output, "🤖 AI Explanation:\nthe answer") {
		t.Errorf("unexpected output %q", output)
	}
}

func TestController_DiagnoseDeclined(t *testing.T) {
	h := newHarness(t, "key", "1", "false", "n", "", "5")
	h.runner.output = executor.RunOutput{ExitCode: 1, Err: errors.New("exit status 1")}

	h.ctrl.Run(context.Background())

	if len(h.ai.queries) != 0 {
		t.Errorf("queries = %d, want 0", len(h.ai.queries))
	}
	if !strings.Contains(h.out.String(), "Error executing command:\nexit status 1") {
		t.Error("exit error should be shown")
	}
}

func TestController_NoDiagnoseOfferWithoutAI(t *testing.T) {
	h := newHarness(t, "", "1", "cat missing", "", "5")
	h.runner.output = executor.RunOutput{Stderr: "boom\n"}

	h.ctrl.Run(context.Background())

	if h.reader.prompted("Would you like AI to explain this error?") {
		t.Error("diagnosis must not be offered while AI is unavailable")
	}
}

func TestController_AIDisabled(t *testing.T) {
	for _, choice := range []string{"2", "3"} {
		t.Run(choice, func(t *testing.T) {
			h := newHarness(t, "", choice, "", "5")

			if code := h.ctrl.Run(context.Background()); code != 0 {
				t.Errorf("Run() = %d, want 0", code)
			}

			if !strings.Contains(h.out.String(), "AI service not available. Please configure your Kimi API key.") {
				t.Error("missing disabled message")
			}
			if len(h.ai.queries) != 0 {
				t.Errorf("queries = %d, want 0", len(h.ai.queries))
			}
			if h.reader.prompted("Which command") || h.reader.prompted("What do you want to do?") {
				t.Error("disabled AI actions must not prompt")
			}
			if h.visited(AwaitingAIQuery) {
				t.Error("disabled AI actions must not reach AwaitingAIQuery")
			}
		})
	}
}

func TestController_ExplainAndSuggest(t *testing.T) {
	tests := []struct {
		name  string
		input []interface{}
		title string
		query explainer.Query
	}{
		{"explain", []interface{}{"2", "ls -la", "", "5"}, "AI Explanation:", explainer.Explain{Command: "ls -la"}},
		{"suggest", []interface{}{"suggest", "check disk space", "", "5"}, "AI Suggestion:", explainer.Suggest{Task: "check disk space"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "key", tt.input...)

			h.ctrl.Run(context.Background())

			if len(h.ai.queries) != 1 || h.ai.queries[0] != tt.query {
				t.Errorf("queries = %+v, want [%+v]", h.ai.queries, tt.query)
			}
			if !strings.Contains(h.out.String(), tt.title+"\nthe answer") {
				t.Errorf("missing reply, got %q", h.out.String())
			}
			if !h.visited(QueryingAI) {
				t.Error("controller should pass through QueryingAI")
			}
		})
	}
}

func TestController_UnavailableReplyIsShown(t *testing.T) {
	h := newHarness(t, "key", "2", "ls", "", "5")
	h.ai.reply = explainer.Reply{Text: explainer.ExplainApology, Unavailable: true}

	h.ctrl.Run(context.Background())

	if !strings.Contains(h.out.String(), explainer.ExplainApology) {
		t.Error("apology should be rendered")
	}
}

func TestController_InterruptWhileAwaitingCommand(t *testing.T) {
	h := newHarness(t, "", "1")

	if code := h.ctrl.Run(context.Background()); code != 0 {
		t.Errorf("Run() = %d, want 0", code)
	}

	if !strings.Contains(h.out.String(), "👋 Goodbye!") {
		t.Error("missing interrupt farewell")
	}
	if strings.Contains(h.logs.String(), "WARN") {
		t.Errorf("interrupt must not log a warning, got %q", h.logs.String())
	}
	if h.ctrl.State() != Exited {
		t.Errorf("State() = %v, want %v", h.ctrl.State(), Exited)
	}
}

func TestController_CancelledContext(t *testing.T) {
	h := newHarness(t, "", "4", "", "5")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if code := h.ctrl.Run(ctx); code != 0 {
		t.Errorf("Run() = %d, want 0", code)
	}
	if !strings.Contains(h.out.String(), "👋 Goodbye!") {
		t.Error("cancelled context should end the session gracefully")
	}
}

func TestController_InputErrorReturnsToMenu(t *testing.T) {
	h := newHarness(t, "", errors.New("terminal glitch"), "5")

	if code := h.ctrl.Run(context.Background()); code != 0 {
		t.Errorf("Run() = %d, want 0", code)
	}

	if !strings.Contains(h.logs.String(), "Error in terminal") {
		t.Errorf("input error should be logged as a warning, got %q", h.logs.String())
	}
	if !strings.Contains(h.out.String(), "👋 Happy coding!") {
		t.Error("session should continue to the exit action")
	}
}

func TestController_UnknownMenuInput(t *testing.T) {
	h := newHarness(t, "", "dance", "5")

	h.ctrl.Run(context.Background())

	if !strings.Contains(h.out.String(), `Unknown option "dance"`) {
		t.Error("missing unknown option hint")
	}
	if h.reader.prompted("Press Enter to continue...") {
		t.Error("unknown input should not wait on the pacing gate")
	}
}

func TestController_WelcomeBanner(t *testing.T) {
	h := newHarness(t, "", "5")
	h.ctrl.Run(context.Background())

	output := h.out.String()
	if !strings.Contains(output, "Welcome to your AI-enhanced terminal!") {
		t.Error("missing welcome banner")
	}
	if !strings.Contains(output, "⚠️  AI features disabled.") {
		t.Error("missing AI disabled notice")
	}

	h = newHarness(t, "key", "5")
	h.ctrl.cfg.ShowWelcome = false
	h.ctrl.Run(context.Background())
	if strings.Contains(h.out.String(), "Welcome to your AI-enhanced terminal!") {
		t.Error("welcome banner should be hidden when ShowWelcome is false")
	}
	if !strings.Contains(h.out.String(), "✅ AI assistant ready!") {
		t.Error("missing AI ready notice")
	}
}

func TestPlainReader(t *testing.T) {
	var out bytes.Buffer
	r := NewPlainReader(strings.NewReader("first\r\nsecond"), &out)
	ctx := context.Background()

	line, err := r.ReadLine(ctx, "> ")
	if err != nil || line != "first" {
		t.Fatalf("ReadLine() = %q, %v, want first", line, err)
	}
	line, err = r.ReadLine(ctx, "> ")
	if err != nil || line != "second" {
		t.Fatalf("ReadLine() = %q, %v, want second", line, err)
	}
	if _, err := r.ReadLine(ctx, "> "); !errors.Is(err, ErrInterrupted) {
		t.Errorf("ReadLine() at EOF error = %v, want ErrInterrupted", err)
	}
	if out.String() != "> > > " {
		t.Errorf("prompts = %q", out.String())
	}
}

func TestPlainReader_ContextCancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	r := NewPlainReader(pr, &bytes.Buffer{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.ReadLine(ctx, "> "); !errors.Is(err, ErrInterrupted) {
		t.Errorf("ReadLine() error = %v, want ErrInterrupted", err)
	}
}

func TestController_CommandTimeoutFromConfig(t *testing.T) {
	logging.SetOutput(&bytes.Buffer{})
	t.Cleanup(func() { logging.SetOutput(os.Stderr) })

	cfg := config.Default()
	cfg.EnableColors = false
	cfg.CommandTimeout = 1
	out := &bytes.Buffer{}
	reader := &scriptedReader{inputs: []interface{}{"1", "sleep 10"}}
	ctrl := New(cfg, WithReader(reader), WithPrinter(display.NewPrinter(out, false)))

	start := time.Now()
	ctrl.Run(context.Background())

	if elapsed := time.Since(start); elapsed > 6*time.Second {
		t.Errorf("command ran for %v, want it stopped by the 1s timeout", elapsed)
	}
	if !strings.Contains(out.String(), "Error executing command:") {
		t.Errorf("timed out command should be reported, got:\n%s", out.String())
	}
}
