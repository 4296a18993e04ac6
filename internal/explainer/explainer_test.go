package explainer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/quocvuong92/ai-terminal/internal/api"
)

// MockAIClient is a mock implementation of api.AIClient for testing
type MockAIClient struct {
	Response string
	Err      error

	Calls      int
	LastSystem string
	LastUser   string
	Closed     bool
}

func (m *MockAIClient) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	m.Calls++
	m.LastSystem = systemPrompt
	m.LastUser = userMessage
	return m.Response, m.Err
}

func (m *MockAIClient) Close() {
	m.Closed = true
}

func TestExplainer_Ask_Success(t *testing.T) {
	tests := []struct {
		name       string
		query      Query
		wantSystem string
		wantInUser []string
	}{
		{
			name:       "explain",
			query:      Explain{Command: "ls -la"},
			wantSystem: explainSystem,
			wantInUser: []string{`"ls -la"`, "What this command does"},
		},
		{
			name:       "suggest",
			query:      Suggest{Task: "find all .txt files"},
			wantSystem: suggestSystem,
			wantInUser: []string{`"find all .txt files"`, "The exact command to type"},
		},
		{
			name:       "diagnose",
			query:      DiagnoseError{Command: "cat nope", ErrorText: "No such file"},
			wantSystem: diagnoseSystem,
			wantInUser: []string{`"cat nope"`, `"No such file"`, "How to fix it"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &MockAIClient{Response: "answer"}
			reply := New(client).Ask(context.Background(), tt.query)

			if reply.Unavailable {
				t.Error("Unavailable should be false on success")
			}
			if reply.Text != "answer" {
				t.Errorf("Text = %q, want %q", reply.Text, "answer")
			}
			if client.Calls != 1 {
				t.Errorf("Calls = %d, want 1", client.Calls)
			}
			if client.LastSystem != tt.wantSystem {
				t.Errorf("system prompt = %q, want %q", client.LastSystem, tt.wantSystem)
			}
			for _, want := range tt.wantInUser {
				if !strings.Contains(client.LastUser, want) {
					t.Errorf("user prompt should contain %q, got %q", want, client.LastUser)
				}
			}
		})
	}
}

func TestExplainer_Ask_KeepsRawErrorText(t *testing.T) {
	stderr := "error: failed to push some refs\n\thint: run \"git pull\" first\n"
	client := &MockAIClient{Response: "answer"}

	New(client).Ask(context.Background(), DiagnoseError{Command: `grep "a b" file`, ErrorText: stderr})

	for _, want := range []string{`"grep "a b" file"`, "refs\n\thint: run \"git pull\" first"} {
		if !strings.Contains(client.LastUser, want) {
			t.Errorf("user prompt should contain %q, got %q", want, client.LastUser)
		}
	}
	if strings.Contains(client.LastUser, `\n`) || strings.Contains(client.LastUser, `\"`) {
		t.Errorf("user prompt should not be escaped, got %q", client.LastUser)
	}
}

func TestExplainer_Ask_FailureBecomesApology(t *testing.T) {
	failures := []error{
		errors.New("dial tcp: connection refused"),
		&api.APIError{StatusCode: 500, Message: "completion API error: boom"},
		api.ErrEmptyResponse,
		context.DeadlineExceeded,
	}
	queries := []struct {
		query Query
		want  string
	}{
		{Explain{Command: "ls"}, "Sorry, I couldn't explain that command right now. Please try again later."},
		{Suggest{Task: "list files"}, "Sorry, I couldn't suggest a command right now. Please try again later."},
		{DiagnoseError{Command: "ls", ErrorText: "x"}, "Sorry, I couldn't explain that error right now. Please try again later."},
	}

	for _, failure := range failures {
		for _, q := range queries {
			t.Run(q.query.Kind()+"/"+failure.Error(), func(t *testing.T) {
				client := &MockAIClient{Err: failure}
				reply := New(client).Ask(context.Background(), q.query)

				if !reply.Unavailable {
					t.Error("Unavailable should be true on failure")
				}
				if reply.Text != q.want {
					t.Errorf("Text = %q, want %q", reply.Text, q.want)
				}
				if client.Calls != 1 {
					t.Errorf("Calls = %d, want exactly 1", client.Calls)
				}
			})
		}
	}
}

func TestExplainer_Close(t *testing.T) {
	client := &MockAIClient{}
	New(client).Close()

	if !client.Closed {
		t.Error("Close() should close the client")
	}
}
