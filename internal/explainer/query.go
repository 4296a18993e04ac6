package explainer

import "fmt"

// Query is one request to the AI service. The set of variants is closed:
// Explain, Suggest and DiagnoseError.
type Query interface {
	// Kind names the variant for logs
	Kind() string
	prompts() (system, user string)
	apology() string
}

// Explain asks what a command does
type Explain struct {
	Command string
}

// Suggest asks for a command that performs a task
type Suggest struct {
	Task string
}

// DiagnoseError asks why a command failed
type DiagnoseError struct {
	Command   string
	ErrorText string
}

const (
	explainSystem  = "You are a friendly terminal instructor helping beginners learn command line. Always explain things simply and encourage learning."
	suggestSystem  = "You are a helpful terminal assistant. Suggest safe, appropriate commands for beginners and always explain what they do."
	diagnoseSystem = "You are a patient terminal instructor helping beginners understand and fix errors. Always be encouraging."
)

const explainTemplate = `Explain this terminal command in simple terms for a beginner: "%s"

Please provide:
1. What this command does
2. Break down each part if it has options/flags
3. When you might use it
4. Any safety warnings if needed

Keep the explanation friendly and beginner-friendly.`

const suggestTemplate = `A beginner wants to: "%s"

Please suggest the best terminal command(s) and explain:
1. The exact command to type
2. What it will do
3. Step by step if needed
4. Any prerequisites or safety notes

Be encouraging and helpful!`

const diagnoseTemplate = `A beginner ran this command: "%s"

And got this error: "%s"

Please explain:
1. What went wrong in simple terms
2. How to fix it
3. What to try next

Be supportive and educational!`

// Apologies returned in place of an answer when the service fails
const (
	ExplainApology  = "Sorry, I couldn't explain that command right now. Please try again later."
	SuggestApology  = "Sorry, I couldn't suggest a command right now. Please try again later."
	DiagnoseApology = "Sorry, I couldn't explain that error right now. Please try again later."
)

func (Explain) Kind() string { return "explain" }

func (q Explain) prompts() (string, string) {
	return explainSystem, fmt.Sprintf(explainTemplate, q.Command)
}

func (Explain) apology() string { return ExplainApology }

func (Suggest) Kind() string { return "suggest" }

func (q Suggest) prompts() (string, string) {
	return suggestSystem, fmt.Sprintf(suggestTemplate, q.Task)
}

func (Suggest) apology() string { return SuggestApology }

func (DiagnoseError) Kind() string { return "diagnose" }

func (q DiagnoseError) prompts() (string, string) {
	return diagnoseSystem, fmt.Sprintf(diagnoseTemplate, q.Command, q.ErrorText)
}

func (DiagnoseError) apology() string { return DiagnoseApology }
