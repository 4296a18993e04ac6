package session

import (
	"context"

	prompt "github.com/elk-language/go-prompt"
	istrings "github.com/elk-language/go-prompt/strings"
)

// PromptReader reads lines with go-prompt: line editing, history within the
// prompt and completion of the offered choices
type PromptReader struct{}

// NewPromptReader creates a terminal reader
func NewPromptReader() *PromptReader {
	return &PromptReader{}
}

// ReadLine implements LineReader. Ctrl+C, or Ctrl+D on an empty line,
// returns ErrInterrupted. go-prompt blocks on the terminal until a key
// arrives, so a context cancelled while the prompt is waiting is seen on
// the next keypress.
func (r *PromptReader) ReadLine(ctx context.Context, prefix string, choices ...Choice) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInterrupted
	}

	suggestions := make([]prompt.Suggest, 0, len(choices))
	for _, c := range choices {
		suggestions = append(suggestions, prompt.Suggest{Text: c.Text, Description: c.Description})
	}

	var (
		line        string
		done        bool
		interrupted bool
	)

	p := prompt.New(
		func(in string) {
			line = in
			done = true
		},
		prompt.WithCompleter(func(d prompt.Document) ([]prompt.Suggest, istrings.RuneNumber, istrings.RuneNumber) {
			endIndex := d.CurrentRuneIndex()
			w := d.GetWordBeforeCursor()
			startIndex := endIndex - istrings.RuneCountInString(w)
			if len(suggestions) == 0 || d.TextBeforeCursor() == "" {
				return []prompt.Suggest{}, startIndex, endIndex
			}
			return prompt.FilterHasPrefix(suggestions, w, true), startIndex, endIndex
		}),
		prompt.WithPrefix(prefix),
		prompt.WithPrefixTextColor(prompt.Green),
		prompt.WithSuggestionBGColor(prompt.DarkBlue),
		prompt.WithSuggestionTextColor(prompt.White),
		prompt.WithSelectedSuggestionBGColor(prompt.Cyan),
		prompt.WithSelectedSuggestionTextColor(prompt.Black),
		prompt.WithExitChecker(func(in string, breakline bool) bool {
			return done || interrupted
		}),
		prompt.WithKeyBind(prompt.KeyBind{
			Key: prompt.ControlC,
			Fn: func(p *prompt.Prompt) bool {
				interrupted = true
				return false
			},
		}),
	)

	p.Run()

	return promptOutcome(ctx, line, done, interrupted)
}

// promptOutcome turns the state left by a finished prompt into the
// ReadLine result. The prompt also stops without a submitted line when
// Ctrl+D closes an empty buffer, which counts as an interrupt.
func promptOutcome(ctx context.Context, line string, done, interrupted bool) (string, error) {
	if !done || interrupted || ctx.Err() != nil {
		return "", ErrInterrupted
	}
	return line, nil
}
