package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// ErrInterrupted is returned by a LineReader when the user pressed Ctrl+C,
// closed the input or the session context was cancelled
var ErrInterrupted = errors.New("input interrupted")

// Choice is a completion offered while reading a line
type Choice struct {
	Text        string
	Description string
}

// LineReader reads one line of user input after showing prompt
type LineReader interface {
	ReadLine(ctx context.Context, prompt string, choices ...Choice) (string, error)
}

// NewLineReader picks the interactive reader for a terminal and the plain
// reader for anything else
func NewLineReader(in *os.File, out io.Writer) LineReader {
	if term.IsTerminal(int(in.Fd())) {
		return NewPromptReader()
	}
	return NewPlainReader(in, out)
}

type readResult struct {
	line string
	err  error
}

// PlainReader reads newline terminated lines from any io.Reader. The
// blocking read runs in its own goroutine so a cancelled context can abandon
// it.
type PlainReader struct {
	in    *bufio.Reader
	out   io.Writer
	lines chan readResult
	once  sync.Once
}

// NewPlainReader creates a reader over in that echoes prompts to out
func NewPlainReader(in io.Reader, out io.Writer) *PlainReader {
	return &PlainReader{
		in:    bufio.NewReader(in),
		out:   out,
		lines: make(chan readResult),
	}
}

func (r *PlainReader) loop() {
	defer close(r.lines)
	for {
		line, err := r.in.ReadString('\n')
		if line != "" || err == nil {
			r.lines <- readResult{line: strings.TrimRight(line, "\r\n")}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				r.lines <- readResult{err: err}
			}
			return
		}
	}
}

// ReadLine implements LineReader. End of input maps to ErrInterrupted.
func (r *PlainReader) ReadLine(ctx context.Context, prompt string, _ ...Choice) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInterrupted
	}
	fmt.Fprint(r.out, prompt)
	r.once.Do(func() { go r.loop() })

	select {
	case <-ctx.Done():
		return "", ErrInterrupted
	case res, ok := <-r.lines:
		if !ok {
			return "", ErrInterrupted
		}
		if res.err != nil {
			return "", fmt.Errorf("failed to read input: %w", res.err)
		}
		return res.line, nil
	}
}
