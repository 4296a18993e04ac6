// Package display renders everything the CLI prints to the user: coloured
// status lines, command output, AI answers, banners and spinners.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// Printer writes styled output to a writer. With colours off every line is
// plain text, which is what tests and pipes get.
type Printer struct {
	out    io.Writer
	colors bool
	tty    bool

	renderer *glamour.TermRenderer
}

// NewPrinter creates a printer over w
func NewPrinter(w io.Writer, colors bool) *Printer {
	if w == nil {
		w = os.Stdout
	}
	p := &Printer{out: w, colors: colors}
	if f, ok := w.(*os.File); ok {
		p.tty = term.IsTerminal(int(f.Fd()))
	}
	return p
}

// Writer returns the underlying writer
func (p *Printer) Writer() io.Writer {
	return p.out
}

func (p *Printer) paint(s string, attrs ...color.Attribute) string {
	if !p.colors {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

// Println writes an unstyled line
func (p *Printer) Println(s string) {
	fmt.Fprintln(p.out, s)
}

// Blank writes an empty line
func (p *Printer) Blank() {
	fmt.Fprintln(p.out)
}

// Info writes a blue line
func (p *Printer) Info(s string) {
	fmt.Fprintln(p.out, p.paint(s, color.FgBlue))
}

// Success writes a green line
func (p *Printer) Success(s string) {
	fmt.Fprintln(p.out, p.paint(s, color.FgGreen))
}

// Accent writes a cyan line
func (p *Printer) Accent(s string) {
	fmt.Fprintln(p.out, p.paint(s, color.FgCyan))
}

// Highlight writes a line on a bright cyan background
func (p *Printer) Highlight(s string) {
	fmt.Fprintln(p.out, p.paint(s, color.BgHiCyan, color.FgBlack))
}

// ShowWarning writes a yellow line
func (p *Printer) ShowWarning(s string) {
	fmt.Fprintln(p.out, p.paint(s, color.FgYellow))
}

// ShowError writes a red line
func (p *Printer) ShowError(s string) {
	fmt.Fprintln(p.out, p.paint(s, color.FgRed))
}

// Heading writes a bold green line surrounded by blank lines
func (p *Printer) Heading(s string) {
	fmt.Fprintf(p.out, "\n%s\n\n", p.paint(s, color.FgGreen, color.Bold))
}

// ShowCommandOutput prints captured stdout
func (p *Printer) ShowCommandOutput(stdout string) {
	p.Success("Output:")
	p.Println(strings.TrimRight(stdout, "\n"))
}

// ShowCommandStderr prints captured stderr
func (p *Printer) ShowCommandStderr(stderr string) {
	p.ShowWarning("Warnings/Errors:")
	p.Println(strings.TrimRight(stderr, "\n"))
}

// ShowCommandError prints a failed run
func (p *Printer) ShowCommandError(err error) {
	p.ShowError("Error executing command:")
	p.Println(err.Error())
}

// ShowContent prints an AI answer under a cyan title
func (p *Printer) ShowContent(title, content string) {
	p.Accent(title)
	p.ShowContentRendered(content)
}

// ShowContentRendered prints markdown, rendered with glamour when the
// printer is styled and plain otherwise
func (p *Printer) ShowContentRendered(content string) {
	if p.colors {
		if r := p.markdownRenderer(); r != nil {
			if out, err := r.Render(content); err == nil {
				fmt.Fprint(p.out, out)
				return
			}
		}
	}
	p.Println(content)
}

func (p *Printer) markdownRenderer() *glamour.TermRenderer {
	if p.renderer != nil {
		return p.renderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return nil
	}
	p.renderer = r
	return r
}

// Banner prints text in a rounded box
func (p *Printer) Banner(text string) {
	if !p.colors {
		p.Println(text)
		return
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("12")).
		Foreground(lipgloss.Color("12")).
		Padding(0, 1)
	p.Println(style.Render(text))
}

// Row is one line of a two column table
type Row struct {
	Key         string
	Description string
}

// ShowTable prints rows with the key column padded to width
func (p *Printer) ShowTable(rows []Row, width int) {
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	for _, r := range rows {
		key := fmt.Sprintf("%-*s", width, r.Key)
		if p.colors {
			key = keyStyle.Render(key)
		}
		fmt.Fprintf(p.out, "%s %s\n", key, r.Description)
	}
}
