package display

import (
	"github.com/briandowns/spinner"

	"github.com/quocvuong92/ai-terminal/internal/constants"
)

// Spinner shows progress while a command runs or a query is in flight. On
// anything but a styled terminal it prints its message once instead.
type Spinner struct {
	p       *Printer
	message string
	s       *spinner.Spinner
}

// NewSpinner creates a stopped spinner
func (p *Printer) NewSpinner(message string) *Spinner {
	sp := &Spinner{p: p, message: message}
	if p.colors && p.tty {
		sp.s = spinner.New(spinner.CharSets[14], constants.SpinnerInterval, spinner.WithWriter(p.out))
		sp.s.Suffix = " " + message
	}
	return sp
}

// Start begins the animation
func (sp *Spinner) Start() {
	if sp.s == nil {
		sp.p.Accent(sp.message)
		return
	}
	sp.s.Start()
}

// Stop ends the animation and clears its line
func (sp *Spinner) Stop() {
	if sp.s != nil {
		sp.s.Stop()
	}
}
