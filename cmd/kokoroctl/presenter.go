package main

import (
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/harunnryd/kokoroctl/pkg/workflow"
)

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	neutralColor = color.New(color.Faint)
)

// statusPresenter renders workflow status lines to a terminal.
type statusPresenter struct {
	mu sync.Mutex
	w  io.Writer
}

func newStatusPresenter(w io.Writer) *statusPresenter {
	return &statusPresenter{w: w}
}

// setWriter redirects later output, e.g. to the line editor's writer.
func (p *statusPresenter) setWriter(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.w = w
}

func (p *statusPresenter) SetTrigger(label string, enabled bool) {
	if enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	neutralColor.Fprintln(p.w, label)
}

func (p *statusPresenter) SetStatus(st workflow.Status) {
	p.mu.Lock()
	defer p.mu.Unlock()
	colorFor(st.Severity).Fprintln(p.w, st.Message)
}

func colorFor(s workflow.Severity) *color.Color {
	switch s {
	case workflow.SeveritySuccess:
		return successColor
	case workflow.SeverityError:
		return errorColor
	default:
		return neutralColor
	}
}
