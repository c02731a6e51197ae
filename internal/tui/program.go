package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Program runs the panel and lets other goroutines drive it.
type Program struct {
	program *tea.Program
	model   Model
}

// New creates a panel program bound to ctx.
func New(ctx context.Context, opts ...Option) *Program {
	m := NewModel(opts...)
	return &Program{
		model: m,
		program: tea.NewProgram(
			m,
			tea.WithContext(ctx),
			tea.WithAltScreen(),
		),
	}
}

// Run blocks until the panel exits and returns its final model.
func (p *Program) Run() (Model, error) {
	final, err := p.program.Run()
	if err != nil {
		return p.model, fmt.Errorf("failed to run TUI: %w", err)
	}
	if m, ok := final.(Model); ok {
		return m, nil
	}
	return p.model, nil
}

// Lookup submits name as if it were typed and entered.
func (p *Program) Lookup(name string) {
	p.program.Send(lookupRequestMsg{name: name})
}

// Quit asks the panel to exit.
func (p *Program) Quit() {
	p.program.Quit()
}

// Model returns the initial model for testing.
func (p *Program) Model() Model {
	return p.model
}
