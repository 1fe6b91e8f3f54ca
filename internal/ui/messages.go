package ui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/PalmScan/internal/controller"
)

// stateChangedMsg tells the model to re-read the controller state
type stateChangedMsg struct {
	panel controller.Panel
}

// dispatchMsg carries the outcome of a dispatched action
type dispatchMsg struct {
	action controller.Action
	resp   controller.Response
	err    error
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Binding forwards controller snapshots into a running program.
// Snapshots observed before the program starts are dropped.
type Binding struct {
	program atomic.Pointer[tea.Program]
}

// NewBinding creates an unattached binding
func NewBinding() *Binding {
	return &Binding{}
}

// Observe is a controller.Observer
func (b *Binding) Observe(state controller.State) {
	if p := b.program.Load(); p != nil {
		p.Send(stateChangedMsg{panel: state.Panel})
	}
}

func (b *Binding) attach(p *tea.Program) {
	b.program.Store(p)
}
