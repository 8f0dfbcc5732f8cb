// Package lsp manages one LSP server child process per filetype engine -
// component §4.G: spawning, the initialize handshake, buffer
// synchronisation and completion requests.
package lsp

import "sync"

// State is the client's lifecycle state machine:
// Unstarted -> Initialising -> Ready | Failed; Ready -> Draining -> Stopped.
type State int

const (
	Unstarted State = iota
	Initialising
	Ready
	Failed
	Draining
	Stopped
)

func (s State) String() string {
	switch s {
	case Unstarted:
		return "Unstarted"
	case Initialising:
		return "Initialising"
	case Ready:
		return "Ready"
	case Failed:
		return "Failed"
	case Draining:
		return "Draining"
	case Stopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// stateBox is a small mutex-guarded state cell with waiters for "reached
// Ready or Failed", since many callers (completion requests arriving while
// the server is still initialising) need to block on that transition.
type stateBox struct {
	mu      sync.Mutex
	state   State
	waiters []chan struct{}
}

func newStateBox() *stateBox {
	return &stateBox{state: Unstarted}
}

func (b *stateBox) Get() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *stateBox) Set(s State) {
	b.mu.Lock()
	b.state = s
	var toNotify []chan struct{}
	if s == Ready || s == Failed || s == Stopped {
		toNotify = b.waiters
		b.waiters = nil
	}
	b.mu.Unlock()
	for _, ch := range toNotify {
		close(ch)
	}
}

// WaitReady blocks until the state reaches Ready, Failed or Stopped,
// returning the state reached.
func (b *stateBox) WaitReady() State {
	b.mu.Lock()
	if b.state == Ready || b.state == Failed || b.state == Stopped {
		s := b.state
		b.mu.Unlock()
		return s
	}
	ch := make(chan struct{})
	b.waiters = append(b.waiters, ch)
	b.mu.Unlock()

	<-ch
	return b.Get()
}
