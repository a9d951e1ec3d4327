// Package closing negotiates window closure between the host and the UI so
// unsaved edits can block it.
package closing

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sourcepad/sourcepad-cli/pkg/host"
)

var (
	// ErrCloseInProgress is returned when a close is requested while another
	// one is still awaiting its decision.
	ErrCloseInProgress = errors.New("close already in progress")
	// ErrTerminated is returned once the window has been terminated.
	ErrTerminated = errors.New("window terminated")
)

// State of the handshake
type State int

const (
	// Idle means no close request is pending
	Idle State = iota
	// AwaitingDecision means the UI has been asked whether to close
	AwaitingDecision
	// Closing means the close was approved and the window is terminating
	Closing
	// Terminated means the window is gone; further requests fail
	Terminated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingDecision:
		return "awaiting-decision"
	case Closing:
		return "closing"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Decision is the UI's answer to a close request
type Decision int

const (
	// Proceed lets the close go ahead
	Proceed Decision = iota
	// Cancel keeps the window open and returns to Idle
	Cancel
)

func (d Decision) String() string {
	if d == Proceed {
		return "proceed"
	}
	return "cancel"
}

// Document reports whether there is work that would be lost
type Document interface {
	Modified() bool
}

// Flusher persists pending state before termination
type Flusher interface {
	Flush() error
}

const promptDiscardOnClose = "You have unsaved changes. Close anyway?"

// Negotiator runs the close handshake for one window
type Negotiator struct {
	mu    sync.Mutex
	state State
	done  chan struct{}

	doc          Document
	window       host.Window
	confirmer    host.Confirmer
	flushers     []Flusher
	keepResident bool
	logger       zerolog.Logger
}

// Option configures a Negotiator
type Option func(*Negotiator)

// WithConfirmer sets who is asked when the document has unsaved edits
func WithConfirmer(c host.Confirmer) Option {
	return func(n *Negotiator) { n.confirmer = c }
}

// WithFlusher adds state to flush before termination
func WithFlusher(f Flusher) Option {
	return func(n *Negotiator) { n.flushers = append(n.flushers, f) }
}

// WithKeepResident makes an approved close hide the window instead of
// terminating it. Explicit quits still terminate.
func WithKeepResident(keep bool) Option {
	return func(n *Negotiator) { n.keepResident = keep }
}

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(n *Negotiator) { n.logger = l }
}

// New creates a negotiator in the Idle state
func New(doc Document, window host.Window, opts ...Option) *Negotiator {
	n := &Negotiator{
		state:     Idle,
		done:      make(chan struct{}),
		doc:       doc,
		window:    window,
		confirmer: host.AlwaysConfirm,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// State returns the current handshake state
func (n *Negotiator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Done is closed once the window has been terminated
func (n *Negotiator) Done() <-chan struct{} {
	return n.done
}

// RequestClose handles a host close request. Without unsaved edits it
// proceeds immediately; otherwise the user decides.
func (n *Negotiator) RequestClose(ctx context.Context) (Decision, error) {
	return n.request(ctx, false)
}

// RequestQuit is RequestClose for an explicit quit, which terminates even
// when the window would otherwise stay resident.
func (n *Negotiator) RequestQuit(ctx context.Context) (Decision, error) {
	return n.request(ctx, true)
}

func (n *Negotiator) request(ctx context.Context, quit bool) (Decision, error) {
	n.mu.Lock()
	switch n.state {
	case Terminated:
		n.mu.Unlock()
		return Cancel, ErrTerminated
	case AwaitingDecision, Closing:
		n.mu.Unlock()
		return Cancel, ErrCloseInProgress
	}
	n.state = AwaitingDecision
	n.mu.Unlock()

	decision := Proceed
	if n.doc.Modified() {
		ok, err := n.confirmer.Confirm(ctx, promptDiscardOnClose)
		if err != nil && !errors.Is(err, host.ErrCancelled) {
			n.settle(Cancel, quit)
			return Cancel, fmt.Errorf("close confirmation failed: %w", err)
		}
		if !ok {
			decision = Cancel
		}
	}

	return decision, n.settle(decision, quit)
}

// settle applies the decision to the window
func (n *Negotiator) settle(decision Decision, quit bool) error {
	n.mu.Lock()
	if n.state == Terminated {
		n.mu.Unlock()
		return ErrTerminated
	}

	if decision == Cancel {
		n.state = Idle
		n.mu.Unlock()
		n.logger.Info().Msg("close cancelled")
		return nil
	}

	if n.keepResident && !quit {
		n.state = Idle
		n.mu.Unlock()
		n.logger.Info().Msg("close approved, hiding window")
		n.window.Hide()
		return nil
	}

	n.state = Closing
	n.mu.Unlock()
	n.logger.Info().Bool("quit", quit).Msg("close approved, terminating")
	n.terminate()
	return nil
}

// ForceQuit terminates without asking. Pending persisted state is flushed
// on a best-effort basis; unsaved document content is not saved.
func (n *Negotiator) ForceQuit() {
	n.mu.Lock()
	if n.state == Terminated {
		n.mu.Unlock()
		return
	}
	n.mu.Unlock()

	n.logger.Info().Msg("force quit")
	n.terminate()
}

func (n *Negotiator) terminate() {
	for _, f := range n.flushers {
		if err := f.Flush(); err != nil {
			n.logger.Warn().Err(err).Msg("flush before exit failed")
		}
	}

	n.mu.Lock()
	if n.state == Terminated {
		n.mu.Unlock()
		return
	}
	n.state = Terminated
	close(n.done)
	n.mu.Unlock()

	n.window.Terminate()
}
