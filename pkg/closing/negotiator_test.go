package closing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcepad/sourcepad-cli/pkg/host"
)

type fakeDoc struct{ modified bool }

func (d *fakeDoc) Modified() bool { return d.modified }

type fakeWindow struct {
	mu         sync.Mutex
	hidden     int
	terminated int
}

func (w *fakeWindow) Hide() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.hidden++
}

func (w *fakeWindow) Terminate() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.terminated++
}

type fakeFlusher struct {
	calls int
	err   error
}

func (f *fakeFlusher) Flush() error {
	f.calls++
	return f.err
}

// countingConfirmer answers with a fixed value and counts prompts
type countingConfirmer struct {
	answer bool
	err    error
	calls  int
}

func (c *countingConfirmer) Confirm(context.Context, string) (bool, error) {
	c.calls++
	return c.answer, c.err
}

func TestRequestCloseUnmodifiedProceedsWithoutPrompt(t *testing.T) {
	window := &fakeWindow{}
	confirm := &countingConfirmer{answer: false}
	n := New(&fakeDoc{}, window, WithConfirmer(confirm))

	decision, err := n.RequestClose(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Proceed, decision)
	assert.Zero(t, confirm.calls)
	assert.Equal(t, Terminated, n.State())
	assert.Equal(t, 1, window.terminated)

	select {
	case <-n.Done():
	default:
		t.Fatal("Done not closed after termination")
	}
}

func TestRequestCloseModified(t *testing.T) {
	tests := []struct {
		name           string
		answer         bool
		wantDecision   Decision
		wantState      State
		wantTerminated int
	}{
		{"user declines", false, Cancel, Idle, 0},
		{"user accepts", true, Proceed, Terminated, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window := &fakeWindow{}
			confirm := &countingConfirmer{answer: tt.answer}
			n := New(&fakeDoc{modified: true}, window, WithConfirmer(confirm))

			decision, err := n.RequestClose(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantDecision, decision)
			assert.Equal(t, 1, confirm.calls)
			assert.Equal(t, tt.wantState, n.State())
			assert.Equal(t, tt.wantTerminated, window.terminated)
			assert.Zero(t, window.hidden)
		})
	}
}

func TestRequestCloseConfirmCancelledIsCancel(t *testing.T) {
	window := &fakeWindow{}
	confirm := &countingConfirmer{err: host.ErrCancelled}
	n := New(&fakeDoc{modified: true}, window, WithConfirmer(confirm))

	decision, err := n.RequestClose(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Cancel, decision)
	assert.Equal(t, Idle, n.State())
}

func TestRequestCloseConfirmFailure(t *testing.T) {
	window := &fakeWindow{}
	confirm := &countingConfirmer{err: errors.New("tty gone")}
	n := New(&fakeDoc{modified: true}, window, WithConfirmer(confirm))

	decision, err := n.RequestClose(context.Background())
	assert.Error(t, err)
	assert.Equal(t, Cancel, decision)
	assert.Equal(t, Idle, n.State())
	assert.Zero(t, window.terminated)
}

func TestKeepResident(t *testing.T) {
	window := &fakeWindow{}
	n := New(&fakeDoc{}, window, WithKeepResident(true))

	decision, err := n.RequestClose(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Proceed, decision)
	assert.Equal(t, 1, window.hidden)
	assert.Zero(t, window.terminated)
	assert.Equal(t, Idle, n.State())

	decision, err = n.RequestQuit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Proceed, decision)
	assert.Equal(t, 1, window.terminated)
	assert.Equal(t, Terminated, n.State())
}

func TestSecondRequestWhileAwaitingDecision(t *testing.T) {
	window := &fakeWindow{}
	asked := make(chan struct{})
	release := make(chan bool)
	confirm := host.ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) {
		close(asked)
		return <-release, nil
	})
	n := New(&fakeDoc{modified: true}, window, WithConfirmer(confirm))

	result := make(chan Decision, 1)
	go func() {
		d, _ := n.RequestClose(context.Background())
		result <- d
	}()

	<-asked
	assert.Equal(t, AwaitingDecision, n.State())

	decision, err := n.RequestClose(context.Background())
	assert.ErrorIs(t, err, ErrCloseInProgress)
	assert.Equal(t, Cancel, decision)

	release <- false
	assert.Equal(t, Cancel, <-result)
	assert.Equal(t, Idle, n.State())
	assert.Zero(t, window.terminated)
}

func TestForceQuit(t *testing.T) {
	window := &fakeWindow{}
	flusher := &fakeFlusher{}
	confirm := &countingConfirmer{answer: false}
	n := New(&fakeDoc{modified: true}, window, WithConfirmer(confirm), WithFlusher(flusher))

	n.ForceQuit()
	assert.Zero(t, confirm.calls)
	assert.Equal(t, 1, flusher.calls)
	assert.Equal(t, 1, window.terminated)
	assert.Equal(t, Terminated, n.State())

	n.ForceQuit()
	assert.Equal(t, 1, window.terminated)

	_, err := n.RequestClose(context.Background())
	assert.ErrorIs(t, err, ErrTerminated)
}

func TestForceQuitFlushFailureStillTerminates(t *testing.T) {
	window := &fakeWindow{}
	flusher := &fakeFlusher{err: errors.New("read-only fs")}
	n := New(&fakeDoc{}, window, WithFlusher(flusher))

	n.ForceQuit()
	assert.Equal(t, 1, window.terminated)
	assert.Equal(t, Terminated, n.State())
}

func TestForceQuitDuringPendingRequest(t *testing.T) {
	window := &fakeWindow{}
	asked := make(chan struct{})
	release := make(chan bool)
	confirm := host.ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) {
		close(asked)
		return <-release, nil
	})
	n := New(&fakeDoc{modified: true}, window, WithConfirmer(confirm))

	errc := make(chan error, 1)
	go func() {
		_, err := n.RequestClose(context.Background())
		errc <- err
	}()

	<-asked
	n.ForceQuit()
	release <- true

	assert.ErrorIs(t, <-errc, ErrTerminated)
	assert.Equal(t, 1, window.terminated)
}

func TestStateAndDecisionNames(t *testing.T) {
	tests := []struct {
		value interface{ String() string }
		want  string
	}{
		{Idle, "idle"},
		{AwaitingDecision, "awaiting-decision"},
		{Closing, "closing"},
		{Terminated, "terminated"},
		{State(9), "state(9)"},
		{Proceed, "proceed"},
		{Cancel, "cancel"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.value.String())
	}
}
