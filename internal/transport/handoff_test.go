package transport

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coldsign-core/pkg/errno"
)

type fakeLinker struct {
	reachable   bool
	activateErr error

	mu        sync.Mutex
	activated []string
}

func (f *fakeLinker) CanActivate(scheme string) bool { return f.reachable }

func (f *fakeLinker) Activate(uri string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activated = append(f.activated, uri)
	return f.activateErr
}

func (f *fakeLinker) activations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.activated))
	copy(out, f.activated)
	return out
}

func (f *fakeLinker) waitActivated(t *testing.T) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for len(f.activations()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("Activate was never called")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestHandoffCounterpartUnavailable(t *testing.T) {
	linker := &fakeLinker{reachable: false}
	h := NewHandoff(linker, "coldsign", "coldwallet")

	_, err := h.Open(context.Background(), "payload")
	assert.ErrorIs(t, err, errno.ErrCounterpartUnavailable)
	assert.Empty(t, linker.activations(), "probe failure must not attempt a transfer")
}

func TestHandoffRoundTrip(t *testing.T) {
	linker := &fakeLinker{reachable: true}
	h := NewHandoff(linker, "coldsign", "coldwallet")

	// 对端在激活后回传
	go func() {
		for len(linker.activations()) == 0 {
			time.Sleep(time.Millisecond)
		}
		h.HandleReturn("coldwallet://TX/deadbeef")
	}()

	raw, err := h.Open(context.Background(), "btc:mainnet:rbf:00aa:1")
	require.NoError(t, err)
	assert.Equal(t, "TX/deadbeef", raw)

	activated := linker.activations()
	require.Len(t, activated, 1)
	assert.Equal(t, "coldsign://btc:mainnet:rbf:00aa:1", activated[0])
}

func TestHandoffActivationFailure(t *testing.T) {
	linker := &fakeLinker{reachable: true, activateErr: assert.AnError}
	h := NewHandoff(linker, "coldsign", "coldwallet")

	_, err := h.Open(context.Background(), "payload")
	assert.ErrorIs(t, err, errno.ErrTransportUnavailable)
}

func TestHandoffCancelClosesLocalWait(t *testing.T) {
	linker := &fakeLinker{reachable: true}
	h := NewHandoff(linker, "coldsign", "coldwallet")

	done := make(chan error, 1)
	go func() {
		_, err := h.Open(context.Background(), "payload")
		done <- err
	}()

	linker.waitActivated(t)
	h.Cancel()
	h.Cancel() // idempotent

	select {
	case err := <-done:
		assert.ErrorIs(t, err, errno.ErrTransportCancelled)
	case <-time.After(time.Second):
		t.Fatal("Open did not return after Cancel")
	}
}

func TestHandoffReturnWithoutOpenWaitIsDropped(t *testing.T) {
	h := NewHandoff(&fakeLinker{reachable: true}, "coldsign", "coldwallet")
	// 没有进行中的等待时回传不应 panic 或阻塞
	h.HandleReturn("coldwallet://TX/deadbeef")
}

func TestHandoffContextCancellation(t *testing.T) {
	linker := &fakeLinker{reachable: true}
	h := NewHandoff(linker, "coldsign", "coldwallet")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := h.Open(ctx, "payload")
		done <- err
	}()

	linker.waitActivated(t)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, errno.ErrTransportCancelled)
	case <-time.After(time.Second):
		t.Fatal("Open did not return after context cancellation")
	}
}
