package transport

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"coldsign-core/pkg/envelope"
	"coldsign-core/pkg/errno"
	"coldsign-core/pkg/monitor"
)

// DeepLinker 宿主应用提供的深链能力 (探测 + 激活)
type DeepLinker interface {
	CanActivate(scheme string) bool
	Activate(uri string) error
}

// Handoff is the single-device binding: the request rides an OS-level app
// activation to the counterpart, and the reply rides one back. The OS app
// switch has no cancel primitive, so Cancel only closes the local wait;
// it never touches the counterpart process.
type Handoff struct {
	linker            DeepLinker
	counterpartScheme string
	returnScheme      string

	mu     sync.Mutex
	waitCh chan string

	cancelCh   chan struct{}
	cancelOnce sync.Once
}

func NewHandoff(linker DeepLinker, counterpartScheme, returnScheme string) *Handoff {
	return &Handoff{
		linker:            linker,
		counterpartScheme: counterpartScheme,
		returnScheme:      returnScheme,
		cancelCh:          make(chan struct{}),
	}
}

func (h *Handoff) Open(ctx context.Context, payload string) (string, error) {
	// 能力探测: 对端应用不可达时不做任何传输尝试
	if !h.linker.CanActivate(h.counterpartScheme) {
		monitor.TransportFailure("counterpart_unavailable")
		return "", errno.ErrCounterpartUnavailable
	}

	h.mu.Lock()
	h.waitCh = make(chan string, 1)
	waitCh := h.waitCh
	h.mu.Unlock()

	uri := envelope.RequestURI(h.counterpartScheme, payload)
	if err := h.linker.Activate(uri); err != nil {
		monitor.TransportFailure("activation_failed")
		return "", errors.Wrap(errno.ErrTransportUnavailable, err.Error())
	}

	// 挂起等待对端回传激活
	select {
	case raw := <-waitCh:
		return raw, nil
	case <-h.cancelCh:
		return "", errno.ErrTransportCancelled
	case <-ctx.Done():
		return "", errors.Wrap(errno.ErrTransportCancelled, ctx.Err().Error())
	}
}

// HandleReturn routes a return activation URI back into the open wait.
// The surrounding application must call this from its deep-link handler.
// A reply with no wait open is dropped.
func (h *Handoff) HandleReturn(uri string) {
	raw := envelope.StripReturnURI(h.returnScheme, uri)

	h.mu.Lock()
	waitCh := h.waitCh
	h.mu.Unlock()
	if waitCh == nil {
		return
	}

	select {
	case waitCh <- raw:
	default: // wait already satisfied
	}
}

func (h *Handoff) Cancel() {
	h.cancelOnce.Do(func() { close(h.cancelCh) })
}
