// Package session drives one sign attempt through its state machine:
//
//	Idle → Requesting → AwaitingSigner → Reconciling → {Succeeded, Cancelled, Failed}
//
// A session is single-owner and single-use: it exists for one attempt and
// is discarded afterwards, never pooled or restarted. The transport's Open
// call is the sole suspension point; everything else is a synchronous
// transform. The session has no internal timer; timeouts are the caller's
// job, enforced by calling Cancel.
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"coldsign-core/internal/model"
	"coldsign-core/internal/transport"
	"coldsign-core/pkg/envelope"
	"coldsign-core/pkg/errno"
	"coldsign-core/pkg/monitor"
)

// State 会话状态 (终态之后不允许任何迁移)
type State int

const (
	StateIdle State = iota
	StateRequesting
	StateAwaitingSigner
	StateReconciling
	StateSucceeded
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateAwaitingSigner:
		return "awaiting_signer"
	case StateReconciling:
		return "reconciling"
	case StateSucceeded:
		return "succeeded"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state permits no further transitions.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateCancelled || s == StateFailed
}

// Provider 由调用方提供: 构造本次尝试的未签名请求
// 校验失败时返回错误, 会话在不触碰传输层的情况下直接进入 Failed
type Provider func(ctx context.Context) (*model.UnsignedRequest, error)

// Reconciler validates a returned signed payload against the originating
// request and performs the queue/broadcast + note persistence side. The
// returned id identifies the accepted transaction.
type Reconciler interface {
	Reconcile(ctx context.Context, resp model.SignedResponse, req *model.UnsignedRequest) (string, error)
}

type Session struct {
	id string

	mu        sync.Mutex
	state     State
	request   *model.UnsignedRequest
	txID      string
	err       error
	cancelled bool

	binding    transport.Binding
	provider   Provider
	reconciler Reconciler

	onState func(State)
	logger  *zap.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithStateFunc registers a callback invoked after every state change.
// It is called without internal locks held.
func WithStateFunc(fn func(State)) Option {
	return func(s *Session) { s.onState = fn }
}

func New(binding transport.Binding, provider Provider, reconciler Reconciler, opts ...Option) *Session {
	s := &Session{
		id:       uuid.NewString(),
		state:    StateIdle,
		binding:  binding,
		provider: provider,
		logger:   zap.NewNop(),
	}
	s.reconciler = reconciler
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("session_id", s.id))
	return s
}

// ID returns the session's correlation id.
func (s *Session) ID() string { return s.id }

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the terminal failure cause, nil unless the state is Failed.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// TxID returns the accepted transaction id, empty unless the state is
// Succeeded.
func (s *Session) TxID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txID
}

// Request returns the request built for this attempt, nil before Requesting
// completed.
func (s *Session) Request() *model.UnsignedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.request
}

// Start runs the attempt to a terminal state. It returns the failure cause
// when the session ends Failed and nil when it ends Succeeded or Cancelled;
// inspect State() to tell the latter two apart.
func (s *Session) Start(ctx context.Context) error {
	if !s.transition(StateIdle, StateRequesting) {
		return errno.ErrSessionNotIdle
	}

	req, err := s.provider(ctx)
	if err != nil {
		// 校验失败: 未触碰传输层, 直接终止
		return s.fail(err)
	}

	s.mu.Lock()
	if s.cancelled {
		s.mu.Unlock()
		return nil
	}
	s.request = req
	s.mu.Unlock()

	if !s.transition(StateRequesting, StateAwaitingSigner) {
		return nil // cancelled in between
	}

	raw, err := s.binding.Open(ctx, req.EncodedPayload)

	// 取消是协作式的: 取消之后到达的任何数据一律丢弃,
	// 会话停留在 Cancelled, 绝不重新打开
	if s.discardIfCancelled(raw) {
		return nil
	}
	if err != nil {
		return s.fail(err)
	}

	resp, err := envelope.DecodeResponse(raw)
	if err != nil {
		return s.fail(err)
	}

	if !s.transition(StateAwaitingSigner, StateReconciling) {
		return nil
	}

	txID, err := s.reconciler.Reconcile(ctx, resp, req)

	// 对账期间请求了取消: 结果已尽力丢弃, 资源已释放
	if s.discardIfCancelled(resp.PayloadHex) {
		return nil
	}
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	if !s.cancelled {
		s.txID = txID
	}
	s.mu.Unlock()

	s.finish(StateSucceeded)
	return nil
}

// Cancel moves a non-terminal session to Cancelled and tears down the
// transport's local wait state. Safe from any state, including before the
// transport has started and after it has completed.
func (s *Session) Cancel() {
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return
	}
	s.cancelled = true
	prev := s.state
	s.state = StateCancelled
	s.mu.Unlock()

	s.logger.Info("session cancelled", zap.Stringer("from", prev))
	monitor.SessionFinished(StateCancelled.String())
	s.notify(StateCancelled)

	s.binding.Cancel()
}

// transition moves from → to if the session is still in from and not
// cancelled. Terminal states are never left.
func (s *Session) transition(from, to State) bool {
	s.mu.Lock()
	if s.state != from || s.state.Terminal() {
		s.mu.Unlock()
		return false
	}
	s.state = to
	s.mu.Unlock()

	s.logger.Debug("session state change", zap.Stringer("from", from), zap.Stringer("to", to))
	s.notify(to)
	return true
}

func (s *Session) discardIfCancelled(raw string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cancelled {
		return false
	}
	if raw != "" {
		s.logger.Debug("discarding data that arrived after cancellation")
	}
	return true
}

func (s *Session) fail(cause error) error {
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return cause
	}
	s.state = StateFailed
	s.err = cause
	s.mu.Unlock()

	s.logger.Warn("session failed", zap.Error(cause))
	monitor.SessionFinished(StateFailed.String())
	s.notify(StateFailed)
	return cause
}

func (s *Session) finish(terminal State) {
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return
	}
	s.state = terminal
	s.mu.Unlock()

	s.logger.Info("session finished", zap.Stringer("state", terminal))
	monitor.SessionFinished(terminal.String())
	s.notify(terminal)
}

func (s *Session) notify(state State) {
	if s.onState != nil {
		s.onState(state)
	}
}
