package transport

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"coldsign-core/pkg/errno"
	"coldsign-core/pkg/monitor"
)

// DefaultChunkSize 配对传输的默认分片大小 (字节)
const DefaultChunkSize = 128

// Radio 宿主应用提供的短距无线栈
type Radio interface {
	IsSupported() bool
	Connect(ctx context.Context) (RadioConn, error)
}

// RadioConn 一次已建立的无线会话
// Receive 返回完整的回复流 (分片重组由具体协议栈负责)
// Close 必须中止阻塞中的 Send/Receive, 且允许被调用多次
type RadioConn interface {
	Send(chunk []byte) error
	Receive() ([]byte, error)
	Close() error
}

// Paired is the two-device binding. The radio connection is a scarce
// exclusive resource: it is acquired only inside Open and released on
// every exit path, success, failure or cancel.
type Paired struct {
	radio     Radio
	chunkSize int

	cancelCh   chan struct{}
	cancelOnce sync.Once
}

func NewPaired(radio Radio, chunkSize int) *Paired {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Paired{
		radio:     radio,
		chunkSize: chunkSize,
		cancelCh:  make(chan struct{}),
	}
}

func (p *Paired) Open(ctx context.Context, payload string) (string, error) {
	// 能力探测优先于一切
	if !p.radio.IsSupported() {
		monitor.TransportFailure("unsupported")
		return "", errno.ErrTransportUnsupported
	}

	// Cancel() 与 ctx 等价地触发拆除
	ctx, stop := context.WithCancel(ctx)
	defer stop()
	go func() {
		select {
		case <-p.cancelCh:
			stop()
		case <-ctx.Done():
		}
	}()

	conn, err := p.radio.Connect(ctx)
	if err != nil {
		if stopped := p.stopCause(ctx); stopped != nil {
			return "", stopped
		}
		monitor.TransportFailure("connect_failed")
		return "", errors.Wrap(errno.ErrTransportUnavailable, err.Error())
	}
	defer conn.Close() // 任何退出路径都释放无线资源

	// 被叫停时立即关闭连接, 让阻塞中的 Send/Receive 中止返回
	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-watchDone:
		}
	}()

	// 请求按分片写出, 每片之间检查取消
	data := []byte(payload)
	for len(data) > 0 {
		if stopped := p.stopCause(ctx); stopped != nil {
			return "", stopped
		}

		n := p.chunkSize
		if n > len(data) {
			n = len(data)
		}
		if err := conn.Send(data[:n]); err != nil {
			if stopped := p.stopCause(ctx); stopped != nil {
				return "", stopped
			}
			monitor.TransportFailure("disconnected")
			return "", errors.Wrap(errno.ErrTransportDisconnected, err.Error())
		}
		data = data[n:]
	}

	raw, err := conn.Receive()
	if err != nil {
		if stopped := p.stopCause(ctx); stopped != nil {
			return "", stopped
		}
		monitor.TransportFailure("disconnected")
		return "", errors.Wrap(errno.ErrTransportDisconnected, err.Error())
	}

	if p.cancelled() {
		// 取消后到达的回复直接丢弃
		return "", errno.ErrTransportCancelled
	}
	return string(raw), nil
}

func (p *Paired) Cancel() {
	p.cancelOnce.Do(func() { close(p.cancelCh) })
}

func (p *Paired) cancelled() bool {
	select {
	case <-p.cancelCh:
		return true
	default:
		return false
	}
}

// stopCause 区分主动取消和调用方的超时, 返回 nil 表示未被叫停
func (p *Paired) stopCause(ctx context.Context) error {
	if p.cancelled() {
		return errno.ErrTransportCancelled
	}
	switch ctx.Err() {
	case nil:
		return nil
	case context.DeadlineExceeded:
		monitor.TransportFailure("timed_out")
		return errno.ErrTransportTimedOut
	default:
		return errno.ErrTransportCancelled
	}
}
