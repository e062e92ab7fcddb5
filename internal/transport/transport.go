// Package transport carries one encoded request across the air gap and
// returns the raw reply. Two bindings exist: Handoff (same device, two
// apps exchanging deep-link activations) and Paired (two devices over a
// short-range radio session).
//
// Connection-level failures (errno transport band) are reported distinctly
// from decode failures and application failures so the session can tell
// "retry with a fresh session" from "abort the sign attempt".
package transport

import "context"

// Binding 传输绑定: 每次签名尝试持有自己的实例, 不跨会话复用
type Binding interface {
	// Open delivers the encoded request and blocks until the raw reply
	// arrives, the context ends, or Cancel is called. It is the only
	// suspension point of a signing session.
	Open(ctx context.Context, payload string) (string, error)

	// Cancel tears down the local wait state. Safe to call from any
	// goroutine, at any time, more than once.
	Cancel()
}
