// Package reconcile closes the loop of a sign attempt: it dispatches on
// the returned action tag, binds the signed payload to the exact unsigned
// reference that was issued, and invokes the external broadcast and note
// persistence collaborators.
package reconcile

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"coldsign-core/internal/model"
	"coldsign-core/internal/notes"
	"coldsign-core/pkg/errno"
)

// Broadcaster 外部币种逻辑中负责绑定校验与入队/广播的部分
type Broadcaster interface {
	QueueOrBroadcast(ctx context.Context, signedHex, referenceHex string) (string, error)
}

type Reconciler struct {
	coin   Broadcaster
	notes  notes.Store
	logger *zap.Logger
}

// New builds a Reconciler. store may be nil when note persistence is not
// wanted.
func New(coin Broadcaster, store notes.Store, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{coin: coin, notes: store, logger: logger}
}

// Reconcile validates resp against the originating req and returns the
// confirmed transaction id on acceptance.
//
// The protocol's only binding duty is to present the SAME reference hex
// that was sent, never a newer or stale one; whether the signed bytes
// actually match is the collaborator's verdict.
func (r *Reconciler) Reconcile(ctx context.Context, resp model.SignedResponse, req *model.UnsignedRequest) (string, error) {
	if resp.Action != model.ActionTx {
		return "", errno.ErrSignerRejected
	}

	// 动作已识别但载荷为空: 应用层错误, 不是封包错误
	if resp.PayloadHex == "" {
		return "", errno.ErrEmptyResponse
	}

	txID, err := r.coin.QueueOrBroadcast(ctx, resp.PayloadHex, req.UnsignedHex)
	if err != nil {
		if errors.Is(err, errno.ErrBindingMismatch) {
			// 绑定失败是致命的: 签名结果与请求不对应, 大声上报
			r.logger.Error("signed payload failed binding verification",
				zap.String("reference_hex", req.UnsignedHex))
			return "", err
		}
		return "", errors.Wrap(err, "queue or broadcast failed")
	}

	if r.notes != nil {
		// 备注持久化失败不回滚交易, 仅记录
		if err := r.notes.SaveNotes(ctx, txID, req.Payments); err != nil {
			r.logger.Warn("failed saving notes", zap.String("tx_id", txID), zap.Error(err))
		}
	}

	r.logger.Info("transaction queued", zap.String("tx_id", txID))
	return txID, nil
}
