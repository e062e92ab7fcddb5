package coinlogic

import (
	"context"

	"github.com/shopspring/decimal"

	"coldsign-core/internal/model"
)

// CoinLogic 外部币种逻辑协作方
// 协议层把它当作不透明的请求/响应函数: 构造未签名交易字节, 以及
// 校验签名结果与原请求的绑定关系后入队/广播
type CoinLogic interface {
	// BuildUnsignedTransaction 构造未签名交易
	// 返回冒号分隔的记录, 第四个字段 (index 3) 必须是未签名参考 hex
	BuildUnsignedTransaction(payments []model.PaymentItem, fee decimal.Decimal, rbf bool) (string, error)

	// QueueOrBroadcast verifies that signedHex actually corresponds to
	// referenceHex and queues it for broadcast, returning the confirmed
	// transaction id. Fails with errno.ErrBindingMismatch otherwise.
	QueueOrBroadcast(ctx context.Context, signedHex, referenceHex string) (string, error)
}
