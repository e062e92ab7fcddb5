package coinlogic

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"coldsign-core/internal/model"
	"coldsign-core/pkg/errno"
)

// satoshiPerCoin 1 BTC = 1e8 satoshi
var satoshiPerCoin = decimal.NewFromInt(1e8)

// BTC is the reference CoinLogic for BTC-family coins. It builds an
// outputs-only transaction skeleton (input selection and signing belong to
// the cold side) and checks a signed reply against the skeleton before
// queueing it.
type BTC struct {
	ticker string
	params *chaincfg.Params
}

var _ CoinLogic = (*BTC)(nil)

func NewBTC(ticker string, params *chaincfg.Params) *BTC {
	return &BTC{ticker: ticker, params: params}
}

// BuildUnsignedTransaction 构造未签名交易骨架
// 记录格式: <ticker>:<network>:<flags>:<unsignedHex>:<outputs>
// 只有 index 3 (未签名 hex) 是协议契约, 其余字段供冷端展示
func (c *BTC) BuildUnsignedTransaction(payments []model.PaymentItem, fee decimal.Decimal, rbf bool) (string, error) {
	tx := wire.NewMsgTx(wire.TxVersion)

	for _, p := range payments {
		addr, err := btcutil.DecodeAddress(p.Address, c.params)
		if err != nil {
			return "", errors.Wrapf(err, "invalid address %q", p.Address)
		}

		script, err := txscript.PayToAddrScript(addr)
		if err != nil {
			return "", errors.Wrapf(err, "failed building output script for %q", p.Address)
		}

		sat := p.Amount.Mul(satoshiPerCoin)
		if !sat.Equal(sat.Truncate(0)) {
			return "", errors.Wrapf(errno.ErrInvalidAmount, "amount %s has sub-satoshi precision", p.Amount)
		}

		tx.AddTxOut(wire.NewTxOut(sat.IntPart(), script))
	}

	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return "", errors.Wrap(err, "failed serializing unsigned skeleton")
	}

	flags := "norbf"
	if rbf {
		flags = "rbf"
	}

	return fmt.Sprintf("%s:%s:%s:%s:%d",
		c.ticker, c.params.Name, flags, hex.EncodeToString(buf.Bytes()), len(tx.TxOut)), nil
}

// QueueOrBroadcast 校验签名结果与未签名骨架的绑定关系
// 绑定规则: 签名交易的输出列表必须与骨架完全一致 (数量、金额、脚本)
func (c *BTC) QueueOrBroadcast(ctx context.Context, signedHex, referenceHex string) (string, error) {
	ref, err := decodeTx(referenceHex)
	if err != nil {
		return "", errors.Wrap(errno.ErrBindingMismatch, "reference hex is not a transaction")
	}

	signed, err := decodeTx(signedHex)
	if err != nil {
		return "", errors.Wrap(errno.ErrBindingMismatch, "signed hex is not a transaction")
	}

	if !sameOutputs(ref, signed) {
		return "", errno.ErrBindingMismatch
	}

	// 入队交由外部广播器轮询, 这里直接返回确认的 TxId
	return signed.TxHash().String(), nil
}

func decodeTx(raw string) (*wire.MsgTx, error) {
	b, err := hex.DecodeString(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	tx := wire.NewMsgTx(wire.TxVersion)
	if err := tx.Deserialize(bytes.NewReader(b)); err != nil {
		return nil, err
	}
	return tx, nil
}

func sameOutputs(ref, signed *wire.MsgTx) bool {
	if len(ref.TxOut) != len(signed.TxOut) {
		return false
	}
	for i, out := range ref.TxOut {
		if out.Value != signed.TxOut[i].Value {
			return false
		}
		if !bytes.Equal(out.PkScript, signed.TxOut[i].PkScript) {
			return false
		}
	}
	return true
}
