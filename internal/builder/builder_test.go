package builder

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coldsign-core/internal/model"
	"coldsign-core/pkg/errno"
)

func amt(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// fakeConstructor 返回固定格式冒号记录, 并统计调用次数
type fakeConstructor struct {
	calls  int
	record string
	err    error
}

func (f *fakeConstructor) BuildUnsignedTransaction(payments []model.PaymentItem, fee decimal.Decimal, rbf bool) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if f.record != "" {
		return f.record, nil
	}
	// 确定性: 仅由 batch+fee+rbf 推导
	sub := decimal.Zero
	for _, p := range payments {
		sub = sub.Add(p.Amount)
	}
	return fmt.Sprintf("btc:mainnet:%t:%s%s:%d", rbf, sub.String(), fee.String(), len(payments)), nil
}

func TestVerifyCollectsAllErrors(t *testing.T) {
	b := New("bitcoin", 1, &fakeConstructor{})

	// 空批次 + 零总额 同时上报, 且顺序固定
	errs := b.Verify(nil, amt("0"), amt("10"))
	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], errno.ErrEmptyBatch)
	assert.ErrorIs(t, errs[1], errno.ErrZeroAmount)

	// 负手续费 + 超出余额
	payments := []model.PaymentItem{{Address: "A1", Amount: amt("100")}}
	errs = b.Verify(payments, amt("-1"), amt("10"))
	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], errno.ErrInvalidAmount)
	assert.ErrorIs(t, errs[1], errno.ErrInsufficientBalance)

	// 合法批次无错误
	errs = b.Verify(payments, amt("0.0001"), amt("1000"))
	assert.Empty(t, errs)
}

func TestBuildFailsBeforeTouchingCoinLogic(t *testing.T) {
	fake := &fakeConstructor{}
	b := New("bitcoin", 1, fake)

	_, err := b.Build(nil, amt("0"), amt("10"), true)
	require.Error(t, err)
	assert.ErrorIs(t, err, errno.ErrEmptyBatch)
	assert.Equal(t, 0, fake.calls, "validation failure must not reach the constructor")

	payments := []model.PaymentItem{{Address: "A1", Amount: amt("1.5")}}
	_, err = b.Build(payments, amt("0.0001"), amt("1"), true)
	require.Error(t, err)
	assert.ErrorIs(t, err, errno.ErrInsufficientBalance)
	assert.Equal(t, 0, fake.calls)
}

func TestBuildExtractsReferenceHex(t *testing.T) {
	fake := &fakeConstructor{}
	b := New("bitcoin", 7, fake)

	payments := []model.PaymentItem{{Address: "A1", Amount: amt("1.5")}}
	req, err := b.Build(payments, amt("0.0001"), amt("10"), true)
	require.NoError(t, err)

	assert.Equal(t, "bitcoin", req.Scheme)
	assert.Equal(t, 7, req.Version)
	assert.Equal(t, "1.50.0001", req.UnsignedHex) // field index 3 of the fake record
	assert.True(t, req.Fee.Equal(amt("0.0001")))
	assert.True(t, req.RBF)
	require.Len(t, req.Payments, 1)
	assert.Equal(t, "A1", req.Payments[0].Address)
}

func TestBuildDeterministicReference(t *testing.T) {
	b := New("bitcoin", 1, &fakeConstructor{})
	payments := []model.PaymentItem{
		{Address: "A1", Amount: amt("1.5")},
		{Address: "A2", Amount: amt("0.25")},
	}

	first, err := b.Build(payments, amt("0.0001"), amt("10"), true)
	require.NoError(t, err)
	second, err := b.Build(payments, amt("0.0001"), amt("10"), true)
	require.NoError(t, err)
	assert.Equal(t, first.UnsignedHex, second.UnsignedHex)
}

func TestBuildRejectsMalformedRecord(t *testing.T) {
	payments := []model.PaymentItem{{Address: "A1", Amount: amt("1")}}

	// 缺少参考 hex 字段的记录
	b := New("bitcoin", 1, &fakeConstructor{record: "btc:mainnet"})
	_, err := b.Build(payments, amt("0"), amt("10"), false)
	assert.ErrorIs(t, err, errno.ErrMalformedRecord)

	// 参考 hex 字段为空
	b = New("bitcoin", 1, &fakeConstructor{record: "btc:mainnet:rbf::1"})
	_, err = b.Build(payments, amt("0"), amt("10"), false)
	assert.ErrorIs(t, err, errno.ErrMalformedRecord)

	// 构造器返回错误时直接透传
	b = New("bitcoin", 1, &fakeConstructor{err: errno.InternalServerError})
	_, err = b.Build(payments, amt("0"), amt("10"), false)
	assert.ErrorIs(t, err, errno.InternalServerError)
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{errno.ErrEmptyBatch, errno.ErrZeroAmount}
	assert.Equal(t, "batch contains no payments; amount cannot be zero", errs.Error())
}

func TestScenarioTotalComputation(t *testing.T) {
	// batch=[{A1,1.5}], fee=0.0001, balance=10 → total 1.5001, signable
	b := New("bitcoin", 1, &fakeConstructor{})
	payments := []model.PaymentItem{{Address: "A1", Amount: amt("1.5")}}

	errs := b.Verify(payments, amt("0.0001"), amt("10"))
	assert.Empty(t, errs)

	// balance=1 → 仅余额不足
	errs = b.Verify(payments, amt("0.0001"), amt("1"))
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], errno.ErrInsufficientBalance)
}
