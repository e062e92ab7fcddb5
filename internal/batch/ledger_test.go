package batch

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coldsign-core/internal/model"
	"coldsign-core/pkg/errno"
)

func amt(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLedgerAddEditRemove(t *testing.T) {
	l := NewLedger()

	require.NoError(t, l.Add(model.PaymentItem{Address: "A1", Amount: amt("1.5")}))
	require.NoError(t, l.Add(model.PaymentItem{Address: "A2", Amount: amt("0.25"), Label: "bob"}))
	require.NoError(t, l.Add(model.PaymentItem{Address: "A3", Amount: amt("0")}))
	assert.Equal(t, 3, l.Len())

	// order is insertion order
	items := l.Items()
	assert.Equal(t, "A1", items[0].Address)
	assert.Equal(t, "A3", items[2].Address)

	require.NoError(t, l.Edit(1, model.PaymentItem{Address: "A2", Amount: amt("0.75")}))
	assert.True(t, l.Items()[1].Amount.Equal(amt("0.75")))

	require.NoError(t, l.Remove(0))
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, "A2", l.Items()[0].Address)

	assert.ErrorIs(t, l.Remove(5), errno.ErrIndexOutOfRange)
	assert.ErrorIs(t, l.Edit(-1, model.PaymentItem{Address: "X", Amount: amt("1")}), errno.ErrIndexOutOfRange)
}

func TestLedgerRejectsNegativeAmounts(t *testing.T) {
	l := NewLedger()
	err := l.Add(model.PaymentItem{Address: "A1", Amount: amt("-0.1")})
	assert.ErrorIs(t, err, errno.ErrInvalidAmount)
	assert.Equal(t, 0, l.Len())

	require.NoError(t, l.Add(model.PaymentItem{Address: "A1", Amount: amt("1")}))
	err = l.Edit(0, model.PaymentItem{Address: "A1", Amount: amt("-1")})
	assert.ErrorIs(t, err, errno.ErrInvalidAmount)
}

func TestLedgerExactSummation(t *testing.T) {
	// 0.1+0.2 style sums must be exact, float64 would drift
	l := NewLedger()
	for i := 0; i < 1000; i++ {
		require.NoError(t, l.Add(model.PaymentItem{Address: "A", Amount: amt("0.1")}))
	}
	assert.True(t, l.SubTotal().Equal(amt("100")), "got %s", l.SubTotal())

	total := l.Total(amt("0.0001"))
	assert.True(t, total.Equal(amt("100.0001")), "got %s", total)
}

func TestLedgerItemsIsACopy(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.Add(model.PaymentItem{Address: "A1", Amount: amt("1")}))

	items := l.Items()
	items[0].Address = "mutated"
	assert.Equal(t, "A1", l.Items()[0].Address)
}
