// Package batch keeps the ordered collection of pending payments that make
// up one transaction request. Amounts are summed with exact decimal
// arithmetic so an arbitrarily large batch never accumulates float drift.
package batch

import (
	"sync"

	"github.com/shopspring/decimal"

	"coldsign-core/internal/model"
	"coldsign-core/pkg/errno"
)

// Ledger 批量交易账本: 有序、仅通过显式操作增删改
type Ledger struct {
	mu    sync.RWMutex
	items []model.PaymentItem
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// Add appends a payment to the batch. Negative amounts never enter the
// ledger; zero amounts are allowed to exist, the aggregate is checked at
// build time.
func (l *Ledger) Add(item model.PaymentItem) error {
	if item.Amount.IsNegative() {
		return errno.ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, item)
	return nil
}

// Edit replaces the payment at index i.
func (l *Ledger) Edit(i int, item model.PaymentItem) error {
	if item.Amount.IsNegative() {
		return errno.ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if i < 0 || i >= len(l.items) {
		return errno.ErrIndexOutOfRange
	}
	l.items[i] = item
	return nil
}

// Remove deletes the payment at index i, preserving order.
func (l *Ledger) Remove(i int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i < 0 || i >= len(l.items) {
		return errno.ErrIndexOutOfRange
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	return nil
}

// Items returns a copy of the batch in insertion order.
func (l *Ledger) Items() []model.PaymentItem {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.PaymentItem, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of payments in the batch.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// SubTotal sums all payment amounts without the fee.
func (l *Ledger) SubTotal() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	total := decimal.Zero
	for _, p := range l.items {
		total = total.Add(p.Amount)
	}
	return total
}

// Total sums all payment amounts plus the given fee.
func (l *Ledger) Total(fee decimal.Decimal) decimal.Decimal {
	return l.SubTotal().Add(fee)
}
