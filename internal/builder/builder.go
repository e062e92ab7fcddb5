// Package builder turns a payment batch plus fee and RBF flag into the
// canonical unsigned request payload, guarded by mandatory verification.
package builder

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"coldsign-core/internal/model"
	"coldsign-core/pkg/errno"
	"coldsign-core/pkg/monitor"
)

// referenceHexField 冒号记录中未签名参考 hex 所在的字段下标
const referenceHexField = 3

// TxConstructor is the slice of the external coin logic the builder needs:
// an opaque function producing the colon-delimited unsigned record.
type TxConstructor interface {
	BuildUnsignedTransaction(payments []model.PaymentItem, fee decimal.Decimal, rbf bool) (string, error)
}

// ValidationErrors 按固定顺序收集的校验失败列表
// 一次性返回, 调用方可以同时展示所有问题
type ValidationErrors []error

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, err := range v {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes the individual failures to errors.Is / errors.As.
func (v ValidationErrors) Unwrap() []error { return v }

type Builder struct {
	scheme  string
	version int
	coin    TxConstructor
}

func New(scheme string, version int, coin TxConstructor) *Builder {
	return &Builder{scheme: scheme, version: version, coin: coin}
}

// Verify runs every check and returns all failures in order; it never
// short-circuits. An empty result means the batch is signable.
func (b *Builder) Verify(payments []model.PaymentItem, fee, balance decimal.Decimal) ValidationErrors {
	var errs ValidationErrors

	if len(payments) == 0 {
		errs = append(errs, errno.ErrEmptyBatch)
		monitor.ValidationFailure("empty_batch")
	}

	total := fee
	valid := true
	for _, p := range payments {
		if p.Amount.IsNegative() {
			valid = false
		}
		total = total.Add(p.Amount)
	}
	if fee.IsNegative() {
		valid = false
	}
	if !valid {
		errs = append(errs, errno.ErrInvalidAmount)
		monitor.ValidationFailure("invalid_amount")
	}

	if total.IsZero() {
		errs = append(errs, errno.ErrZeroAmount)
		monitor.ValidationFailure("zero_amount")
	}

	if total.GreaterThan(balance) {
		errs = append(errs, errno.ErrInsufficientBalance)
		monitor.ValidationFailure("insufficient_balance")
	}

	return errs
}

// Build verifies the batch and assembles the immutable unsigned request.
// The unsigned reference hex is extracted here, at build time, and nowhere
// else: a response can never retroactively redefine what was requested.
func (b *Builder) Build(payments []model.PaymentItem, fee, balance decimal.Decimal, rbf bool) (*model.UnsignedRequest, error) {
	if errs := b.Verify(payments, fee, balance); len(errs) > 0 {
		return nil, errs
	}

	record, err := b.coin.BuildUnsignedTransaction(payments, fee, rbf)
	if err != nil {
		return nil, errors.Wrap(err, "coin logic failed building unsigned transaction")
	}

	fields := strings.Split(record, ":")
	if len(fields) <= referenceHexField || fields[referenceHexField] == "" {
		return nil, errors.Wrapf(errno.ErrMalformedRecord, "record has %d fields", len(fields))
	}

	batch := make([]model.PaymentItem, len(payments))
	copy(batch, payments)

	return &model.UnsignedRequest{
		Scheme:         b.scheme,
		Version:        b.version,
		EncodedPayload: record,
		UnsignedHex:    fields[referenceHexField],
		Payments:       batch,
		Fee:            fee,
		RBF:            rbf,
	}, nil
}
