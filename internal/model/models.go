package model

import (
	"github.com/shopspring/decimal"
)

// Action 签名器返回的动作标记
type Action string

const (
	ActionTx      Action = "TX"
	ActionError   Action = "ERR"
	ActionUnknown Action = "UNKNOWN"
)

// PaymentItem 批量交易中的一笔输出
// Amount 使用 decimal 精确运算，禁止 float64 (累加会产生舍入漂移)
type PaymentItem struct {
	Address string          `json:"address"`
	Amount  decimal.Decimal `json:"amount"`
	Label   string          `json:"label,omitempty"`   // 收款人名称
	Message string          `json:"message,omitempty"` // 备注
}

// UnsignedRequest represents one sign attempt's request payload.
// It is immutable once built: UnsignedHex is the canonical reference the
// builder extracted at build time and is the only value a signed response
// may be verified against. It is never recomputed from a response.
type UnsignedRequest struct {
	Scheme         string          `json:"scheme"`
	Version        int             `json:"version"`
	EncodedPayload string          `json:"encoded_payload"`
	UnsignedHex    string          `json:"unsigned_hex"`
	Payments       []PaymentItem   `json:"payments"`
	Fee            decimal.Decimal `json:"fee"`
	RBF            bool            `json:"rbf"`
}

// SignedResponse represents the payload decoded from a transport reply.
// Only the envelope codec constructs it; the hot side never builds one by hand.
type SignedResponse struct {
	Action     Action `json:"action"`
	PayloadHex string `json:"payload_hex"`
}
