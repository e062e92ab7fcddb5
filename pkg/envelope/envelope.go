// Package envelope implements the fixed-format exchange message shared by
// every transport: replies are a single delimited record "ACTION/hexPayload",
// outbound requests are framed behind a deep-link scheme, and payment
// requests use BIP-21 style URIs.
package envelope

import (
	"strings"

	"coldsign-core/internal/model"
	"coldsign-core/pkg/errno"
)

// Delimiter separates the action token from the hex payload. Only the
// first occurrence splits; anything after it belongs to the payload.
const Delimiter = "/"

// actionTokens 封闭的动作标记集合
// TX/ERR 之外的保留标记解码为 ActionUnknown, 由对账层统一拒绝
var actionTokens = map[string]model.Action{
	"TX":  model.ActionTx,
	"ERR": model.ActionError,
	"MSG": model.ActionUnknown,
	"VAL": model.ActionUnknown,
	"PUB": model.ActionUnknown,
	"SWP": model.ActionUnknown,
}

// DecodeResponse parses a transport reply into a SignedResponse.
//
// A missing delimiter or an unrecognized action token is a framing error
// (ErrMalformedEnvelope). An empty payload after a recognized action is NOT
// a framing error; rejecting it is reconciliation's job.
func DecodeResponse(raw string) (model.SignedResponse, error) {
	token, payload, ok := strings.Cut(raw, Delimiter)
	if !ok {
		return model.SignedResponse{}, errno.ErrMalformedEnvelope
	}

	action, recognized := actionTokens[token]
	if !recognized {
		return model.SignedResponse{}, errno.ErrMalformedEnvelope
	}

	return model.SignedResponse{
		Action:     action,
		PayloadHex: payload,
	}, nil
}

// RequestURI frames an outbound request payload behind the counterpart's
// deep-link scheme so an OS-level activation can carry it across the gap.
func RequestURI(scheme, payload string) string {
	return scheme + "://" + payload
}

// StripReturnURI removes the caller's own scheme prefix from a return
// activation URI, leaving the raw reply record for DecodeResponse.
func StripReturnURI(scheme, uri string) string {
	return strings.TrimPrefix(uri, scheme+"://")
}
