package envelope

import (
	"net/url"
	"strings"

	"coldsign-core/internal/model"
)

// PaymentURI encodes a single payment as a BIP-21 style URI:
//
//	<scheme>:<address>?amount=<urlencoded>&label=<urlencoded>&message=<urlencoded>
//
// Absent or zero fields are omitted entirely, and exactly one trailing
// '&' or '?' is stripped when the last appended segment was a separator.
// https://github.com/bitcoin/bips/blob/master/bip-0021.mediawiki
func PaymentURI(scheme string, p model.PaymentItem) string {
	tmpl := []string{scheme + ":", p.Address, "?"}

	if !p.Amount.IsZero() {
		tmpl = append(tmpl, "amount=", url.QueryEscape(p.Amount.String()), "&")
	}

	if p.Label != "" {
		tmpl = append(tmpl, "label=", url.QueryEscape(p.Label), "&")
	}

	if p.Message != "" {
		tmpl = append(tmpl, "message=", url.QueryEscape(p.Message), "&")
	}

	// 去掉结尾悬空的分隔符 (最多一个)
	if last := tmpl[len(tmpl)-1]; last == "&" || last == "?" {
		tmpl = tmpl[:len(tmpl)-1]
	}
	return strings.Join(tmpl, "")
}
