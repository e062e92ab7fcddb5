package errno

import "errors"

// Errno defines the error code logic
type Errno struct {
	Code    int
	Message string
}

func (e Errno) Error() string {
	return e.Message
}

// Decode tries to convert an error to Errno, unwrapping as needed
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}

	var typed Errno
	if errors.As(err, &typed) {
		return typed.Code, typed.Message
	}
	return InternalServerError.Code, err.Error()
}

// Common Errors
var (
	OK                  = Errno{Code: 0, Message: "Success"}
	InternalServerError = Errno{Code: 10001, Message: "Internal error"}
)

// Validation Errors (20100+)
// 在触碰传输层之前全部收集并一次性返回给调用方
var (
	ErrEmptyBatch          = Errno{Code: 20101, Message: "batch contains no payments"}
	ErrInvalidAmount       = Errno{Code: 20102, Message: "amount is not a valid number"}
	ErrZeroAmount          = Errno{Code: 20103, Message: "amount cannot be zero"}
	ErrInsufficientBalance = Errno{Code: 20104, Message: "not enough funds"}
	ErrIndexOutOfRange     = Errno{Code: 20105, Message: "payment index out of range"}
)

// Transport Errors (20200+)
// 连接层失败: 丢弃本次传输实例后可安全地用新会话重试
var (
	ErrCounterpartUnavailable = Errno{Code: 20201, Message: "counterpart application is not reachable"}
	ErrTransportUnsupported   = Errno{Code: 20202, Message: "transport is not supported on this device"}
	ErrTransportUnavailable   = Errno{Code: 20203, Message: "transport could not be established"}
	ErrTransportTimedOut      = Errno{Code: 20204, Message: "transport timed out"}
	ErrTransportDisconnected  = Errno{Code: 20205, Message: "transport disconnected mid exchange"}
	ErrTransportCancelled     = Errno{Code: 20206, Message: "transport cancelled by caller"}
)

// Protocol Errors (20300+)
// 不允许自动重试: 未经用户再次确认的重试有重复签名风险
var (
	ErrMalformedEnvelope = Errno{Code: 20301, Message: "malformed transport envelope"}
	ErrSignerRejected    = Errno{Code: 20302, Message: "signer rejected or returned unknown action"}
	ErrEmptyResponse     = Errno{Code: 20303, Message: "signer returned an empty payload"}
	ErrMalformedRecord   = Errno{Code: 20304, Message: "unsigned record is missing the reference hex field"}
)

// Binding Errors (20400+)
var (
	ErrBindingMismatch = Errno{Code: 20401, Message: "signed payload does not match the requested transaction"}
)

// Session Errors (20500+)
var (
	ErrSessionNotIdle = Errno{Code: 20501, Message: "signing session has already been started"}
)

// Storage Errors (20600+)
var (
	ErrNotesNotFound = Errno{Code: 20601, Message: "no notes stored for this transaction"}
)

// IsValidation reports whether err belongs to the validation band.
func IsValidation(err error) bool { return inBand(err, 20100, 20200) }

// IsTransport reports whether err belongs to the transport band.
// Transport failures may be retried with a fresh session; protocol and
// binding failures must not be.
func IsTransport(err error) bool { return inBand(err, 20200, 20300) }

// IsProtocol reports whether err belongs to the protocol band.
func IsProtocol(err error) bool { return inBand(err, 20300, 20400) }

func inBand(err error, lo, hi int) bool {
	var typed Errno
	if !errors.As(err, &typed) {
		return false
	}
	return typed.Code >= lo && typed.Code < hi
}
