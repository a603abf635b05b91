package nsdp

import "github.com/cockroachdb/errors"

// Error kinds returned by the codec and the transport. Callers match them with
// errors.Is; the underlying cause, if any, stays reachable through the chain.
var (
	ErrMalformedHeader          = errors.New("malformed response header")
	ErrTruncatedRecord          = errors.New("truncated record")
	ErrMalformedPayload         = errors.New("malformed record payload")
	ErrSocketBindFailed         = errors.New("socket bind failed")
	ErrHostnameResolutionFailed = errors.New("hostname resolution failed")
	ErrSendFailed               = errors.New("send failed")
	ErrNoResponse               = errors.New("no response")
)
