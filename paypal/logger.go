package paypal

import (
	"context"
	"time"
)

// APICall is the record of one completed request against the payment API.
type APICall struct {
	Timestamp  time.Time
	Method     string
	URL        string
	StatusCode int
	Duration   time.Duration
	RequestID  string
	Err        string
}

// CallLogger receives a record for every request the transport completes,
// successful or not. Implementations must be safe for concurrent use and
// should not block the calling goroutine.
type CallLogger interface {
	LogAPICall(ctx context.Context, call APICall)
}

// NopCallLogger discards every record.
type NopCallLogger struct{}

func (NopCallLogger) LogAPICall(context.Context, APICall) {}
