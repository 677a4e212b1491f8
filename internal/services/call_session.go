package services

import (
	"context"
	"fmt"
	"time"
)

// SessionCallbacks are handed to a CallSession at construction. Nil
// callbacks are skipped.
type SessionCallbacks struct {
	OnStart func(call *Call)
	OnEnd   func(call *Call)
	OnError func(err error)
}

// CallSession follows one call on the voice platform by polling it and
// reports lifecycle changes through its callbacks.
type CallSession struct {
	client    VapiClient
	callID    string
	interval  time.Duration
	callbacks SessionCallbacks
}

func NewCallSession(client VapiClient, callID string, interval time.Duration, callbacks SessionCallbacks) *CallSession {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &CallSession{
		client:    client,
		callID:    callID,
		interval:  interval,
		callbacks: callbacks,
	}
}

// Watch blocks until the call ends or ctx is done. OnStart fires at most
// once, OnEnd exactly once when the call is seen ended. Polling errors are
// reported through OnError and do not stop the session.
func (s *CallSession) Watch(ctx context.Context) (*Call, error) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	started := false
	for {
		call, err := s.client.GetCall(ctx, s.callID)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, fmt.Errorf("call session %s: %w", s.callID, ctx.Err())
			}
			if s.callbacks.OnError != nil {
				s.callbacks.OnError(err)
			}
		case call.Status == CallStatusEnded:
			if s.callbacks.OnEnd != nil {
				s.callbacks.OnEnd(call)
			}
			return call, nil
		case !started && (call.Status == CallStatusInProgress || call.Status == CallStatusForwarding):
			started = true
			if s.callbacks.OnStart != nil {
				s.callbacks.OnStart(call)
			}
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("call session %s: %w", s.callID, ctx.Err())
		case <-ticker.C:
		}
	}
}
