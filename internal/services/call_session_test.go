package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCallSessionReportsLifecycle(t *testing.T) {
	vapi := newFakeVapi()
	vapi.getSequence = []*Call{
		{ID: "call-1", Status: CallStatusQueued},
		{ID: "call-1", Status: CallStatusInProgress},
		{ID: "call-1", Status: CallStatusInProgress},
		{ID: "call-1", Status: CallStatusEnded, Transcript: "done"},
	}

	var starts, ends int
	session := NewCallSession(vapi, "call-1", time.Millisecond, SessionCallbacks{
		OnStart: func(*Call) { starts++ },
		OnEnd:   func(*Call) { ends++ },
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	call, err := session.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if call.TranscriptText() != "done" {
		t.Fatalf("unexpected final call %+v", call)
	}
	if starts != 1 || ends != 1 {
		t.Fatalf("expected one start and one end, got %d/%d", starts, ends)
	}
}

func TestCallSessionReportsErrorsAndStopsOnCancel(t *testing.T) {
	vapi := newFakeVapi()

	var errs int
	session := NewCallSession(vapi, "missing", time.Millisecond, SessionCallbacks{
		OnError: func(error) { errs++ },
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := session.Watch(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if errs == 0 {
		t.Fatal("expected polling errors to be reported")
	}
}
