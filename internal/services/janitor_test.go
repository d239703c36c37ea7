package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestJanitorRunOnce(t *testing.T) {
	janitor := NewJanitor(time.Minute)
	janitor.Add("otp challenges", func(context.Context) (int64, error) { return 3, nil })
	janitor.Add("sessions", func(context.Context) (int64, error) { return 0, errors.New("locked") })

	removed := janitor.RunOnce(context.Background())
	if removed["otp challenges"] != 3 {
		t.Fatalf("removed = %v", removed)
	}
	if _, ok := removed["sessions"]; ok {
		t.Fatal("failed sweep reported a count")
	}
}

func TestJanitorStartStopsWithContext(t *testing.T) {
	var runs atomic.Int32
	janitor := NewJanitor(5 * time.Millisecond)
	janitor.Add("otp challenges", func(context.Context) (int64, error) {
		runs.Add(1)
		return 0, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	janitor.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	janitor.Wait()

	if runs.Load() < 2 {
		t.Fatalf("runs = %d, want at least 2", runs.Load())
	}
}
