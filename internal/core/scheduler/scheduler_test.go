package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAddAndRunNow(t *testing.T) {
	s := New(time.Second)
	calls := 0
	if err := s.Add("sweep", "0 0 1 * * *", func(ctx context.Context) error {
		calls++
		return nil
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := s.RunNow("sweep"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}

	// re-adding replaces the job
	if err := s.Add("sweep", "0 0 2 * * *", func(ctx context.Context) error { return errors.New("boom") }); err != nil {
		t.Fatalf("re-add: %v", err)
	}
	if got := s.Jobs(); len(got) != 1 || got[0] != "sweep" {
		t.Fatalf("jobs = %v", got)
	}
	if err := s.RunNow("sweep"); err == nil {
		t.Fatal("expected replaced job error")
	}
}

func TestAddRejectsBadSchedule(t *testing.T) {
	s := New(time.Second)
	if err := s.Add("bad", "every day", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected invalid schedule error")
	}
	if err := s.RunNow("missing"); err == nil {
		t.Fatal("expected unknown job error")
	}
}

func TestStartStop(t *testing.T) {
	s := New(time.Second)
	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
