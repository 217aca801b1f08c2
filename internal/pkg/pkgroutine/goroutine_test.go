package pkgroutine

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"go.uber.org/goleak"

	"github.com/shandysiswandi/jsonlog/internal/pkg/pkglog"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNewManagerDefaultMax(t *testing.T) {
	mgr := NewManager(0)
	if got := cap(mgr.sema); got != DefaultMaxGoroutine {
		t.Fatalf("expected cap %d, got %d", DefaultMaxGoroutine, got)
	}
}

func TestManagerCollectsErrors(t *testing.T) {
	mgr := NewManager(2)
	errOne := errors.New("one")
	errTwo := errors.New("two")

	mgr.Go(context.Background(), func(ctx context.Context) error {
		return errOne
	})
	mgr.Go(context.Background(), func(ctx context.Context) error {
		return errTwo
	})

	joined := mgr.Wait()
	if joined == nil {
		t.Fatalf("expected errors")
	}
	if !errors.Is(joined, errOne) {
		t.Fatalf("expected errOne to be present")
	}
	if !errors.Is(joined, errTwo) {
		t.Fatalf("expected errTwo to be present")
	}
}

func TestManagerRecoversPanics(t *testing.T) {
	mgr := NewManager(1)
	mgr.Go(context.Background(), func(ctx context.Context) error {
		panic("boom")
	})

	if err := mgr.Wait(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestManagerNamesTasks(t *testing.T) {
	mgr := NewManager(3)

	var (
		mu    sync.Mutex
		names []string
	)
	for range 3 {
		mgr.Go(context.Background(), func(ctx context.Context) error {
			mu.Lock()
			names = append(names, pkglog.ThreadFromContext(ctx))
			mu.Unlock()
			return nil
		})
	}
	if err := mgr.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sort.Strings(names)
	want := []string{"goroutine-1", "goroutine-2", "goroutine-3"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestManagerSkipsCanceledContext(t *testing.T) {
	mgr := NewManager(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	mgr.Go(ctx, func(context.Context) error {
		ran = true
		return nil
	})

	if err := mgr.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ran {
		t.Fatalf("expected canceled task not to run")
	}
}
