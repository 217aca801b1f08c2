package pkguid

import (
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerate(t *testing.T) {
	gen := NewUUID()
	id := gen.Generate()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected valid uuid, got %q", id)
	}
}

func TestUUIDGenerateIsTimeOrderedAndUnique(t *testing.T) {
	gen := NewUUID()

	const workers = 8
	const perWorker = 250

	ids := make(chan string, workers*perWorker)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				ids <- gen.Generate()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{}, workers*perWorker)
	for id := range ids {
		parsed, err := uuid.Parse(id)
		if err != nil {
			t.Fatalf("expected valid uuid, got %q", id)
		}
		if parsed.Version() != 7 {
			t.Fatalf("expected uuid v7, got v%d", parsed.Version())
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}
