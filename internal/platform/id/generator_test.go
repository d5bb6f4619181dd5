package id

import (
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator_NewID(t *testing.T) {
	gen := NewUUIDGenerator()
	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	parsed, err := uuid.Parse(first)
	if err != nil {
		t.Fatalf("expected valid uuid, got %q: %v", first, err)
	}
	if parsed.Version() != 7 {
		t.Fatalf("expected uuid v7, got v%d", parsed.Version())
	}

	second, _ := gen.NewID()
	if first == second {
		t.Fatalf("expected distinct ids")
	}
}

func TestSequenceGenerator_UniqueUnderConcurrency(t *testing.T) {
	gen := NewSequenceGenerator("m")

	const workers = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[string]struct{}, workers)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			v, _ := gen.NewID()
			mu.Lock()
			seen[v] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(seen) != workers {
		t.Fatalf("expected %d unique ids, got %d", workers, len(seen))
	}
}
