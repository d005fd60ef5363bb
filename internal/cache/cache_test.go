package cache

import (
	"fmt"
	"testing"

	"github.com/abelbrown/glossia/internal/types"
)

func TestGetAfterPut(t *testing.T) {
	e := New()

	if _, ok := e.GetSimplified("A sentence."); ok {
		t.Fatal("empty cache should miss")
	}

	resp := &types.SimplificationResponse{Original: "A sentence.", Simplified: "Short."}
	e.CacheSimplified("A sentence.", resp)
	got, ok := e.GetSimplified("A sentence.")
	if !ok || got.Simplified != "Short." {
		t.Errorf("got %+v, ok=%v", got, ok)
	}

	// Overwrite is idempotent.
	e.CacheSimplified("A sentence.", &types.SimplificationResponse{Original: "A sentence.", Simplified: "Shorter."})
	got, _ = e.GetSimplified("A sentence.")
	if got.Simplified != "Shorter." {
		t.Errorf("overwrite lost: %q", got.Simplified)
	}
	if n := e.Stats().Simplified; n != 1 {
		t.Errorf("Simplified count = %d, want 1", n)
	}
}

func TestClearTextCachesPreservesImages(t *testing.T) {
	e := New()
	e.CacheSimplified("s", &types.SimplificationResponse{})
	e.CacheWordMeaning("hermit", "a recluse")
	e.CacheOptimizedQuery("hermit_abc123", "hermit on sea")
	e.CacheImages("hermit", []types.ImageResult{{URL: "https://img.example.com/a.jpg"}})

	e.ClearTextCaches()

	s := e.Stats()
	if s.Simplified != 0 || s.WordMeanings != 0 || s.OptimizedQueries != 0 {
		t.Errorf("text stores not cleared: %+v", s)
	}
	if s.Images != 1 {
		t.Errorf("image store must survive a text clear: %+v", s)
	}

	e.ClearAll()
	if s := e.Stats(); s.Images != 0 {
		t.Errorf("ClearAll must purge images too: %+v", s)
	}
}

func TestCleanupDropsOldestFirst(t *testing.T) {
	e := New()
	for i := 0; i < 10; i++ {
		e.CacheWordMeaning(fmt.Sprintf("word%d", i), "meaning")
	}

	e.Cleanup(4)

	if n := e.Stats().WordMeanings; n != 4 {
		t.Fatalf("WordMeanings = %d, want 4", n)
	}
	for i := 0; i < 6; i++ {
		if _, ok := e.GetWordMeaning(fmt.Sprintf("word%d", i)); ok {
			t.Errorf("word%d should have been pruned", i)
		}
	}
	for i := 6; i < 10; i++ {
		if _, ok := e.GetWordMeaning(fmt.Sprintf("word%d", i)); !ok {
			t.Errorf("word%d should have survived", i)
		}
	}
}

func TestCleanupNoopUnderLimit(t *testing.T) {
	e := New()
	e.CacheWordMeaning("hermit", "a recluse")
	e.Cleanup(100)
	if _, ok := e.GetWordMeaning("hermit"); !ok {
		t.Error("cleanup under the limit must not evict")
	}
}

func TestCleanupAfterOverwriteKeepsOriginalOrder(t *testing.T) {
	e := New()
	e.CacheWordMeaning("a", "1")
	e.CacheWordMeaning("b", "2")
	e.CacheWordMeaning("a", "1 again")

	e.Cleanup(1)

	// "a" keeps its original insertion slot, so it is the one evicted.
	if _, ok := e.GetWordMeaning("a"); ok {
		t.Error("overwriting must not refresh insertion order")
	}
	if _, ok := e.GetWordMeaning("b"); !ok {
		t.Error("newest insertion should survive")
	}
}
