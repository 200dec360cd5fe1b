package loccache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/GriffinCanCode/gamesight/internal/vision"
)

func TestUpdateGetClearAll(t *testing.T) {
	c := New()
	door := vision.Box(10, 20, 30, 40)

	c.Update("door", door)
	got, ok := c.Get("door")
	if !ok || got != door {
		t.Fatalf("Get(door) = %v, %v; want %v, true", got, ok, door)
	}

	c.ClearAll()
	if _, ok := c.Get("door"); ok {
		t.Error("Get after ClearAll should miss")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestClearSingleKey(t *testing.T) {
	c := New()
	c.Update("a", vision.Box(1, 1, 1, 1))
	c.Update("b", vision.Box(2, 2, 2, 2))

	c.Clear("a")
	if _, ok := c.Get("a"); ok {
		t.Error("a should be cleared")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("b should survive Clear(a)")
	}
	c.Clear("missing")
}

func TestUpdateOverwrites(t *testing.T) {
	c := New()
	c.Update("k", vision.Box(1, 1, 5, 5))
	c.Update("k", vision.Box(9, 9, 5, 5))

	if got, _ := c.Get("k"); got != vision.Box(9, 9, 5, 5) {
		t.Errorf("Get(k) = %v", got)
	}
}

func TestInvalidEntryIsMiss(t *testing.T) {
	c := New()
	c.Update("bad", vision.Box(3, 3, 0, 4))

	if _, ok := c.Get("bad"); ok {
		t.Error("zero-size entry should be reported as a miss")
	}
}

func TestStoreKeepsFingerprint(t *testing.T) {
	c := New()
	c.Store("k", Entry{Box: vision.Box(0, 0, 2, 2), Fingerprint: 77})

	e, ok := c.Lookup("k")
	if !ok || e.Fingerprint != 77 {
		t.Errorf("Lookup(k) = %+v, %v", e, ok)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c.Update(fmt.Sprintf("k%d", i%5), vision.Box(i, i, 1, 1))
		}(i)
		go func(i int) {
			defer wg.Done()
			c.Get(fmt.Sprintf("k%d", i%5))
		}(i)
	}
	wg.Wait()

	if c.Len() != 5 {
		t.Errorf("Len() = %d, want 5", c.Len())
	}
}
