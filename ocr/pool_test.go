package ocr

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeEngine struct {
	mu         sync.Mutex
	text       string
	recognized int
	closed     int
}

func (f *fakeEngine) Recognize([]byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recognized++
	return f.text, nil
}

func (f *fakeEngine) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeEngine) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// countingFactory tracks how many engines the pool has constructed.
type countingFactory struct {
	mu      sync.Mutex
	built   int
	engines []*fakeEngine
}

func (c *countingFactory) make() (Engine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.built++
	eng := &fakeEngine{text: "recognized"}
	c.engines = append(c.engines, eng)
	return eng, nil
}

func (c *countingFactory) buildCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.built
}

func TestPool_LazyConstruction(t *testing.T) {
	f := &countingFactory{}
	p := NewPool(f.make)

	if p.Active() {
		t.Error("Expected no engine before first Acquire")
	}
	if f.buildCount() != 0 {
		t.Errorf("Factory ran %d times before Acquire", f.buildCount())
	}

	lease, err := p.Acquire()
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer lease.Release()

	if !p.Active() {
		t.Error("Expected engine after Acquire")
	}
	if f.buildCount() != 1 {
		t.Errorf("Expected 1 construction, got %d", f.buildCount())
	}
}

func TestPool_SharedAcrossLeases(t *testing.T) {
	f := &countingFactory{}
	p := NewPool(f.make)

	l1, err := p.Acquire()
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	l2, err := p.Acquire()
	if err != nil {
		t.Fatalf("Second acquire failed: %v", err)
	}

	if f.buildCount() != 1 {
		t.Errorf("Expected concurrent leases to share one engine, got %d constructions", f.buildCount())
	}

	l1.Release()
	if !p.Active() {
		t.Error("Engine destroyed while a lease was still outstanding")
	}
	l2.Release()
}

func TestPool_IdleShutdownFiresOnce(t *testing.T) {
	f := &countingFactory{}
	p := NewPool(f.make, WithIdleTimeout(20*time.Millisecond))

	l1, _ := p.Acquire()
	l2, _ := p.Acquire()
	l1.Release()
	l2.Release()

	// Still alive immediately after release: teardown waits for the timer.
	if !p.Active() {
		t.Error("Engine destroyed before idle timeout elapsed")
	}

	time.Sleep(150 * time.Millisecond)

	if p.Active() {
		t.Error("Engine still alive after idle timeout")
	}
	if got := f.engines[0].closeCount(); got != 1 {
		t.Errorf("Expected exactly 1 Close, got %d", got)
	}
}

func TestPool_AcquireCancelsIdleTimer(t *testing.T) {
	f := &countingFactory{}
	p := NewPool(f.make, WithIdleTimeout(50*time.Millisecond))

	l1, _ := p.Acquire()
	l1.Release()

	// Re-acquire inside the idle window: the pending teardown must not fire.
	l2, err := p.Acquire()
	if err != nil {
		t.Fatalf("Re-acquire failed: %v", err)
	}
	defer l2.Release()

	time.Sleep(150 * time.Millisecond)

	if !p.Active() {
		t.Error("Idle timer destroyed an engine with an outstanding lease")
	}
	if f.buildCount() != 1 {
		t.Errorf("Expected engine reuse, got %d constructions", f.buildCount())
	}
}

func TestPool_ReleaseIdempotent(t *testing.T) {
	f := &countingFactory{}
	p := NewPool(f.make, WithIdleTimeout(time.Hour))

	l1, _ := p.Acquire()
	l2, _ := p.Acquire()

	l1.Release()
	l1.Release()
	l1.Release()

	// If the double release corrupted the count, l2's ref would already be
	// gone and the engine eligible for teardown.
	if _, err := l2.Recognize([]byte("img")); err != nil {
		t.Errorf("Recognize through live lease failed after sibling double-release: %v", err)
	}
	l2.Release()
}

func TestPool_RecognizeAfterRelease(t *testing.T) {
	f := &countingFactory{}
	p := NewPool(f.make)

	lease, _ := p.Acquire()
	lease.Release()

	if _, err := lease.Recognize([]byte("img")); !errors.Is(err, ErrLeaseReleased) {
		t.Errorf("Expected ErrLeaseReleased, got %v", err)
	}
}

func TestPool_FactoryError(t *testing.T) {
	boom := errors.New("no tesseract")
	p := NewPool(func() (Engine, error) { return nil, boom })

	if _, err := p.Acquire(); !errors.Is(err, boom) {
		t.Errorf("Expected factory error to surface, got %v", err)
	}
	if p.Active() {
		t.Error("Pool holds an engine after failed construction")
	}
}

func TestPool_Shutdown(t *testing.T) {
	f := &countingFactory{}
	p := NewPool(f.make, WithIdleTimeout(time.Hour))

	lease, _ := p.Acquire()
	lease.Release()

	if err := p.Shutdown(); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if p.Active() {
		t.Error("Engine alive after Shutdown")
	}
	if got := f.engines[0].closeCount(); got != 1 {
		t.Errorf("Expected 1 Close, got %d", got)
	}
}

func TestPool_ConcurrentLeases(t *testing.T) {
	f := &countingFactory{}
	p := NewPool(f.make, WithIdleTimeout(100*time.Millisecond))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lease, err := p.Acquire()
			if err != nil {
				t.Errorf("Acquire failed: %v", err)
				return
			}
			defer lease.Release()
			if _, err := lease.Recognize([]byte("img")); err != nil {
				t.Errorf("Recognize failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if f.buildCount() != 1 {
		t.Errorf("Expected all goroutines to share one engine, got %d", f.buildCount())
	}

	time.Sleep(400 * time.Millisecond)
	if p.Active() {
		t.Error("Engine still alive after all leases released and idle elapsed")
	}
}
