package api

import (
	"fmt"
	"sync"
	"testing"
)

func TestIPRateLimiter_Disabled(t *testing.T) {
	l := newIPRateLimiter(0)
	for i := 0; i < 100; i++ {
		if !l.allow("10.0.0.1") {
			t.Fatalf("disabled limiter rejected request %d", i)
		}
	}
}

func TestIPRateLimiter_PerClient(t *testing.T) {
	l := newIPRateLimiter(2)

	if !l.allow("10.0.0.1") || !l.allow("10.0.0.1") {
		t.Fatal("Expected the first two requests to pass")
	}
	if l.allow("10.0.0.1") {
		t.Error("Expected the third request to be limited")
	}
	if !l.allow("10.0.0.2") {
		t.Error("Expected another client to have its own bucket")
	}
}

func TestIPRateLimiter_ConcurrentReset(t *testing.T) {
	l := newIPRateLimiter(5)

	const workers = 8
	perWorker := maxTrackedClients * 3 / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				l.allow(fmt.Sprintf("10.%d.%d.%d", w, i/256, i%256))
			}
		}(w)
	}
	wg.Wait()

	l.mu.Lock()
	tracked := len(l.limiters)
	l.mu.Unlock()
	if tracked > maxTrackedClients {
		t.Errorf("Expected at most %d tracked clients, got %d", maxTrackedClients, tracked)
	}
}
