package utils

import (
	"strings"
	"sync"
)

// WorkerPool runs jobs on at most size goroutines at a time.
type WorkerPool struct {
	slots chan struct{}
	wg    sync.WaitGroup
}

// NewWorkerPool returns a pool of size workers. A non-positive size means one.
func NewWorkerPool(size int) *WorkerPool {
	if size < 1 {
		size = 1
	}
	return &WorkerPool{slots: make(chan struct{}, size)}
}

// Go blocks until a worker is free, then runs job on it.
func (p *WorkerPool) Go(job func()) {
	p.slots <- struct{}{}
	p.wg.Add(1)
	go func() {
		defer func() {
			<-p.slots
			p.wg.Done()
		}()
		job()
	}()
}

// Wait blocks until every started job has returned.
func (p *WorkerPool) Wait() {
	p.wg.Wait()
}

// URLSet records offer URLs. Tracking parameters and fragments are ignored,
// so "…/ID1.html?reason=search" and "…/ID1.html" are the same offer.
type URLSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewURLSet creates an empty URLSet.
func NewURLSet() *URLSet {
	return &URLSet{seen: make(map[string]struct{})}
}

// Add reports whether rawURL was new to the set.
func (s *URLSet) Add(rawURL string) bool {
	key := offerKey(rawURL)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

// Len returns the number of distinct offers recorded.
func (s *URLSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

func offerKey(rawURL string) string {
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		rawURL = rawURL[:i]
	}
	return strings.TrimSuffix(rawURL, "/")
}
