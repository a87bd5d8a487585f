package cache

import "time"

// Cleaner is any cache that can purge its expired entries.
type Cleaner interface {
	CleanExpired() int
}

// Manager runs one background sweep over every registered cache so each
// cache does not need its own goroutine.
type Manager struct {
	caches []Cleaner
	stop   chan struct{}
	done   chan struct{}
}

func NewManager() *Manager {
	return &Manager{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Register adds a cache to the sweep. Call before StartCleanup; the
// manager does not lock its cache list.
func (m *Manager) Register(c Cleaner) {
	m.caches = append(m.caches, c)
}

// StartCleanup begins sweeping expired entries on the given interval.
func (m *Manager) StartCleanup(interval time.Duration) {
	go func() {
		defer close(m.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				for _, c := range m.caches {
					c.CleanExpired()
				}
			case <-m.stop:
				return
			}
		}
	}()
}

// Stop halts the sweep and waits for it to finish.
func (m *Manager) Stop() {
	close(m.stop)
	<-m.done
}
