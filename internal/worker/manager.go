// Package worker runs the background loops: the offer expiry sweep and the
// RabbitMQ consumer when a broker is configured.
package worker

import (
	"context"
	"sync"

	"staffing-platform-backend/internal/logger"
)

// Worker defines the common contract for all background workers
type Worker interface {
	Start(ctx context.Context) error
	Stop()
	Name() string
}

// Manager manages the lifecycle of all background workers
type Manager struct {
	workers []Worker
	log     *logger.Logger
	mu      sync.RWMutex
}

// NewManager creates a new worker manager
func NewManager(log *logger.Logger) *Manager {
	return &Manager{
		workers: make([]Worker, 0),
		log:     log,
	}
}

// Register adds a worker to be managed
func (m *Manager) Register(w Worker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workers = append(m.workers, w)
}

// StartAll starts all registered workers
func (m *Manager) StartAll(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, w := range m.workers {
		if err := w.Start(ctx); err != nil {
			m.log.WithField("worker", w.Name()).WithError(err).Error("failed to start worker")
			return err
		}
		m.log.WithField("worker", w.Name()).Info("worker started")
	}
	return nil
}

// StopAll stops all registered workers in reverse order
func (m *Manager) StopAll() {
	m.mu.RLock()
	workers := make([]Worker, len(m.workers))
	copy(workers, m.workers)
	m.mu.RUnlock()

	for i := len(workers) - 1; i >= 0; i-- {
		w := workers[i]
		w.Stop()
		m.log.WithField("worker", w.Name()).Info("worker stopped")
	}
}

// Count returns the number of registered workers
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.workers)
}
