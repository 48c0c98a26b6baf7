package worker_test

import (
	"context"
	"errors"
	"testing"

	"staffing-platform-backend/internal/logger"
	"staffing-platform-backend/internal/worker"

	"github.com/stretchr/testify/assert"
)

type fakeWorker struct {
	name     string
	startErr error
	started  bool
	stops    *[]string
}

func (w *fakeWorker) Start(ctx context.Context) error {
	if w.startErr != nil {
		return w.startErr
	}
	w.started = true
	return nil
}

func (w *fakeWorker) Stop() {
	*w.stops = append(*w.stops, w.name)
}

func (w *fakeWorker) Name() string { return w.name }

func TestManager_StartAllAndStopAllInReverse(t *testing.T) {
	manager := worker.NewManager(logger.New())
	var stops []string
	first := &fakeWorker{name: "sweeper", stops: &stops}
	second := &fakeWorker{name: "consumer", stops: &stops}
	manager.Register(first)
	manager.Register(second)

	assert.Equal(t, 2, manager.Count())
	assert.NoError(t, manager.StartAll(context.Background()))
	assert.True(t, first.started)
	assert.True(t, second.started)

	manager.StopAll()
	assert.Equal(t, []string{"consumer", "sweeper"}, stops)
}

func TestManager_StartAllStopsOnFirstFailure(t *testing.T) {
	manager := worker.NewManager(logger.New())
	var stops []string
	failing := &fakeWorker{name: "broken", startErr: errors.New("no broker"), stops: &stops}
	after := &fakeWorker{name: "sweeper", stops: &stops}
	manager.Register(failing)
	manager.Register(after)

	err := manager.StartAll(context.Background())

	assert.Error(t, err)
	assert.False(t, after.started)
}
