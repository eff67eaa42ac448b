package sync

import (
	"context"
	"testing"
	"time"

	"github.com/ilies38/Cityreport2/internal/loggy"
)

func TestSchedulerStartStop(t *testing.T) {
	svc := newTestService(newFakeStore(), newFakeGateway(), &memoryLogs{})
	sched := NewScheduler(svc, time.Hour, 3, loggy.NewNoopLogger())

	sched.Start(context.Background())
	// Second Start is a no-op
	sched.Start(context.Background())

	sched.Stop()
	// Stop after Stop must not block or panic
	sched.Stop()
}
