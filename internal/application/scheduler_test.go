package application

import (
	"context"
	"testing"
	"time"

	"github.com/davarch/jenkins-watcher/internal/domain"
	"go.uber.org/zap"
)

func newTestScheduler(feed domain.BuildFeedSource, sink domain.NotificationSink, settings domain.SettingsProvider) *Scheduler {
	p := NewPoller(zap.NewNop(), feed, settings, NewDispatcher(sink), nil)
	return NewScheduler(context.Background(), zap.NewNop(), p, settings)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}

func TestTriggerOnce_RunsImmediately(t *testing.T) {
	feed := &domain.MockFeed{Builds: map[string]domain.Build{}}
	s := newTestScheduler(feed, &domain.MockSink{}, &domain.MockSettings{})
	defer s.Shutdown()

	if !s.TriggerOnce(false) {
		t.Fatalf("submission should be accepted")
	}
	if !waitFor(t, time.Second, func() bool { return feed.CallCount() == 1 }) {
		t.Errorf("expected 1 fetch, got %d", feed.CallCount())
	}
}

func TestConfigure_DisabledPeriodNeverTicks(t *testing.T) {
	feed := &domain.MockFeed{Builds: map[string]domain.Build{}}
	s := newTestScheduler(feed, &domain.MockSink{}, &domain.MockSettings{})
	defer s.Shutdown()

	s.Configure(0)
	s.Configure(-5 * time.Minute)

	time.Sleep(30 * time.Millisecond)
	if feed.CallCount() != 0 {
		t.Errorf("disabled schedule must not poll, got %d fetches", feed.CallCount())
	}
}

func TestConfigure_RecurringTicks(t *testing.T) {
	feed := &domain.MockFeed{Builds: map[string]domain.Build{}}
	s := newTestScheduler(feed, &domain.MockSink{}, &domain.MockSettings{})
	defer s.Shutdown()

	s.Configure(5 * time.Millisecond)
	if !waitFor(t, time.Second, func() bool { return feed.CallCount() >= 2 }) {
		t.Errorf("expected recurring fetches, got %d", feed.CallCount())
	}
}

func TestConfigure_ReplacingScheduleStopsOldOne(t *testing.T) {
	feed := &domain.MockFeed{Builds: map[string]domain.Build{}}
	s := newTestScheduler(feed, &domain.MockSink{}, &domain.MockSettings{})
	defer s.Shutdown()

	s.Configure(5 * time.Millisecond)
	waitFor(t, time.Second, func() bool { return feed.CallCount() >= 1 })

	s.Configure(0)
	settled := feed.CallCount()
	time.Sleep(40 * time.Millisecond)
	// One in-flight cycle may still land after the cancel.
	if feed.CallCount() > settled+1 {
		t.Errorf("disabled schedule kept ticking: %d -> %d", settled, feed.CallCount())
	}
}

func TestConfigure_SafeToReplaceRepeatedly(t *testing.T) {
	feed := &domain.MockFeed{Builds: map[string]domain.Build{}}
	s := newTestScheduler(feed, &domain.MockSink{}, &domain.MockSettings{})
	defer s.Shutdown()

	for i := 0; i < 5; i++ {
		s.Configure(time.Minute)
	}
	s.Configure(0)
	s.Configure(0)
}

func TestShutdown_Idempotent(t *testing.T) {
	feed := &domain.MockFeed{Builds: map[string]domain.Build{}}
	s := newTestScheduler(feed, &domain.MockSink{}, &domain.MockSettings{})

	s.Shutdown()
	s.Shutdown()

	if s.TriggerOnce(true) {
		t.Errorf("submissions after shutdown must be rejected")
	}
	s.Configure(time.Minute)
}

func TestInitScheduledJobs_UsesSettingsPeriod(t *testing.T) {
	feed := &domain.MockFeed{Builds: map[string]domain.Build{}}
	settings := &domain.MockSettings{Period: 5 * time.Millisecond}
	s := newTestScheduler(feed, &domain.MockSink{}, settings)
	defer s.Shutdown()

	s.Init()
	s.InitScheduledJobs()

	if !waitFor(t, time.Second, func() bool { return feed.CallCount() >= 3 }) {
		t.Errorf("expected prime plus recurring fetches, got %d", feed.CallCount())
	}
}

func TestRecurringAndManualShareThePool(t *testing.T) {
	feed := &domain.MockFeed{Snapshots: []map[string]domain.Build{
		{"core": {Number: 1, Status: domain.StatusSuccess, Time: time.Unix(100, 0)}},
		{"api": {Number: 2, Status: domain.StatusSuccess, Time: time.Unix(150, 0)}},
	}}
	sink := &domain.MockSink{}
	s := newTestScheduler(feed, sink, &domain.MockSettings{})

	s.Configure(5 * time.Millisecond)
	s.TriggerOnce(true)

	waitFor(t, time.Second, func() bool { return sink.NotificationCount() >= 2 })
	s.Shutdown()

	if sink.NotificationCount() != 2 {
		t.Errorf("both cycles' accepted builds should notify once each, got %d", sink.NotificationCount())
	}
}
