package domain

import (
	"context"
	"sync"
	"time"
)

type MockFeed struct {
	mu        sync.Mutex
	Builds    map[string]Build
	Err       error
	Called    int
	Snapshots []map[string]Build
}

// LatestBuilds returns queued Snapshots one by one if any are set,
// otherwise the fixed Builds map.
func (m *MockFeed) LatestBuilds(ctx context.Context) (map[string]Build, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Called++
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Snapshots) > 0 {
		next := m.Snapshots[0]
		m.Snapshots = m.Snapshots[1:]
		return next, nil
	}
	return m.Builds, nil
}

// CallCount is safe to read while the feed is being polled concurrently.
func (m *MockFeed) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Called
}

type SinkNotification struct {
	Title    string
	Body     string
	Severity Severity
	URL      string
}

type SinkAlert struct {
	Text     string
	Severity Severity
	Expire   time.Duration
}

type MockSink struct {
	mu            sync.Mutex
	Notifications []SinkNotification
	Alerts        []SinkAlert
	Err           error
}

func (m *MockSink) Notify(ctx context.Context, title, body string, sev Severity, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notifications = append(m.Notifications, SinkNotification{Title: title, Body: body, Severity: sev, URL: url})
	return m.Err
}

func (m *MockSink) Alert(ctx context.Context, text string, sev Severity, expire time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Alerts = append(m.Alerts, SinkAlert{Text: text, Severity: sev, Expire: expire})
	return m.Err
}

func (m *MockSink) NotificationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Notifications)
}

type MockCache struct {
	mu     sync.Mutex
	Writes [][]JobBuild
	Err    error
}

func (m *MockCache) Write(ctx context.Context, builds []JobBuild) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes = append(m.Writes, builds)
	return nil
}

type MockSettings struct {
	Period  time.Duration
	Display func(Build) bool
	Track   func(string) bool
}

func (m *MockSettings) RefreshPeriod() time.Duration { return m.Period }

func (m *MockSettings) ShouldDisplay(b Build) bool {
	if m.Display == nil {
		return true
	}
	return m.Display(b)
}

func (m *MockSettings) ShouldTrack(job string) bool {
	if m.Track == nil {
		return true
	}
	return m.Track(job)
}
