package domain

import (
	"context"
	"time"
)

// BuildFeedSource returns the latest completed build per tracked job.
// A fetch or decode failure rejects the whole snapshot.
type BuildFeedSource interface {
	LatestBuilds(ctx context.Context) (map[string]Build, error)
}

// NotificationSink receives user-facing notifications. Calls are
// fire-and-forget; implementations must not block on acknowledgment.
type NotificationSink interface {
	Notify(ctx context.Context, title, body string, sev Severity, url string) error
	// Alert raises a high-visibility message that auto-dismisses after expire.
	Alert(ctx context.Context, text string, sev Severity, expire time.Duration) error
}

// SettingsProvider exposes the user configuration consulted on every poll
// cycle, so a config reload takes effect without restarting tasks.
type SettingsProvider interface {
	// RefreshPeriod returns the recurring poll period; zero or negative
	// means the recurring schedule is disabled.
	RefreshPeriod() time.Duration
	// ShouldDisplay is the visibility filter applied before a build change
	// is recorded and notified.
	ShouldDisplay(b Build) bool
	// ShouldTrack reports whether a job from the feed is watched at all.
	ShouldTrack(job string) bool
}

// StatusCache persists the latest known build table for external consumers.
type StatusCache interface {
	Write(ctx context.Context, builds []JobBuild) error
}
