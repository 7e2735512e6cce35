package domain

import "time"

type BuildStatus string

const (
	StatusSuccess  BuildStatus = "success"
	StatusStable   BuildStatus = "stable"
	StatusFailure  BuildStatus = "failure"
	StatusUnstable BuildStatus = "unstable"
	StatusAborted  BuildStatus = "aborted"
	StatusUnknown  BuildStatus = "unknown"
)

// Build is the latest completed run of one job as reported by the feed.
// Immutable once constructed.
type Build struct {
	Number  int
	Status  BuildStatus
	Time    time.Time
	Message string
	URL     string
}

// After reports whether b is strictly newer than other. Build time is the
// primary key; when two builds share a timestamp the build number decides,
// so re-observing an identical build is never "after" itself.
func (b Build) After(other Build) bool {
	if !b.Time.Equal(other.Time) {
		return b.Time.After(other.Time)
	}
	return b.Number > other.Number
}

// JobBuild pairs a build with the job it belongs to, for ordered dispatch
// and cache output where the map key is not at hand.
type JobBuild struct {
	Job   string
	Build Build
}

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)
