package application

import (
	"context"
	"fmt"
	"time"

	"github.com/davarch/jenkins-watcher/internal/domain"
)

const (
	notificationTitle  = "Jenkins"
	failureAlertExpire = time.Second
)

// Dispatcher turns an ordered run of changed builds into sink calls:
// one notification per build, plus a single escalated alert for the
// first failure of the cycle.
type Dispatcher struct {
	sink domain.NotificationSink
}

func NewDispatcher(sink domain.NotificationSink) *Dispatcher {
	return &Dispatcher{sink: sink}
}

// Dispatch notifies every build in order, then raises at most one escalated
// alert naming the first FAILURE in the sequence. Sink errors are ignored;
// delivery is fire-and-forget.
func (d *Dispatcher) Dispatch(ctx context.Context, ordered []domain.JobBuild) {
	for _, jb := range ordered {
		_ = d.sink.Notify(ctx, notificationTitle, FormatMessage(jb.Build), SeverityFor(jb.Build.Status), jb.Build.URL)
	}

	if jb, ok := firstFailure(ordered); ok {
		text := fmt.Sprintf("%s#%d: FAILED", jb.Job, jb.Build.Number)
		_ = d.sink.Alert(ctx, text, domain.SeverityError, failureAlertExpire)
	}
}

func firstFailure(ordered []domain.JobBuild) (domain.JobBuild, bool) {
	for _, jb := range ordered {
		if jb.Build.Status == domain.StatusFailure {
			return jb, true
		}
	}
	return domain.JobBuild{}, false
}

// SeverityFor maps a build status to a notification severity.
func SeverityFor(s domain.BuildStatus) domain.Severity {
	switch s {
	case domain.StatusSuccess, domain.StatusStable:
		return domain.SeverityInfo
	case domain.StatusFailure, domain.StatusUnstable:
		return domain.SeverityError
	default:
		return domain.SeverityWarning
	}
}

// FormatMessage renders the notification body for a build. Anything that is
// not a success gets a link to the build page; successes are plain text.
func FormatMessage(b domain.Build) string {
	if b.Status != domain.StatusSuccess && b.Status != domain.StatusStable {
		return fmt.Sprintf("<a href='%s'>%s</a>", b.URL, b.Message)
	}
	return b.Message
}
