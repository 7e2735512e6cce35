package notify_libnotify

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/davarch/jenkins-watcher/internal/domain"
)

// Notifier delivers notifications through notify-send. In soft mode a
// missing or failing notify-send is swallowed, so a headless run never
// breaks the poll loop.
type Notifier struct {
	soft bool
}

func New() *Notifier     { return &Notifier{soft: false} }
func NewSoft() *Notifier { return &Notifier{soft: true} }

func (n *Notifier) Notify(ctx context.Context, title, body string, sev domain.Severity, url string) error {
	if strings.TrimSpace(url) != "" && !strings.Contains(body, url) {
		if body == "" {
			body = url
		} else {
			body = body + "\n" + url
		}
	}

	args := []string{
		"--app-name=jenkins-watcher",
		"--urgency=" + urgencyFor(sev),
		title, body,
	}

	return n.send(ctx, args)
}

// Alert raises a high-visibility message that disappears on its own after
// expire. Used for the per-cycle failure escalation.
func (n *Notifier) Alert(ctx context.Context, text string, sev domain.Severity, expire time.Duration) error {
	args := []string{
		"--app-name=jenkins-watcher",
		"--urgency=" + urgencyFor(sev),
	}
	if expire > 0 {
		ms := strconv.Itoa(int(expire / time.Millisecond))
		args = append(args, "--expire-time="+ms)
	}
	args = append(args, text)

	return n.send(ctx, args)
}

func (n *Notifier) send(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, "notify-send", args...)
	if err := cmd.Run(); err != nil {
		if n.soft {
			return nil
		}
		return err
	}
	return nil
}

func urgencyFor(sev domain.Severity) string {
	switch sev {
	case domain.SeverityError:
		return "critical"
	case domain.SeverityWarning:
		return "normal"
	default:
		return "low"
	}
}
