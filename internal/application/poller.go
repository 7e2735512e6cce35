package application

import (
	"context"
	"sort"
	"sync"

	"github.com/davarch/jenkins-watcher/internal/domain"
	"go.uber.org/zap"
)

// Poller is the unit of work executed per scheduler tick or manual refresh:
// fetch the latest builds, merge them into history, and dispatch
// notifications for whatever came out new.
type Poller struct {
	log      *zap.Logger
	feed     domain.BuildFeedSource
	settings domain.SettingsProvider
	disp     *Dispatcher
	cache    domain.StatusCache

	mu      sync.Mutex
	history *History
}

func NewPoller(log *zap.Logger, feed domain.BuildFeedSource, settings domain.SettingsProvider, disp *Dispatcher, cache domain.StatusCache) *Poller {
	return &Poller{
		log:      log,
		feed:     feed,
		settings: settings,
		disp:     disp,
		cache:    cache,
		history:  NewHistory(),
	}
}

// Run performs one poll cycle. With display false the cycle only updates
// history (baseline priming); nothing is notified. A fetch failure leaves
// history untouched and is only logged: the next tick retries.
//
// The fetch runs outside the history lock; only the merge and the cache
// snapshot are serialized, so concurrent recurring and manual cycles never
// lose an accepted entry.
func (p *Poller) Run(ctx context.Context, display bool) {
	snapshot, err := p.feed.LatestBuilds(ctx)
	if err != nil {
		p.log.Warn("fetch latest builds failed", zap.Error(err))
		return
	}

	tracked := make(map[string]domain.Build, len(snapshot))
	for job, b := range snapshot {
		if p.settings.ShouldTrack(job) {
			tracked[job] = b
		}
	}

	p.mu.Lock()
	fresh := p.history.MergeNew(tracked, p.settings.ShouldDisplay)
	latest := p.history.Latest()
	p.mu.Unlock()

	if len(fresh) > 0 && p.cache != nil {
		if err := p.cache.Write(ctx, latest); err != nil {
			p.log.Warn("status cache write failed", zap.Error(err))
		}
	}

	if !display || len(fresh) == 0 {
		return
	}

	p.log.Info("new builds", zap.Int("count", len(fresh)))
	p.disp.Dispatch(ctx, orderByTime(fresh))
}

// orderByTime flattens a delta map into a slice sorted ascending by build
// time (oldest change first), build number and job name as tie-breaks so
// the notification sequence is deterministic.
func orderByTime(fresh map[string]domain.Build) []domain.JobBuild {
	out := make([]domain.JobBuild, 0, len(fresh))
	for job, b := range fresh {
		out = append(out, domain.JobBuild{Job: job, Build: b})
	}
	sort.Slice(out, func(i, j int) bool {
		bi, bj := out[i].Build, out[j].Build
		if !bi.Time.Equal(bj.Time) {
			return bi.Time.Before(bj.Time)
		}
		if bi.Number != bj.Number {
			return bi.Number < bj.Number
		}
		return out[i].Job < out[j].Job
	})
	return out
}
