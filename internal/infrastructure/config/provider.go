package config

import (
	"sync"
	"time"

	"github.com/davarch/jenkins-watcher/internal/domain"
)

// Provider is the live settings view handed to the poller and scheduler.
// Swap replaces the whole configuration on reload; readers always see a
// consistent config.
type Provider struct {
	mu  sync.RWMutex
	cfg Config
}

func NewProvider(cfg Config) *Provider {
	return &Provider{cfg: cfg}
}

func (p *Provider) Swap(cfg Config) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg = cfg
}

func (p *Provider) Current() Config {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg
}

func (p *Provider) RefreshPeriod() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.cfg.Poll.RefreshPeriodMinutes <= 0 {
		return 0
	}
	return time.Duration(p.cfg.Poll.RefreshPeriodMinutes) * time.Minute
}

func (p *Provider) ShouldDisplay(b domain.Build) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	switch b.Status {
	case domain.StatusSuccess, domain.StatusStable:
		return p.cfg.Notify.OnSuccess
	case domain.StatusFailure, domain.StatusUnstable:
		return p.cfg.Notify.OnFailure
	case domain.StatusAborted:
		return p.cfg.Notify.OnAborted
	default:
		return p.cfg.Notify.OnOther
	}
}

func (p *Provider) ShouldTrack(job string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.cfg.Jobs) == 0 {
		return true
	}
	for _, j := range p.cfg.Jobs {
		if j.Name == job {
			return j.Enabled
		}
	}
	return false
}
