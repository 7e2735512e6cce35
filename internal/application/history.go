package application

import (
	"sort"

	"github.com/davarch/jenkins-watcher/internal/domain"
)

// History keeps the single latest known build per job. It is the only
// mutable state of the watcher and is not synchronized; callers must
// serialize MergeNew invocations (the Poller holds a mutex around them).
type History struct {
	builds map[string]domain.Build
}

func NewHistory() *History {
	return &History{builds: make(map[string]domain.Build)}
}

// MergeNew compares a freshly fetched snapshot against the stored table and
// returns the accepted subset: entries whose job was unknown or whose build
// is strictly newer than the stored one, and which pass the visibility
// filter. Accepted entries overwrite the stored table as they are found.
// Replaying the same snapshot twice yields an empty result the second time.
func (h *History) MergeNew(snapshot map[string]domain.Build, visible func(domain.Build) bool) map[string]domain.Build {
	fresh := make(map[string]domain.Build)
	for job, nb := range snapshot {
		if !visible(nb) {
			continue
		}
		cur, known := h.builds[job]
		if known && !nb.After(cur) {
			continue
		}
		h.builds[job] = nb
		fresh[job] = nb
	}
	return fresh
}

// Latest returns the stored table as a slice sorted by job name.
func (h *History) Latest() []domain.JobBuild {
	out := make([]domain.JobBuild, 0, len(h.builds))
	for job, b := range h.builds {
		out = append(out, domain.JobBuild{Job: job, Build: b})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Job < out[j].Job })
	return out
}

func (h *History) Len() int { return len(h.builds) }
