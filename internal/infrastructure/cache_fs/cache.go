package cache_fs

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/davarch/jenkins-watcher/internal/domain"
)

// FSCache writes the latest-known build table as JSON for status-bar
// consumers (waybar and the like).
type FSCache struct {
	path string
}

func New(path string) *FSCache { return &FSCache{path: path} }

func (c *FSCache) Write(_ context.Context, builds []domain.JobBuild) error {
	if c.path == "" {
		return errors.New("cache path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(c.path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	type entry struct {
		Job    string `json:"job"`
		Number int    `json:"number"`
		Status string `json:"status"`
		Time   int64  `json:"time"`
		URL    string `json:"url"`
	}

	type out struct {
		Retrieved int64   `json:"retrieved"`
		Builds    []entry `json:"builds"`
	}

	doc := out{Retrieved: time.Now().Unix(), Builds: make([]entry, 0, len(builds))}
	for _, jb := range builds {
		doc.Builds = append(doc.Builds, entry{
			Job:    jb.Job,
			Number: jb.Build.Number,
			Status: string(jb.Build.Status),
			Time:   jb.Build.Time.Unix(),
			URL:    jb.Build.URL,
		})
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")

	return enc.Encode(doc)
}
