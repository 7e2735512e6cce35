package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"
)

type Job struct {
	Name    string `yaml:"name"`
	Enabled bool   `yaml:"enabled"`
}

type Config struct {
	Jenkins struct {
		BaseURL  string        `yaml:"base_url"`
		Username string        `yaml:"username"`
		APIToken string        `yaml:"api_token"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"jenkins"`

	Poll struct {
		// RefreshPeriodMinutes <= 0 disables the recurring schedule.
		RefreshPeriodMinutes int    `yaml:"refresh_period_minutes"`
		RefreshFile          string `yaml:"refresh_file"`
	} `yaml:"poll"`

	Notify struct {
		OnSuccess bool `yaml:"on_success"`
		OnFailure bool `yaml:"on_failure"`
		OnAborted bool `yaml:"on_aborted"`
		OnOther   bool `yaml:"on_other"`
	} `yaml:"notify"`

	// Jobs is an allowlist; empty means every job from the feed is tracked.
	Jobs []Job `yaml:"jobs,omitempty"`

	Cache struct {
		Path string `yaml:"path"`
	} `yaml:"cache"`

	Log struct {
		Dir string `yaml:"dir"`
	} `yaml:"log"`
}

func Load(path string) (Config, error) {
	var c Config

	c.Jenkins.Timeout = 10 * time.Second
	c.Poll.RefreshPeriodMinutes = 5
	c.Poll.RefreshFile = expandHome("~/.cache/jenkins_refresh")
	c.Notify.OnSuccess = true
	c.Notify.OnFailure = true
	c.Notify.OnAborted = true
	c.Notify.OnOther = true
	c.Cache.Path = expandHome("~/.cache/jenkins_builds.json")

	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(b, &c)
		}
	}

	if v := os.Getenv("JENKINS_BASE_URL"); v != "" {
		c.Jenkins.BaseURL = v
	}

	if v := os.Getenv("JENKINS_USERNAME"); v != "" {
		c.Jenkins.Username = v
	}

	if v := os.Getenv("JENKINS_API_TOKEN"); v != "" {
		c.Jenkins.APIToken = v
	}

	if v := os.Getenv("JENKINS_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Jenkins.Timeout = d
		}
	}

	if v := os.Getenv("REFRESH_PERIOD_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Poll.RefreshPeriodMinutes = n
		}
	}

	if v := os.Getenv("CACHE_PATH"); v != "" {
		c.Cache.Path = expandHome(v)
	}

	if s := os.Getenv("JENKINS_JOBS"); s != "" {
		var js []Job
		for _, item := range strings.Split(s, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			js = append(js, Job{Name: item, Enabled: true})
		}
		if len(js) > 0 {
			c.Jobs = js
		}
	}

	c.Cache.Path = expandHome(c.Cache.Path)
	c.Poll.RefreshFile = expandHome(c.Poll.RefreshFile)
	c.Log.Dir = expandHome(c.Log.Dir)

	if c.Jenkins.Timeout <= 0 {
		c.Jenkins.Timeout = 10 * time.Second
	}

	if c.Jenkins.BaseURL == "" {
		return c, errors.New("jenkins base_url is required (YAML or JENKINS_BASE_URL)")
	}

	return c, nil
}

func Save(path string, c Config) error {
	if path == "" {
		return errors.New("empty config path")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	lockFile := path + ".lock"
	lf, err := os.OpenFile(lockFile, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return err
	}
	defer func() { _ = lf.Close() }()

	if runtime.GOOS != "windows" {
		if err := syscall.Flock(int(lf.Fd()), syscall.LOCK_EX); err != nil {
			return err
		}
		defer func() { _ = syscall.Flock(int(lf.Fd()), syscall.LOCK_UN) }()
	}

	b, err := yaml.Marshal(&c)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	defer func() { _ = f.Close() }()

	if _, err := f.Write(b); err != nil {
		return err
	}

	if err := f.Sync(); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		if h, _ := os.UserHomeDir(); h != "" {
			return h + p[1:]
		}
	}
	return p
}
