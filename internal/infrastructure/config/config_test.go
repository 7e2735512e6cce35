package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/davarch/jenkins-watcher/internal/domain"
)

func TestLoad_FromYAMLAndEnvOverride(t *testing.T) {
	tmp := t.TempDir()
	cfgFile := filepath.Join(tmp, "config.yaml")

	yaml := `
jenkins:
  base_url: https://ci.example.com
  username: bob
  api_token: token-yaml

poll:
  refresh_period_minutes: 10

jobs:
  - name: core
    enabled: true
`
	if err := os.WriteFile(cfgFile, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	os.Setenv("JENKINS_API_TOKEN", "token-env")
	defer os.Unsetenv("JENKINS_API_TOKEN")

	c, err := Load(cfgFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Jenkins.APIToken != "token-env" {
		t.Errorf("env override failed, got %s", c.Jenkins.APIToken)
	}
	if c.Jenkins.Timeout != 10*time.Second {
		t.Errorf("default timeout expected, got %s", c.Jenkins.Timeout)
	}
	if c.Poll.RefreshPeriodMinutes != 10 {
		t.Errorf("refresh period not loaded, got %d", c.Poll.RefreshPeriodMinutes)
	}
	if len(c.Jobs) != 1 {
		t.Errorf("expected 1 job, got %d", len(c.Jobs))
	}
}

func TestLoad_MissingBaseURLRejected(t *testing.T) {
	os.Unsetenv("JENKINS_BASE_URL")
	if _, err := Load(""); err == nil {
		t.Errorf("expected error without base_url")
	}
}

func TestLoad_DisabledPeriodSurvives(t *testing.T) {
	tmp := t.TempDir()
	cfgFile := filepath.Join(tmp, "config.yaml")
	yaml := `
jenkins:
  base_url: https://ci.example.com
poll:
  refresh_period_minutes: 0
`
	if err := os.WriteFile(cfgFile, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(cfgFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Poll.RefreshPeriodMinutes != 0 {
		t.Errorf("explicit 0 means disabled, got %d", c.Poll.RefreshPeriodMinutes)
	}

	p := NewProvider(c)
	if p.RefreshPeriod() != 0 {
		t.Errorf("provider should report disabled, got %s", p.RefreshPeriod())
	}
}

func TestProvider_ShouldDisplayFollowsFlags(t *testing.T) {
	var c Config
	c.Notify.OnSuccess = false
	c.Notify.OnFailure = true
	p := NewProvider(c)

	if p.ShouldDisplay(domain.Build{Status: domain.StatusSuccess}) {
		t.Errorf("success should be filtered out")
	}
	if !p.ShouldDisplay(domain.Build{Status: domain.StatusFailure}) {
		t.Errorf("failure should pass the filter")
	}
	if !p.ShouldDisplay(domain.Build{Status: domain.StatusUnstable}) {
		t.Errorf("unstable follows the failure flag")
	}
}

func TestProvider_ShouldTrackAllowlist(t *testing.T) {
	var c Config
	p := NewProvider(c)
	if !p.ShouldTrack("anything") {
		t.Errorf("empty allowlist tracks everything")
	}

	c.Jobs = []Job{{Name: "core", Enabled: true}, {Name: "legacy", Enabled: false}}
	p.Swap(c)
	if !p.ShouldTrack("core") {
		t.Errorf("enabled job should be tracked")
	}
	if p.ShouldTrack("legacy") {
		t.Errorf("disabled job must not be tracked")
	}
	if p.ShouldTrack("unknown") {
		t.Errorf("unlisted job must not be tracked when an allowlist exists")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	tmp := t.TempDir()
	cfgFile := filepath.Join(tmp, "config.yaml")

	var c Config
	c.Jenkins.BaseURL = "https://ci.example.com"
	c.Jobs = []Job{{Name: "core", Enabled: true}}

	if err := Save(cfgFile, c); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := Load(cfgFile)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(got.Jobs) != 1 || got.Jobs[0].Name != "core" || !got.Jobs[0].Enabled {
		t.Errorf("jobs did not round-trip: %+v", got.Jobs)
	}
}
