package version

import (
	"strings"
	"testing"
)

func saveAndRestore() func() {
	origVersion, origCommit, origBuildTime := Version, GitCommit, BuildTime
	return func() {
		Version = origVersion
		GitCommit = origCommit
		BuildTime = origBuildTime
	}
}

func TestGetVersionInfoDefaults(t *testing.T) {
	defer saveAndRestore()()
	Version = "dev"
	GitCommit = ""

	info := GetVersionInfo()
	if info.Version != "dev" {
		t.Errorf("expected version 'dev', got %q", info.Version)
	}
	if info.IsRelease {
		t.Error("dev should not be a release")
	}
}

func TestGetVersionInfoRelease(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.2.0"
	GitCommit = "abcdef0123456"
	BuildTime = "2026-01-15T10:30:00Z"

	info := GetVersionInfo()
	if !info.IsRelease {
		t.Error("expected release")
	}
	if info.GitCommit != "abcdef0" {
		t.Errorf("expected commit truncated to 7 chars, got %q", info.GitCommit)
	}
	if info.BuildTime != BuildTime {
		t.Errorf("expected build time %q, got %q", BuildTime, info.BuildTime)
	}
}

func TestGetShortVersion(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.2.0"
	GitCommit = "abc1234"

	got := GetShortVersion()
	if !strings.HasPrefix(got, "1.2.0-abc1234") {
		t.Errorf("unexpected short version %q", got)
	}
}

func TestUserAgent(t *testing.T) {
	defer saveAndRestore()()
	Version = "3.4.5"
	if got := UserAgent(); got != "tcclient/3.4.5" {
		t.Errorf("UserAgent() = %q", got)
	}
}
