package version

import "testing"

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if BuildTime == "" || GitCommit == "" {
		t.Error("build info should be initialized")
	}
}

func TestUserAgent(t *testing.T) {
	if got := UserAgent(); got != "recipefeed/"+Version {
		t.Errorf("unexpected user agent %q", got)
	}
}
