package version

import (
	"encoding/json"
	"runtime"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	if info.Version != Version {
		t.Errorf("Version = %q, want %q", info.Version, Version)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
	if info.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		t.Errorf("unexpected platform %q", info.Platform)
	}
}

func TestInfo_ToJSON(t *testing.T) {
	info := Info{Version: "v1.2.0", GoVersion: "go1.25", Platform: "linux/amd64"}

	s, err := info.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}

	var decoded map[string]string
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["version"] != "v1.2.0" {
		t.Errorf("unexpected version %q", decoded["version"])
	}
	if _, ok := decoded["commit"]; ok {
		t.Error("expected empty commit to be omitted")
	}
}

func TestInfo_Text(t *testing.T) {
	info := Info{Version: "v1.2.0", Commit: "abc123", GoVersion: "go1.25", Platform: "linux/amd64"}

	text := info.Text()
	for _, want := range []string{"version: v1.2.0", "commit: abc123", "platform: linux/amd64"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in:\n%s", want, text)
		}
	}
	if strings.Contains(text, "buildDate") {
		t.Errorf("expected empty build date to be skipped:\n%s", text)
	}
}
