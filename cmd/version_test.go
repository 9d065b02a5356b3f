package cmd

import (
	"bytes"
	"runtime"
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	old := version
	version = "1.2.3"
	defer func() { version = old }()

	var out bytes.Buffer
	versionCmd.SetOut(&out)
	defer versionCmd.SetOut(nil)

	if err := Version(versionCmd, nil); err != nil {
		t.Fatalf("Version: %v", err)
	}
	got := out.String()
	if !strings.HasPrefix(got, "chyp8 1.2.3 (") {
		t.Errorf("version output = %q", got)
	}
	if !strings.Contains(got, runtime.GOOS+"/"+runtime.GOARCH) {
		t.Errorf("version output %q is missing the platform", got)
	}
}

func TestVersionRegistered(t *testing.T) {
	for _, c := range rootCmd.Commands() {
		if c.Name() == "version" {
			return
		}
	}
	t.Errorf("version command not registered on root")
}
