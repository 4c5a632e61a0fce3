package envdetect

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseOSRelease(t *testing.T) {
	cases := []struct {
		name        string
		content     string
		wantName    string
		wantVersion string
	}{
		{
			name: "ubuntu",
			content: `PRETTY_NAME="Ubuntu 22.04.3 LTS"
NAME="Ubuntu"
VERSION_ID="22.04"
VERSION="22.04.3 LTS (Jammy Jellyfish)"
ID=ubuntu`,
			wantName:    "Ubuntu 22.04.3 LTS",
			wantVersion: "22.04",
		},
		{
			name: "name fallback with version pattern",
			content: `NAME="Debian GNU/Linux"
VERSION="11 (bullseye)"
ID=debian`,
			wantName:    "Debian GNU/Linux",
			wantVersion: "11",
		},
		{
			name: "id fallback",
			content: `ID=alpine
VERSION_ID=3.18.4`,
			wantName:    "alpine",
			wantVersion: "3.18.4",
		},
		{
			name: "first occurrence wins",
			content: `PRETTY_NAME="First"
PRETTY_NAME="Second"
VERSION_ID="1.0"
VERSION_ID="2.0"`,
			wantName:    "First",
			wantVersion: "1.0",
		},
		{
			name:        "version without id key",
			content:     "NAME=CentOS\nVERSION=\"8.5.2111 (Core)\"",
			wantName:    "CentOS",
			wantVersion: "8.5.2111",
		},
		{
			name:        "garbage lines ignored",
			content:     "# a comment\nnot-a-kv-line\nNAME=Gentoo\n",
			wantName:    "Gentoo",
			wantVersion: "",
		},
		{
			name:        "empty",
			content:     "",
			wantName:    "",
			wantVersion: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			name, version := parseOSRelease(strings.NewReader(tc.content))
			if name != tc.wantName {
				t.Errorf("name = %q, want %q", name, tc.wantName)
			}
			if version != tc.wantVersion {
				t.Errorf("version = %q, want %q", version, tc.wantVersion)
			}
		})
	}
}

func TestLinuxOSInfoFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "os-release")
	content := `PRETTY_NAME="Ubuntu 22.04.3 LTS"
VERSION_ID="22.04"`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write os-release: %v", err)
	}

	info := linuxOSInfo(path)
	if info.Type != "linux" {
		t.Errorf("type = %q, want linux", info.Type)
	}
	if info.Name != "Ubuntu 22.04.3 LTS" {
		t.Errorf("name = %q", info.Name)
	}
	if info.Version != "22.04" {
		t.Errorf("version = %q", info.Version)
	}
}

func TestLinuxOSInfoMissingFile(t *testing.T) {
	info := linuxOSInfo(filepath.Join(t.TempDir(), "does-not-exist"))
	if info.Type != "linux" {
		t.Errorf("type = %q, want linux", info.Type)
	}
	if info.Name != "" || info.Version != "" {
		t.Errorf("name/version should be absent, got %q %q", info.Name, info.Version)
	}
}
