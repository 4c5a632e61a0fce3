package envdetect

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"runtime"
	"strings"
)

// OSInfo describes the host operating system. Empty fields were not
// detectable and are omitted from the outbound payload.
type OSInfo struct {
	Type    string
	Name    string
	Version string
}

const osReleasePath = "/etc/os-release"

var versionPattern = regexp.MustCompile(`\d+(\.\d+)*`)

// DetectOS classifies the host OS. It never fails: undetectable fields stay
// empty. The caller computes this once and treats the result as immutable.
func DetectOS() OSInfo {
	switch runtime.GOOS {
	case "linux":
		return linuxOSInfo(osReleasePath)
	case "windows":
		return windowsOSInfo()
	default:
		return OSInfo{}
	}
}

func linuxOSInfo(path string) OSInfo {
	info := OSInfo{Type: "linux"}
	f, err := os.Open(path)
	if err != nil {
		return info
	}
	defer f.Close()

	info.Name, info.Version = parseOSRelease(f)
	return info
}

// parseOSRelease extracts a display name and version from os-release
// key=value content. Name precedence: PRETTY_NAME, then NAME, then ID.
// Version comes from VERSION_ID, else the first decimal number in VERSION.
// For repeated keys the first occurrence wins.
func parseOSRelease(r io.Reader) (name, version string) {
	fields := map[string]string{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"`)
		if value == "" {
			continue
		}
		if _, seen := fields[key]; !seen {
			fields[key] = value
		}
	}

	for _, key := range []string{"PRETTY_NAME", "NAME", "ID"} {
		if fields[key] != "" {
			name = fields[key]
			break
		}
	}

	if fields["VERSION_ID"] != "" {
		version = fields["VERSION_ID"]
	} else if fields["VERSION"] != "" {
		version = versionPattern.FindString(fields["VERSION"])
	}

	return name, version
}
