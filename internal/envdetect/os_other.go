//go:build !windows

package envdetect

func windowsOSInfo() OSInfo {
	return OSInfo{Type: "windows"}
}
