//go:build windows

package envdetect

import (
	"github.com/shirou/gopsutil/v3/host"
	"golang.org/x/sys/windows/registry"
)

func windowsOSInfo() OSInfo {
	info := OSInfo{Type: "windows"}
	if hi, err := host.Info(); err == nil {
		info.Name = hi.Platform
		info.Version = hi.PlatformVersion
	}
	// Registry ProductName is friendlier than the platform string when the
	// key is readable; failure is ignored.
	if name := registryProductName(); name != "" {
		info.Name = name
	}
	return info
}

func registryProductName() string {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, `SOFTWARE\Microsoft\Windows NT\CurrentVersion`, registry.QUERY_VALUE)
	if err != nil {
		return ""
	}
	defer k.Close()

	name, _, err := k.GetStringValue("ProductName")
	if err != nil {
		return ""
	}
	return name
}
