package metrics

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// Collector samples host CPU, memory and disk utilization.
type Collector struct {
	diskPath  string
	cpuWindow time.Duration
}

func NewCollector(diskPath string) *Collector {
	if diskPath == "" {
		diskPath = "/"
	}
	return &Collector{
		diskPath:  diskPath,
		cpuWindow: time.Second,
	}
}

// Collect takes a point-in-time sample. The CPU reading blocks for the
// averaging window (1s). Connectivity is left for the caller to fill in.
func (c *Collector) Collect(ctx context.Context) (Sample, error) {
	var s Sample

	cpuPct, err := cpu.PercentWithContext(ctx, c.cpuWindow, false)
	if err != nil {
		return s, fmt.Errorf("cpu sample: %w", err)
	}
	if len(cpuPct) > 0 {
		s.CPUPercent = round2(cpuPct[0])
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return s, fmt.Errorf("memory sample: %w", err)
	}
	s.MemoryPercent = round2(vm.UsedPercent)

	du, err := disk.UsageWithContext(ctx, c.diskPath)
	if err != nil {
		return s, fmt.Errorf("disk sample: %w", err)
	}
	s.DiskPercent = round2(du.UsedPercent)

	return s, nil
}

// round2 rounds to two decimal places and pins the result to [0,100].
func round2(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return math.Round(v*100) / 100
}
