// Package sysinfo samples host resource usage for status reporting.
package sysinfo

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
)

// Snapshot holds one sample of host resource usage.
type Snapshot struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	DiskPercent   float64 `json:"disk_percent"`
}

// sampleInterval is the window the CPU sample is averaged over.
const sampleInterval = time.Second

// Collect samples CPU, memory and root-disk usage. The CPU sample blocks
// for the sample interval.
func Collect(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	cpuPercents, err := cpu.PercentWithContext(ctx, sampleInterval, false)
	if err != nil {
		return Snapshot{}, fmt.Errorf("cpu sample: %w", err)
	}
	if len(cpuPercents) > 0 {
		snap.CPUPercent = cpuPercents[0]
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("memory sample: %w", err)
	}
	snap.MemoryPercent = vm.UsedPercent

	du, err := disk.UsageWithContext(ctx, rootPath())
	if err != nil {
		return Snapshot{}, fmt.Errorf("disk sample: %w", err)
	}
	snap.DiskPercent = du.UsedPercent

	return snap, nil
}

func rootPath() string {
	if runtime.GOOS == "windows" {
		return `C:\`
	}
	return "/"
}
