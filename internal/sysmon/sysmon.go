// Package sysmon samples system-wide and per-process resource usage for the
// dashboard footer.
package sysmon

import (
	"context"
	"os"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// Stats holds a single snapshot of resource usage.
type Stats struct {
	CPUPercent float64 // system-wide, 0.0 .. 100.0
	MemPercent float64 // system-wide, 0.0 .. 100.0
	ProcRSS    uint64  // resident set size of this process, in bytes
}

// Sample collects a snapshot without a deadline.
func Sample() Stats {
	return SampleContext(context.Background())
}

// SampleContext collects a snapshot. CPU usage is the delta since the
// previous call. Fields that cannot be read are left at zero.
func SampleContext(ctx context.Context) Stats {
	var s Stats
	if pcts, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pcts) > 0 {
		s.CPUPercent = clampPercent(pcts[0])
	}
	if vmem, err := mem.VirtualMemoryWithContext(ctx); err == nil && vmem != nil {
		s.MemPercent = clampPercent(vmem.UsedPercent)
	}
	if p, err := process.NewProcessWithContext(ctx, int32(os.Getpid())); err == nil {
		if info, err := p.MemoryInfoWithContext(ctx); err == nil && info != nil {
			s.ProcRSS = info.RSS
		}
	}
	return s
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
