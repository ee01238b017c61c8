package hostinfo

import (
	"context"
	"log/slog"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// Info describes the machine the timings were collected on.
type Info struct {
	Hostname        string `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	OS              string `json:"os,omitempty" yaml:"os,omitempty"`
	Platform        string `json:"platform,omitempty" yaml:"platform,omitempty"`
	PlatformVersion string `json:"platform_version,omitempty" yaml:"platform_version,omitempty"`
	Arch            string `json:"arch,omitempty" yaml:"arch,omitempty"`
	CPUModel        string `json:"cpu_model,omitempty" yaml:"cpu_model,omitempty"`
	LogicalCores    int    `json:"logical_cores,omitempty" yaml:"logical_cores,omitempty"`
	TotalMemory     uint64 `json:"total_memory,omitempty" yaml:"total_memory,omitempty"`
}

// Collector fills part of Info.
type Collector interface {
	Name() string
	Collect(ctx context.Context, info *Info) error
}

type hostCollector struct{}

func (hostCollector) Name() string { return "host" }

func (hostCollector) Collect(ctx context.Context, info *Info) error {
	h, err := host.InfoWithContext(ctx)
	if err != nil {
		return err
	}
	info.Hostname = h.Hostname
	info.OS = h.OS
	info.Platform = h.Platform
	info.PlatformVersion = h.PlatformVersion
	info.Arch = h.KernelArch
	return nil
}

type cpuCollector struct{}

func (cpuCollector) Name() string { return "cpu" }

func (cpuCollector) Collect(ctx context.Context, info *Info) error {
	cores, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return err
	}
	info.LogicalCores = cores

	stats, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return err
	}
	if len(stats) > 0 {
		info.CPUModel = stats[0].ModelName
	}
	return nil
}

type memoryCollector struct{}

func (memoryCollector) Name() string { return "memory" }

func (memoryCollector) Collect(ctx context.Context, info *Info) error {
	v, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return err
	}
	info.TotalMemory = v.Total
	return nil
}

// DefaultCollectors returns the host, cpu and memory collectors.
func DefaultCollectors() []Collector {
	return []Collector{hostCollector{}, cpuCollector{}, memoryCollector{}}
}

// Collect runs every collector. Failures are logged and leave the
// corresponding fields empty.
func Collect(ctx context.Context, collectors []Collector, logger *slog.Logger) *Info {
	info := &Info{}
	for _, c := range collectors {
		if err := c.Collect(ctx, info); err != nil {
			logger.Warn("host info collection failed", "collector", c.Name(), "error", err)
		}
	}
	return info
}
