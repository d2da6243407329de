package node

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// LoadInfo 节点负载, 用于 /health 与 etcd 注册权重
type LoadInfo struct {
	CPUUsage float64 `json:"cpuUsage"` // 0-100
	MemUsage float64 `json:"memUsage"` // 0-100
	InFlight int64   `json:"inFlight"` // 正在判定的请求数
}

// CalculateLoad 综合负载评分, 越小越空闲
// 权重: CPU 50%, 内存 20%, 请求数 30%
func (li *LoadInfo) CalculateLoad() float64 {
	normalized := float64(li.InFlight) / 100.0
	if normalized > 1.0 {
		normalized = 1.0
	}
	return li.CPUUsage*0.5 + li.MemUsage*0.2 + normalized*100*0.3
}

// LoadMonitor 记录进行中的请求并采样系统负载
type LoadMonitor struct {
	inFlight atomic.Int64
}

func (m *LoadMonitor) Begin() { m.inFlight.Add(1) }

func (m *LoadMonitor) End() { m.inFlight.Add(-1) }

// Collect 采样 CPU 与内存; 采样失败的项保持为 0
func (m *LoadMonitor) Collect(ctx context.Context) LoadInfo {
	info := LoadInfo{InFlight: m.inFlight.Load()}
	if percents, err := cpu.PercentWithContext(ctx, 200*time.Millisecond, false); err == nil && len(percents) > 0 {
		info.CPUUsage = percents[0]
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		info.MemUsage = vm.UsedPercent
	}
	return info
}
