package api

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
)

// ProcessMetrics сведения о процессе сервера
type ProcessMetrics struct {
	StartTime time.Time
	proc      *process.Process
}

// ProcessSnapshot снимок для /api/stats
type ProcessSnapshot struct {
	Uptime     string  `json:"uptime"`
	MemoryMB   float64 `json:"memory_mb"`
	HeapSysMB  float64 `json:"heap_sys_mb"`
	NumGC      uint32  `json:"num_gc"`
	Goroutines int     `json:"goroutines"`
	CPUPercent float64 `json:"cpu_percent"`
	ServerTime int64   `json:"server_time"`
}

// NewProcessMetrics создаёт сборщик для текущего процесса
func NewProcessMetrics() *ProcessMetrics {
	pm := &ProcessMetrics{StartTime: time.Now()}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		pm.proc = proc
	}
	return pm
}

// Uptime время работы в виде "1д 2ч 3м 4с"
func (pm *ProcessMetrics) Uptime() string {
	return formatUptime(time.Since(pm.StartTime))
}

func formatUptime(uptime time.Duration) string {
	days := int(uptime.Hours()) / 24
	hours := int(uptime.Hours()) % 24
	minutes := int(uptime.Minutes()) % 60
	seconds := int(uptime.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dд %dч %dм %dс", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dч %dм %dс", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dм %dс", minutes, seconds)
	default:
		return fmt.Sprintf("%dс", seconds)
	}
}

// CPUPercent загрузка CPU процессом; при ошибке: общая загрузка системы
func (pm *ProcessMetrics) CPUPercent() (float64, error) {
	if pm.proc != nil {
		if pct, err := pm.proc.CPUPercent(); err == nil {
			return pct, nil
		}
	}
	// интервал 0: сравнение с предыдущим вызовом, без блокировки
	pcts, err := cpu.Percent(0, false)
	if err != nil || len(pcts) == 0 {
		return 0, err
	}
	return pcts[0], nil
}

// Snapshot собирает метрики процесса
func (pm *ProcessMetrics) Snapshot() ProcessSnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	cpuPct, _ := pm.CPUPercent()
	return ProcessSnapshot{
		Uptime:     pm.Uptime(),
		MemoryMB:   float64(m.Alloc) / 1024 / 1024,
		HeapSysMB:  float64(m.HeapSys) / 1024 / 1024,
		NumGC:      m.NumGC,
		Goroutines: runtime.NumGoroutine(),
		CPUPercent: cpuPct,
		ServerTime: time.Now().Unix(),
	}
}
