package system

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

const tickEWMAAlpha = 0.05

// Stats is one sample of process and tick-loop health.
type Stats struct {
	Uptime     float64 `json:"uptime"`
	Ticks      uint64  `json:"ticks"`
	TickMeanMS float64 `json:"tickMeanMs"`
	TickMaxMS  float64 `json:"tickMaxMs"`
	TickRate   float64 `json:"tickRate"`
	CPUPercent float64 `json:"cpuPercent"`
	RSSBytes   uint64  `json:"rssBytes"`
	Goroutines int     `json:"goroutines"`
}

// Monitor aggregates engine tick durations and samples process usage on
// demand. Tick observations come from the engine loop; Stats may be called
// from any goroutine.
type Monitor struct {
	proc  *process.Process
	start time.Time

	mu      sync.Mutex
	ticks   uint64
	ewma    float64
	maxTick float64
}

func NewMonitor() *Monitor {
	m := &Monitor{start: time.Now()}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		m.proc = proc
	}
	return m
}

// ObserveTick feeds one tick duration into the running aggregate.
func (m *Monitor) ObserveTick(d time.Duration) {
	sec := d.Seconds()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ticks++
	if m.ticks == 1 {
		m.ewma = sec
	} else {
		m.ewma += (sec - m.ewma) * tickEWMAAlpha
	}
	if sec > m.maxTick {
		m.maxTick = sec
	}
}

func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	s := Stats{
		Uptime:     time.Since(m.start).Seconds(),
		Ticks:      m.ticks,
		TickMeanMS: m.ewma * 1000,
		TickMaxMS:  m.maxTick * 1000,
		Goroutines: runtime.NumGoroutine(),
	}
	m.mu.Unlock()

	if s.Uptime > 0 {
		s.TickRate = float64(s.Ticks) / s.Uptime
	}
	if m.proc != nil {
		if cpu, err := m.proc.CPUPercent(); err == nil {
			s.CPUPercent = cpu
		}
		if mem, err := m.proc.MemoryInfo(); err == nil && mem != nil {
			s.RSSBytes = mem.RSS
		}
	}
	return s
}

// Report prints the shutdown performance summary.
func (m *Monitor) Report() {
	s := m.Stats()
	fmt.Printf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Uptime: %.2fs\n"+
			"Ticks: %d\n"+
			"Tick Mean: %.2fms\n"+
			"Tick Max: %.2fms\n"+
			"Effective Rate: %.2f/s\n"+
			"CPU: %.1f%%\n"+
			"RSS: %.1f MB\n"+
			"----------------------------\n",
		s.Uptime, s.Ticks, s.TickMeanMS, s.TickMaxMS, s.TickRate,
		s.CPUPercent, float64(s.RSSBytes)/(1024*1024),
	)
}
