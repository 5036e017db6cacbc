// 包 health：外部依赖（数据库、缓存、明细服务）的心跳与健康状态
package health

import (
	"context"
	"sort"
	"sync"
	"time"

	"agri-map/internal/logger"
	"agri-map/internal/metrics"
)

// Probe 单个依赖的健康检查
type Probe interface {
	Name() string
	Check(ctx context.Context) error
}

// ProbeFunc 函数适配器
type ProbeFunc struct {
	N string
	F func(ctx context.Context) error
}

func (p ProbeFunc) Name() string                    { return p.N }
func (p ProbeFunc) Check(ctx context.Context) error { return p.F(ctx) }

// Status 依赖的最近一次心跳结果
type Status struct {
	Name    string    `json:"name"`
	Healthy bool      `json:"healthy"`
	Last    time.Time `json:"last"`
	Err     string    `json:"err,omitempty"`
}

// 文档注释：依赖监视器
// 背景：负责探针注册与周期心跳；/healthz 据此汇报依赖健康状态。
// 约束：注册时默认健康；心跳异常即标记不健康，不做熔断；探针在锁外执行，单次心跳受 Timeout 限制。
type Monitor struct {
	mu       sync.RWMutex
	probes   map[string]Probe
	st       map[string]Status
	Interval time.Duration
	Timeout  time.Duration
}

// NewMonitor 构造监视器；interval<=0 时取 10s
func NewMonitor(interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Monitor{probes: map[string]Probe{}, st: map[string]Status{}, Interval: interval, Timeout: 3 * time.Second}
}

// Register 注册探针
func (m *Monitor) Register(p Probe) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probes[p.Name()] = p
	m.st[p.Name()] = Status{Name: p.Name(), Healthy: true, Last: time.Now()}
	logger.L().Info("dependency_registered", "name", p.Name())
}

// Start 启动心跳循环；ctx 取消后退出
func (m *Monitor) Start(ctx context.Context) {
	t := time.NewTicker(m.Interval)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				m.CheckNow(ctx)
			}
		}
	}()
}

// CheckNow 立即对全部探针执行一次心跳
func (m *Monitor) CheckNow(ctx context.Context) {
	m.mu.RLock()
	probes := make([]Probe, 0, len(m.probes))
	for _, p := range m.probes {
		probes = append(probes, p)
	}
	m.mu.RUnlock()
	for _, p := range probes {
		cctx, cancel := context.WithTimeout(ctx, m.Timeout)
		err := p.Check(cctx)
		cancel()
		s := Status{Name: p.Name(), Healthy: err == nil, Last: time.Now()}
		if err != nil {
			s.Err = err.Error()
			logger.L().Debug("dependency_heartbeat_fail", "name", p.Name(), "err", err)
			metrics.DependencyHeartbeatTotal.WithLabelValues(p.Name(), "fail").Inc()
		} else {
			metrics.DependencyHeartbeatTotal.WithLabelValues(p.Name(), "ok").Inc()
		}
		m.mu.Lock()
		m.st[p.Name()] = s
		m.mu.Unlock()
	}
}

// Snapshot 按名称排序返回全部状态
func (m *Monitor) Snapshot() []Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Status, 0, len(m.st))
	for _, s := range m.st {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Healthy 全部依赖健康时为 true；无依赖时为 true
func (m *Monitor) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.st {
		if !s.Healthy {
			return false
		}
	}
	return true
}
