package health

import (
	"context"
	"encoding/json"
	"runtime"
	"strconv"
	"time"

	"akaguriroo-backend/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// Pinger is any dependency that can report reachability (sql.DB via PingContext, storage).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// Report is the body of GET /health/json.
type Report struct {
	Service      string               `json:"service"`
	Status       string               `json:"status"`
	Runtime      RuntimeInfo          `json:"runtime"`
	Traffic      TrafficInfo          `json:"traffic"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

type RuntimeInfo struct {
	UptimeSeconds int64      `json:"uptimeSeconds"`
	Memory        MemoryInfo `json:"memory"`
	Goroutines    int        `json:"goroutines"`
	Platform      string     `json:"platform"`
	GoVersion     string     `json:"goVersion"`
}

// MemoryInfo is in MiB.
type MemoryInfo struct {
	Alloc    int `json:"alloc"`
	HeapUsed int `json:"heapUsed"`
}

type TrafficInfo struct {
	TotalRequests   int         `json:"totalRequests"`
	SuccessCount    int         `json:"successCount"`
	FailedCount     int         `json:"failedCount"`
	SuccessRate     string      `json:"successRate"`
	AvgResponseTime interface{} `json:"avgResponseTime"`
	LastRequest     interface{} `json:"lastRequest"`
}

type DepStatus struct {
	Status string `json:"status"`
	PingMs *int64 `json:"pingMs"`
}

// Checker gathers process, traffic and dependency health.
// Storage is optional: when nil it is reported as "not_configured".
type Checker struct {
	Service string
	Rdb     *redis.Client
	DB      Pinger
	Storage Pinger
	Timeout time.Duration
}

// Collect builds the report. Status is "ok" only when the database and Redis answer.
func (h *Checker) Collect(ctx context.Context) Report {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	report := Report{
		Service:      h.Service,
		Dependencies: make(map[string]DepStatus),
	}
	report.Dependencies["database"] = ping(ctx, h.DB, "connected")
	report.Dependencies["storage"] = ping(ctx, h.Storage, "reachable")
	if h.Storage == nil {
		report.Dependencies["storage"] = DepStatus{Status: "not_configured"}
	}

	startTimeMs := time.Now().UnixMilli()
	report.Traffic = TrafficInfo{AvgResponseTime: 0, SuccessRate: "100"}
	redisDep := DepStatus{Status: "disconnected"}
	if h.Rdb != nil {
		redisDep = ping(ctx, PingFunc(func(ctx context.Context) error { return h.Rdb.Ping(ctx).Err() }), "connected")
		if redisDep.Status == "connected" {
			startTimeMs = h.traffic(ctx, &report.Traffic, startTimeMs)
		}
	}
	report.Dependencies["redis"] = redisDep

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	uptime := (time.Now().UnixMilli() - startTimeMs) / 1000
	if uptime < 0 {
		uptime = 0
	}
	report.Runtime = RuntimeInfo{
		UptimeSeconds: uptime,
		Memory:        MemoryInfo{Alloc: int(m.Alloc / 1024 / 1024), HeapUsed: int(m.HeapInuse / 1024 / 1024)},
		Goroutines:    runtime.NumGoroutine(),
		Platform:      runtime.GOOS + " (" + runtime.GOARCH + ")",
		GoVersion:     runtime.Version(),
	}

	if report.Dependencies["database"].Status == "connected" && redisDep.Status == "connected" {
		report.Status = "ok"
	} else {
		report.Status = "issue"
	}
	return report
}

// traffic reads the counters HealthMarker maintains and returns the recorded start time.
func (h *Checker) traffic(ctx context.Context, t *TrafficInfo, startTimeMs int64) int64 {
	vals, err := h.Rdb.MGet(ctx,
		middleware.KeyReqTotal, middleware.KeyReqErrors, middleware.KeyResTime,
		middleware.KeyResCount, middleware.KeyStartTime, middleware.KeyLastReq).Result()
	if err != nil {
		return startTimeMs
	}
	str := func(i int) string {
		s, _ := vals[i].(string)
		return s
	}

	if s := str(4); s != "" {
		if ts, err := strconv.ParseInt(s, 10, 64); err == nil {
			startTimeMs = ts
		}
	} else {
		h.Rdb.Set(ctx, middleware.KeyStartTime, startTimeMs, 0)
	}

	t.TotalRequests, _ = strconv.Atoi(str(0))
	t.FailedCount, _ = strconv.Atoi(str(1))
	t.SuccessCount = t.TotalRequests - t.FailedCount
	if t.TotalRequests > 0 {
		t.SuccessRate = strconv.FormatFloat(float64(t.SuccessCount)/float64(t.TotalRequests)*100, 'f', 1, 64)
	}
	timeSum, _ := strconv.ParseFloat(str(2), 64)
	count, _ := strconv.Atoi(str(3))
	if count > 0 {
		t.AvgResponseTime = strconv.FormatFloat(timeSum/float64(count), 'f', 2, 64)
	}
	if s := str(5); s != "" {
		var last map[string]interface{}
		if json.Unmarshal([]byte(s), &last) == nil {
			t.LastRequest = last
		}
	}
	return startTimeMs
}

func ping(ctx context.Context, p Pinger, okStatus string) DepStatus {
	if p == nil {
		return DepStatus{Status: "disconnected"}
	}
	start := time.Now()
	if err := p.PingContext(ctx); err != nil {
		return DepStatus{Status: "error"}
	}
	ms := time.Since(start).Milliseconds()
	return DepStatus{Status: okStatus, PingMs: &ms}
}

// ErrorLog returns the recent 5xx entries recorded by the error handler, newest first.
func ErrorLog(ctx context.Context, rdb *redis.Client) ([]middleware.ErrorLogEntry, error) {
	raw, err := rdb.LRange(ctx, middleware.KeyErrorLog, 0, middleware.ErrorLogLimit-1).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]middleware.ErrorLogEntry, 0, len(raw))
	for _, s := range raw {
		var e middleware.ErrorLogEntry
		if json.Unmarshal([]byte(s), &e) == nil {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// Reset clears the traffic counters and error log and restarts the uptime clock.
func Reset(ctx context.Context, rdb *redis.Client) error {
	keys := []string{
		middleware.KeyReqTotal, middleware.KeyReqErrors, middleware.KeyResTime, middleware.KeyResCount,
		middleware.KeyStartTime, middleware.KeyLastReq, middleware.KeyErrorLog,
	}
	if err := rdb.Del(ctx, keys...).Err(); err != nil {
		return err
	}
	return rdb.Set(ctx, middleware.KeyStartTime, strconv.FormatInt(time.Now().UnixMilli(), 10), 0).Err()
}
