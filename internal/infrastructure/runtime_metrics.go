package infrastructure

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RuntimeMetrics records Go runtime gauges at the end of every stage so a
// run's textfile shows how much memory streaming a large input took.
type RuntimeMetrics struct {
	heapBytes  metric.Int64Gauge
	sysBytes   metric.Int64Gauge
	goroutines metric.Int64Gauge
	gcCount    metric.Int64Gauge
	uptime     metric.Float64Gauge

	started time.Time
}

// RuntimeStats is one snapshot of the runtime
type RuntimeStats struct {
	HeapBytes  int64
	SysBytes   int64
	Goroutines int64
	GCCount    int64
	Uptime     time.Duration
}

// NewRuntimeMetrics registers the runtime gauges on meter
func NewRuntimeMetrics(meter metric.Meter) (*RuntimeMetrics, error) {
	rm := &RuntimeMetrics{started: time.Now()}
	var err error

	gauges := []struct {
		dst  *metric.Int64Gauge
		name string
		desc string
		unit string
	}{
		{&rm.heapBytes, "sensorprep_runtime_heap", "Heap bytes in use", "By"},
		{&rm.sysBytes, "sensorprep_runtime_sys", "Bytes obtained from the OS", "By"},
		{&rm.goroutines, "sensorprep_runtime_goroutines", "Live goroutines", ""},
		{&rm.gcCount, "sensorprep_runtime_gc_cycles", "Completed GC cycles", ""},
	}
	for _, g := range gauges {
		opts := []metric.Int64GaugeOption{metric.WithDescription(g.desc)}
		if g.unit != "" {
			opts = append(opts, metric.WithUnit(g.unit))
		}
		*g.dst, err = meter.Int64Gauge(g.name, opts...)
		if err != nil {
			return nil, err
		}
	}

	rm.uptime, err = meter.Float64Gauge(
		"sensorprep_runtime_uptime",
		metric.WithDescription("Seconds since the run started"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return rm, nil
}

// Collect reads the runtime and records it against stage
func (rm *RuntimeMetrics) Collect(ctx context.Context, stage string) RuntimeStats {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	stats := RuntimeStats{
		HeapBytes:  int64(ms.HeapAlloc),
		SysBytes:   int64(ms.Sys),
		Goroutines: int64(runtime.NumGoroutine()),
		GCCount:    int64(ms.NumGC),
		Uptime:     time.Since(rm.started),
	}

	attrs := metric.WithAttributes(attribute.String("stage", stage))
	rm.heapBytes.Record(ctx, stats.HeapBytes, attrs)
	rm.sysBytes.Record(ctx, stats.SysBytes, attrs)
	rm.goroutines.Record(ctx, stats.Goroutines, attrs)
	rm.gcCount.Record(ctx, stats.GCCount, attrs)
	rm.uptime.Record(ctx, stats.Uptime.Seconds(), attrs)

	return stats
}
