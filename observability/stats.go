package observability

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/samber/lo"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	once sync.Once
)

type appStats struct {
	ctx              context.Context
	shutdownCallback func(ctx context.Context) error
	goroutines       metric.Int64ObservableUpDownCounter
}

func (stats *appStats) waitForShutdown() {
	if stats == nil || stats.shutdownCallback == nil {
		return
	}
	go func() {
		<-stats.ctx.Done()
		_ = stats.shutdownCallback(context.Background())
	}()
}

func meterName(name string) string {
	builder := &strings.Builder{}
	builder.WriteString("xtree/app/")
	if len(strings.TrimSpace(name)) > 0 {
		builder.WriteString(name)
	} else {
		builder.WriteString("default")
	}
	return builder.String()
}

// InitAppStats starts the runtime metrics once per process. The shutdown
// callback runs when ctx is done.
func InitAppStats(ctx context.Context, name string, shutdown func(ctx context.Context) error) {
	once.Do(func() {
		stats := &appStats{
			ctx:              ctx,
			shutdownCallback: shutdown,
			goroutines: lo.Must[metric.Int64ObservableUpDownCounter](otel.Meter(
				meterName(name),
				metric.WithInstrumentationVersion(otelruntime.Version()),
			).Int64ObservableUpDownCounter(
				"app.core.goroutines",
				metric.WithDescription(`The application goroutines' info.`),
				metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
					ob.Observe(int64(runtime.NumGoroutine()))
					return nil
				}),
			),
			),
		}
		_ = otelruntime.Start()
		stats.waitForShutdown()
	})
}

const (
	opInsert = "insert"
	opErase  = "erase"
	opFind   = "find"
)

// TreeStats counts the tree operations of one session.
//
// The shape gauges read the values published by ObserveShape instead of
// walking the tree, collection runs on the reader goroutine.
type TreeStats struct {
	kind      attribute.KeyValue
	ops       metric.Int64Counter
	rotations metric.Int64Counter
	height    metric.Int64ObservableGauge
	nodes     metric.Int64ObservableGauge
	curHeight atomic.Int64
	curNodes  atomic.Int64
}

func (stats *TreeStats) record(ctx context.Context, op string, hit bool) {
	if stats == nil {
		return
	}
	stats.ops.Add(ctx, 1, metric.WithAttributes(
		stats.kind,
		attribute.String("op", op),
		attribute.Bool("hit", hit),
	))
}

// RecordInsert hit is false for a duplicate.
func (stats *TreeStats) RecordInsert(ctx context.Context, hit bool) {
	stats.record(ctx, opInsert, hit)
}

func (stats *TreeStats) RecordErase(ctx context.Context, hit bool) {
	stats.record(ctx, opErase, hit)
}

func (stats *TreeStats) RecordFind(ctx context.Context, hit bool) {
	stats.record(ctx, opFind, hit)
}

func (stats *TreeStats) RecordRotations(ctx context.Context, n uint64) {
	if stats == nil || n == 0 {
		return
	}
	stats.rotations.Add(ctx, int64(n), metric.WithAttributes(stats.kind))
}

func (stats *TreeStats) ObserveShape(height, nodes int) {
	if stats == nil {
		return
	}
	stats.curHeight.Store(int64(height))
	stats.curNodes.Store(int64(nodes))
}

// NewTreeStats registers the tree instruments on mp, the global meter
// provider is used if mp is nil.
func NewTreeStats(mp metric.MeterProvider, kind string) (*TreeStats, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(meterName("tree"))
	stats := &TreeStats{
		kind: attribute.String("kind", kind),
	}

	var err error
	if stats.ops, err = meter.Int64Counter(
		"xtree.ops",
		metric.WithDescription("The tree operations, split by op and hit."),
	); err != nil {
		return nil, err
	}
	if stats.rotations, err = meter.Int64Counter(
		"xtree.rotations",
		metric.WithDescription("The rotations applied to keep the tree balanced."),
	); err != nil {
		return nil, err
	}
	if stats.height, err = meter.Int64ObservableGauge(
		"xtree.height",
		metric.WithDescription("The tree height, 0 for an empty tree."),
		metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
			ob.Observe(stats.curHeight.Load(), metric.WithAttributes(stats.kind))
			return nil
		}),
	); err != nil {
		return nil, err
	}
	if stats.nodes, err = meter.Int64ObservableGauge(
		"xtree.nodes",
		metric.WithDescription("The live nodes of the tree."),
		metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
			ob.Observe(stats.curNodes.Load(), metric.WithAttributes(stats.kind))
			return nil
		}),
	); err != nil {
		return nil, err
	}
	return stats, nil
}
