package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog"

	"github.com/household-services/frontend/internal/api/metrics"
	"github.com/household-services/frontend/internal/core/ports"
)

type recordingPoller struct {
	mu   sync.Mutex
	seen map[string][]string
	done chan struct{}
	want int
	n    int
}

func newRecordingPoller(want int) *recordingPoller {
	return &recordingPoller{seen: make(map[string][]string), done: make(chan struct{}), want: want}
}

func (p *recordingPoller) Poll(_ context.Context, job ports.ExportPollJob) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen[job.TaskID] = append(p.seen[job.TaskID], job.Token)
	p.n++
	if p.n == p.want {
		close(p.done)
	}
	if job.Token == "bad" {
		return errors.New("boom")
	}
	return nil
}

func TestDispatcher_RunsEveryJob(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := newRecordingPoller(4)
	d := NewDispatcher(2, zerolog.Nop())
	d.Start(ctx, p)

	jobs := []ports.ExportPollJob{
		{TaskID: "a", Token: "t1"},
		{TaskID: "b", Token: "t2"},
		{TaskID: "a", Token: "t3"},
		{TaskID: "c", Token: "bad"},
	}
	for _, j := range jobs {
		if err := d.Enqueue(ctx, j); err != nil {
			t.Fatalf("Enqueue returned error: %v", err)
		}
	}

	select {
	case <-p.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("jobs were not processed in time")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if got := p.seen["a"]; len(got) != 2 || got[0] != "t1" || got[1] != "t3" {
		t.Fatalf("jobs for one task must run in order, got %v", got)
	}
}

func TestDispatcher_ShardIndexStable(t *testing.T) {
	d := NewDispatcher(8, zerolog.Nop())
	first := d.shardIndex("task-42")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("task-42"); got != first {
			t.Fatalf("shard changed from %d to %d", first, got)
		}
	}
	if first < 0 || first >= 8 {
		t.Fatalf("shard %d out of range", first)
	}
}

func TestDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}

func TestDispatcher_EnqueueAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDispatcher(1, zerolog.Nop())
	d.Start(ctx, newRecordingPoller(-1))
	cancel()

	// Fill the buffer so the send cannot succeed and only stop can win.
	for i := 0; i < channelBuffer; i++ {
		d.workers[0] <- ports.ExportPollJob{}
	}

	deadline := time.After(2 * time.Second)
	for {
		err := d.Enqueue(context.Background(), ports.ExportPollJob{TaskID: "x"})
		if errors.Is(err, ErrStopped) {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("expected ErrStopped, got %v", err)
		default:
		}
	}
}

// gatedPoller blocks polls of the gated task until release is closed.
type gatedPoller struct {
	gated   string
	started chan string
	release chan struct{}
}

func newGatedPoller(gated string) *gatedPoller {
	return &gatedPoller{gated: gated, started: make(chan string, 16), release: make(chan struct{})}
}

func (p *gatedPoller) Poll(ctx context.Context, job ports.ExportPollJob) error {
	p.started <- job.TaskID + "/" + job.Token
	if job.TaskID != p.gated {
		return nil
	}
	select {
	case <-p.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *gatedPoller) next(t *testing.T) string {
	t.Helper()
	select {
	case s := <-p.started:
		return s
	case <-time.After(2 * time.Second):
		t.Fatalf("no poll started in time")
		return ""
	}
}

func TestDispatcher_SlowTaskDoesNotBlockShard(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := newGatedPoller("slow")
	defer close(p.release)
	d := NewDispatcher(1, zerolog.Nop())
	d.Start(ctx, p)

	_ = d.Enqueue(ctx, ports.ExportPollJob{TaskID: "slow", Token: "t1"})
	if got := p.next(t); got != "slow/t1" {
		t.Fatalf("expected slow task first, got %s", got)
	}

	_ = d.Enqueue(ctx, ports.ExportPollJob{TaskID: "fast", Token: "t2"})
	if got := p.next(t); got != "fast/t2" {
		t.Fatalf("task on the same shard waited behind a running poll, got %s", got)
	}
}

func TestDispatcher_SameTaskRunsSerially(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := newGatedPoller("a")
	d := NewDispatcher(1, zerolog.Nop())
	d.Start(ctx, p)

	_ = d.Enqueue(ctx, ports.ExportPollJob{TaskID: "a", Token: "t1"})
	_ = d.Enqueue(ctx, ports.ExportPollJob{TaskID: "a", Token: "t2"})
	if got := p.next(t); got != "a/t1" {
		t.Fatalf("expected a/t1, got %s", got)
	}

	select {
	case got := <-p.started:
		t.Fatalf("second job of a task started while the first was running: %s", got)
	case <-time.After(50 * time.Millisecond):
	}

	close(p.release)
	if got := p.next(t); got != "a/t2" {
		t.Fatalf("expected a/t2 after release, got %s", got)
	}
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("read gauge: %v", err)
	}
	return m.GetGauge().GetValue()
}

// depthPoller records the lowest queue depth it sees while running.
type depthPoller struct {
	gauge prometheus.Gauge
	base  float64

	mu   sync.Mutex
	min  float64
	n    int
	want int
	done chan struct{}
}

func (p *depthPoller) Poll(context.Context, ports.ExportPollJob) error {
	var m dto.Metric
	_ = p.gauge.Write(&m)
	v := m.GetGauge().GetValue() - p.base

	p.mu.Lock()
	defer p.mu.Unlock()
	if v < p.min {
		p.min = v
	}
	p.n++
	if p.n == p.want {
		close(p.done)
	}
	return nil
}

func TestDispatcher_QueueDepthNeverNegative(t *testing.T) {
	const workers, shard = 8, 7
	d := NewDispatcher(workers, zerolog.Nop())

	var ids []string
	for i := 0; len(ids) < 32; i++ {
		id := fmt.Sprintf("task-%d", i)
		if d.shardIndex(id) == shard {
			ids = append(ids, id)
		}
	}

	gauge := metrics.ExportQueueDepth.WithLabelValues(strconv.Itoa(shard))
	base := gaugeValue(t, gauge)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := &depthPoller{gauge: gauge, base: base, want: len(ids), done: make(chan struct{})}
	d.Start(ctx, p)

	for _, id := range ids {
		if err := d.Enqueue(ctx, ports.ExportPollJob{TaskID: id}); err != nil {
			t.Fatalf("Enqueue returned error: %v", err)
		}
	}
	select {
	case <-p.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("jobs were not processed in time")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.min < 0 {
		t.Fatalf("queue depth went negative: %v", p.min)
	}
	if got := gaugeValue(t, gauge); got != base {
		t.Fatalf("expected depth back at %v, got %v", base, got)
	}
}

func TestDispatcher_FailedEnqueueLeavesDepth(t *testing.T) {
	const workers, shard = 8, 6
	d := NewDispatcher(workers, zerolog.Nop())
	id := ""
	for i := 0; id == ""; i++ {
		if c := fmt.Sprintf("job-%d", i); d.shardIndex(c) == shard {
			id = c
		}
	}
	gauge := metrics.ExportQueueDepth.WithLabelValues(strconv.Itoa(shard))
	base := gaugeValue(t, gauge)

	for i := 0; i < channelBuffer; i++ {
		if err := d.Enqueue(context.Background(), ports.ExportPollJob{TaskID: id}); err != nil {
			t.Fatalf("Enqueue returned error: %v", err)
		}
	}
	if got := gaugeValue(t, gauge); got != base+channelBuffer {
		t.Fatalf("expected depth %v, got %v", base+channelBuffer, got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := d.Enqueue(ctx, ports.ExportPollJob{TaskID: id}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if got := gaugeValue(t, gauge); got != base+channelBuffer {
		t.Fatalf("failed enqueue changed depth to %v", got)
	}
}
