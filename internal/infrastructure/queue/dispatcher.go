// Package queue runs background export polling on a fixed set of workers.
package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/household-services/frontend/internal/api/metrics"
	"github.com/household-services/frontend/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
	// maxInFlight caps the concurrent polls of one worker.
	maxInFlight = 16
)

// ErrStopped is returned by Enqueue once the dispatcher's context is done.
var ErrStopped = errors.New("queue: dispatcher stopped")

// Poller runs one export poll job to completion.
type Poller interface {
	Poll(ctx context.Context, job ports.ExportPollJob) error
}

// Dispatcher routes poll jobs to workers by hashing the task id, so a task is
// never polled by two workers at once. A worker runs the polls of different
// tasks concurrently and the jobs of one task in order.
type Dispatcher struct {
	workers []chan ports.ExportPollJob
	stopped chan struct{}
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.ExportPollJob, numWorkers),
		stopped: make(chan struct{}),
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ExportPollJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context, p Poller) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch, p)
	}
	go func() {
		<-ctx.Done()
		close(d.stopped)
	}()
}

// Enqueue hands job to the worker that owns its task id. It blocks while that
// worker's buffer is full, until ctx is done or the dispatcher stops.
func (d *Dispatcher) Enqueue(ctx context.Context, job ports.ExportPollJob) error {
	idx := d.shardIndex(job.TaskID)
	// Inc before the send; the worker decrements on receive.
	depth := metrics.ExportQueueDepth.WithLabelValues(strconv.Itoa(idx))
	depth.Inc()
	select {
	case d.workers[idx] <- job:
		return nil
	case <-ctx.Done():
		depth.Dec()
		return ctx.Err()
	case <-d.stopped:
		depth.Dec()
		return ErrStopped
	}
}

// shardIndex maps a task id deterministically to a worker index.
func (d *Dispatcher) shardIndex(taskID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(taskID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

// runWorker receives jobs from ch and polls each in its own goroutine. A
// job for a task that is still being polled waits in backlog until the
// earlier poll returns. At maxInFlight running polls the worker stops
// receiving.
func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ExportPollJob, p Poller) {
	depth := metrics.ExportQueueDepth.WithLabelValues(strconv.Itoa(id))

	var wg sync.WaitGroup
	defer wg.Wait()

	finished := make(chan string, maxInFlight)
	backlog := make(map[string][]ports.ExportPollJob)
	inFlight := 0

	launch := func(job ports.ExportPollJob) {
		inFlight++
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.poll(ctx, id, p, job)
			finished <- job.TaskID
		}()
	}

	for {
		recv := ch
		if inFlight >= maxInFlight {
			recv = nil
		}

		select {
		case <-ctx.Done():
			return
		case taskID := <-finished:
			inFlight--
			if next := backlog[taskID]; len(next) > 0 {
				backlog[taskID] = next[1:]
				launch(next[0])
				continue
			}
			delete(backlog, taskID)
		case job, ok := <-recv:
			if !ok {
				return
			}
			depth.Dec()
			if waiting, busy := backlog[job.TaskID]; busy {
				backlog[job.TaskID] = append(waiting, job)
				continue
			}
			backlog[job.TaskID] = nil
			launch(job)
		}
	}
}

func (d *Dispatcher) poll(ctx context.Context, id int, p Poller, job ports.ExportPollJob) {
	start := time.Now()
	err := p.Poll(ctx, job)
	result := "ok"
	if err != nil {
		result = "error"
		d.log.Error().Err(err).
			Str("task_id", job.TaskID).
			Int("worker_id", id).
			Msg("export poll failed")
	}
	metrics.ExportPollDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}
