package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/formforge/forms-api/internal/api/metrics"
	"github.com/formforge/forms-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes SubmissionRecorded events to a fixed set of workers using
// consistent hashing on the form id, so events for one form are applied in
// order.
type Dispatcher struct {
	workers []chan ports.SubmissionRecorded
	service ports.FormStatsService
	log     zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.FormStatsService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.SubmissionRecorded, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.SubmissionRecorded, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain their channel and exit
// after Stop, or exit immediately when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Publish hands the event to the worker responsible for its form. It never
// blocks: when the worker is saturated the event is dropped.
func (d *Dispatcher) Publish(event ports.SubmissionRecorded) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		metrics.StatsEventsDroppedTotal.Inc()
		return
	}

	idx := d.shardIndex(event.FormID)
	select {
	case d.workers[idx] <- event:
		metrics.StatsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.StatsEventsDroppedTotal.Inc()
		d.log.Warn().
			Str("form_id", event.FormID).
			Int("worker_id", idx).
			Msg("stats queue full, event dropped")
	}
}

// Stop closes the worker channels and waits for queued events to be processed.
// Publish after Stop drops events.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps a form id deterministically to a worker index.
func (d *Dispatcher) shardIndex(formID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(formID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.SubmissionRecorded) {
	defer d.wg.Done()
	depth := metrics.StatsQueueDepth.WithLabelValues(strconv.Itoa(id))

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))

			start := time.Now()
			result := "ok"
			if err := d.service.Record(ctx, event); err != nil {
				result = "error"
				d.log.Error().Err(err).
					Str("form_id", event.FormID).
					Int("worker_id", id).
					Msg("stats event processing failed")
			}
			metrics.StatsProcessingDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
		}
	}
}

var _ ports.SubmissionPublisher = (*Dispatcher)(nil)
