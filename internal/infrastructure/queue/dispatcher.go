package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/photogram/internal/core/domain"
	"github.com/sirpyerre/photogram/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Dispatcher routes relayed auth-state changes to a fixed set of workers,
// hashing on the client id so changes for one client apply in order.
type Dispatcher struct {
	workers []chan domain.StateChange
	handler ports.StateChangeHandler
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, handler ports.StateChangeHandler, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.StateChange, numWorkers),
		handler: handler,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.StateChange, channelBuffer)
	}
	return d
}

// Start launches the workers. They stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands change to the worker owning its client id. It blocks while
// that worker's buffer is full and gives up with ctx.Err() once ctx is done.
func (d *Dispatcher) Enqueue(ctx context.Context, change domain.StateChange) error {
	select {
	case d.workers[d.shardIndex(change.ClientID)] <- change:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) shardIndex(clientID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(clientID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.StateChange) {
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-ch:
			if !ok {
				return
			}
			d.log.Debug().
				Str("client_id", change.ClientID).
				Bool("signed_in", change.Identity != nil).
				Int("worker_id", id).
				Msg("applying relayed state change")
			d.handler.HandleRemoteChange(ctx, change)
		}
	}
}
