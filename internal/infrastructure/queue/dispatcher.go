package queue

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/upslab/labportal/internal/core/domain"
	"github.com/upslab/labportal/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// Dispatcher writes audit transactions asynchronously. Entries are sharded
// by caller identity so one caller's trail is written in request order.
type Dispatcher struct {
	workers []chan domain.Transaction
	repo    ports.TransactionRepository
	log     zerolog.Logger

	// OnDrop and OnDepth are optional metric hooks.
	OnDrop  func()
	OnDepth func(delta int)

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers, each
// with a queue of bufferSize entries. repo may be nil, in which case
// entries are only written to the log.
func NewDispatcher(numWorkers, bufferSize int, repo ports.TransactionRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if bufferSize <= 0 {
		bufferSize = channelBuffer
	}
	d := &Dispatcher{
		workers: make([]chan domain.Transaction, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Transaction, bufferSize)
	}
	return d
}

// Start launches all worker goroutines. Workers exit once Close has been
// called and their queue is drained.
func (d *Dispatcher) Start() {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// Enqueue hands tx to the worker owning its identity. It never blocks a
// request: when that worker's queue is full the entry is dropped and false
// is returned.
func (d *Dispatcher) Enqueue(tx domain.Transaction) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}
	select {
	case d.workers[d.shardIndex(tx.Identity)] <- tx:
		d.depth(1)
		return true
	default:
		d.log.Warn().Str("path", tx.Path).Msg("transaction queue full, entry dropped")
		if d.OnDrop != nil {
			d.OnDrop()
		}
		return false
	}
}

// Close stops accepting entries and waits for the queues to drain or ctx to
// end, whichever comes first.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps an identity deterministically to a worker index.
func (d *Dispatcher) shardIndex(identity string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(identity))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) depth(delta int) {
	if d.OnDepth != nil {
		d.OnDepth(delta)
	}
}

func (d *Dispatcher) runWorker(id int, ch <-chan domain.Transaction) {
	defer d.wg.Done()
	for tx := range ch {
		d.depth(-1)
		d.log.Info().Str("transaction", tx.Line()).Msg("transaction")
		if d.repo == nil {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := d.repo.Insert(ctx, tx); err != nil {
			d.log.Error().Err(err).
				Str("path", tx.Path).
				Int("worker_id", id).
				Msg("transaction write failed")
		}
		cancel()
	}
}
