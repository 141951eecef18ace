package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/userhub/userhub-api/internal/core/ports"
)

const (
	defaultWorkers = 2
	channelBuffer  = 128
)

// PhotoRemovalQueue wraps a PhotoStore so that Remove returns immediately and
// the file is deleted by a background worker. Saves pass straight through.
// Removals of the same path always land on the same worker.
type PhotoRemovalQueue struct {
	store   ports.PhotoStore
	workers []chan string
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewPhotoRemovalQueue creates a queue with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewPhotoRemovalQueue(store ports.PhotoStore, numWorkers int, log zerolog.Logger) *PhotoRemovalQueue {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	q := &PhotoRemovalQueue{
		store:   store,
		workers: make([]chan string, numWorkers),
		log:     log,
	}
	for i := range q.workers {
		q.workers[i] = make(chan string, channelBuffer)
	}
	return q
}

// Start launches all worker goroutines. They run until Close.
func (q *PhotoRemovalQueue) Start() {
	for i, ch := range q.workers {
		q.wg.Add(1)
		go q.runWorker(i, ch)
	}
}

// Close stops accepting queued removals, waits for the workers to finish
// everything already queued and returns. Later Remove calls run inline.
// Call it after the HTTP server has shut down.
func (q *PhotoRemovalQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	for _, ch := range q.workers {
		close(ch)
	}
	q.mu.Unlock()

	q.wg.Wait()
}

func (q *PhotoRemovalQueue) Save(ctx context.Context, upload ports.PhotoUpload) (string, error) {
	return q.store.Save(ctx, upload)
}

// Remove schedules path for deletion. When the queue is closed or the
// worker's buffer is full the file is removed inline instead.
func (q *PhotoRemovalQueue) Remove(ctx context.Context, path string) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if !q.closed {
		select {
		case q.workers[q.shardIndex(path)] <- path:
			return nil
		default:
		}
	}
	return q.store.Remove(ctx, path)
}

// shardIndex maps a path deterministically to a worker index.
func (q *PhotoRemovalQueue) shardIndex(path string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(path))
	return int(h.Sum32() % uint32(len(q.workers)))
}

func (q *PhotoRemovalQueue) runWorker(id int, ch <-chan string) {
	defer q.wg.Done()

	// The request that queued the removal is gone by now.
	ctx := context.Background()
	for path := range ch {
		if err := q.store.Remove(ctx, path); err != nil {
			q.log.Error().Err(err).
				Str("photo", path).
				Int("worker_id", id).
				Msg("photo removal failed")
		}
	}
}
