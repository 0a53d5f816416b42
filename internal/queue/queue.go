package queue

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"valorvista/server/internal/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// ValuationQueue buffers completed valuations and hands them to subscribers
// in batches, flushed when the buffer fills or the flush interval elapses.
// Persistence failures never propagate back to the request that produced the
// valuation.
type ValuationQueue struct {
	items      chan []*models.Valuation
	done       chan struct{}
	buffer     []*models.Valuation
	flushSize  int
	flushEvery time.Duration
	closed     bool
	mu         sync.Mutex
	logger     *logrus.Logger
	handlers   []func([]*models.Valuation) error
	wg         sync.WaitGroup
}

// NewValuationQueue creates a queue holding up to bufferSize pending batches.
func NewValuationQueue(bufferSize, flushSize int, flushEvery time.Duration, logger *logrus.Logger) *ValuationQueue {
	if flushSize <= 0 {
		flushSize = 50
	}
	if flushEvery <= 0 {
		flushEvery = 5 * time.Second
	}
	return &ValuationQueue{
		items:      make(chan []*models.Valuation, bufferSize),
		done:       make(chan struct{}),
		flushSize:  flushSize,
		flushEvery: flushEvery,
		logger:     logger,
		handlers:   make([]func([]*models.Valuation) error, 0),
	}
}

// Push appends a valuation to the pending buffer, flushing it as a batch once
// the flush size is reached.
func (q *ValuationQueue) Push(v *models.Valuation) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	q.buffer = append(q.buffer, v)
	if len(q.buffer) >= q.flushSize {
		return q.flushLocked()
	}
	return nil
}

// flushLocked moves the buffered valuations onto the batch channel. Callers
// must hold the mutex. Non-blocking send to prevent deadlocks.
func (q *ValuationQueue) flushLocked() error {
	if len(q.buffer) == 0 {
		return nil
	}
	batch := q.buffer
	q.buffer = nil

	select {
	case q.items <- batch:
		q.logger.WithField("batch_size", len(batch)).Debug("Flushed valuation batch to queue")
		return nil
	default:
		// Put the batch back so a later flush can retry.
		q.buffer = batch
		return ErrQueueFull
	}
}

// Subscribe adds a handler function that will be called for each batch.
func (q *ValuationQueue) Subscribe(handler func([]*models.Valuation) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start begins the flush timer and batch delivery loops.
func (q *ValuationQueue) Start() {
	q.wg.Add(2)
	go q.flushLoop()
	go q.process()
}

func (q *ValuationQueue) flushLoop() {
	defer q.wg.Done()

	ticker := time.NewTicker(q.flushEvery)
	defer ticker.Stop()

	for {
		select {
		case <-q.done:
			return
		case <-ticker.C:
			q.mu.Lock()
			if err := q.flushLocked(); err != nil {
				q.logger.WithError(err).Warn("Periodic flush failed")
			}
			q.mu.Unlock()
		}
	}
}

func (q *ValuationQueue) process() {
	defer q.wg.Done()

	for {
		select {
		case <-q.done:
			// Drain whatever is already queued before exiting.
			for {
				select {
				case batch := <-q.items:
					q.processBatch(batch)
				default:
					return
				}
			}
		case batch := <-q.items:
			q.processBatch(batch)
		}
	}
}

// processBatch sends the batch to all subscribed handlers.
func (q *ValuationQueue) processBatch(batch []*models.Valuation) {
	q.mu.Lock()
	handlers := q.handlers
	q.mu.Unlock()

	for _, handler := range handlers {
		if err := handler(batch); err != nil {
			q.logger.WithError(err).Error("Handler failed to process valuation batch")
		}
	}
}

// Close flushes the remaining buffer, stops the loops and prevents further
// pushes.
func (q *ValuationQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	if err := q.flushLocked(); err != nil {
		q.logger.WithError(err).Warn("Final flush failed")
	}
	q.mu.Unlock()

	close(q.done)
	q.wg.Wait()
	close(q.items)
	return nil
}

// Len returns the current number of batches awaiting delivery.
func (q *ValuationQueue) Len() int {
	return len(q.items)
}

// Pending returns the number of buffered valuations not yet flushed.
func (q *ValuationQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buffer)
}

// IsClosed returns whether the queue has been closed.
func (q *ValuationQueue) IsClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
