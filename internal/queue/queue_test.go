package queue

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valorvista/server/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(bytes.NewBuffer(nil))
	return logger
}

func row(prediction float64) *models.Valuation {
	return &models.Valuation{
		LivingArea: 1500,
		Prediction: prediction,
		CreatedAt:  time.Now().UTC(),
	}
}

// collector records delivered batches for assertions.
type collector struct {
	mu      sync.Mutex
	batches [][]*models.Valuation
	signal  chan struct{}
}

func newCollector() *collector {
	return &collector{signal: make(chan struct{}, 16)}
}

func (c *collector) handle(batch []*models.Valuation) error {
	c.mu.Lock()
	c.batches = append(c.batches, batch)
	c.mu.Unlock()
	c.signal <- struct{}{}
	return nil
}

func (c *collector) waitForBatch(t *testing.T) {
	t.Helper()
	select {
	case <-c.signal:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a batch")
	}
}

func (c *collector) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, b := range c.batches {
		n += len(b)
	}
	return n
}

func TestPushBuffersBelowFlushSize(t *testing.T) {
	q := NewValuationQueue(4, 5, time.Minute, testLogger())

	require.NoError(t, q.Push(row(200000)))
	require.NoError(t, q.Push(row(250000)))

	assert.Equal(t, 2, q.Pending())
	assert.Equal(t, 0, q.Len())
}

func TestPushFlushesAtFlushSize(t *testing.T) {
	q := NewValuationQueue(4, 2, time.Minute, testLogger())

	require.NoError(t, q.Push(row(200000)))
	require.NoError(t, q.Push(row(250000)))

	assert.Equal(t, 0, q.Pending())
	assert.Equal(t, 1, q.Len())
}

func TestSubscriberReceivesBatches(t *testing.T) {
	q := NewValuationQueue(4, 2, time.Minute, testLogger())
	c := newCollector()
	q.Subscribe(c.handle)
	q.Start()
	defer q.Close()

	require.NoError(t, q.Push(row(200000)))
	require.NoError(t, q.Push(row(250000)))

	c.waitForBatch(t)
	assert.Equal(t, 2, c.total())
}

func TestPeriodicFlush(t *testing.T) {
	q := NewValuationQueue(4, 100, 20*time.Millisecond, testLogger())
	c := newCollector()
	q.Subscribe(c.handle)
	q.Start()
	defer q.Close()

	require.NoError(t, q.Push(row(200000)))

	c.waitForBatch(t)
	assert.Equal(t, 1, c.total())
}

func TestCloseFlushesPending(t *testing.T) {
	q := NewValuationQueue(4, 100, time.Minute, testLogger())
	c := newCollector()
	q.Subscribe(c.handle)
	q.Start()

	require.NoError(t, q.Push(row(200000)))
	require.NoError(t, q.Push(row(250000)))
	require.NoError(t, q.Push(row(300000)))

	require.NoError(t, q.Close())
	assert.Equal(t, 3, c.total())
}

func TestPushAfterClose(t *testing.T) {
	q := NewValuationQueue(4, 10, time.Minute, testLogger())
	q.Start()
	require.NoError(t, q.Close())

	assert.True(t, q.IsClosed())
	assert.ErrorIs(t, q.Push(row(200000)), ErrQueueClosed)
}

func TestCloseIsIdempotent(t *testing.T) {
	q := NewValuationQueue(4, 10, time.Minute, testLogger())
	q.Start()

	require.NoError(t, q.Close())
	require.NoError(t, q.Close())
}

func TestFullQueueKeepsBuffer(t *testing.T) {
	// Capacity zero means every flush fails until a consumer drains the
	// channel; the buffered rows must survive for a later retry.
	q := NewValuationQueue(0, 1, time.Minute, testLogger())

	err := q.Push(row(200000))
	assert.ErrorIs(t, err, ErrQueueFull)
	assert.Equal(t, 1, q.Pending())
}
