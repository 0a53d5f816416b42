package processor

import (
	"bytes"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"valorvista/server/config"
	"valorvista/server/internal/models"
	"valorvista/server/internal/queue"
)

type MockDB struct {
	mock.Mock
}

func (m *MockDB) Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	args := m.Called(fc, opts)
	return args.Error(0)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(bytes.NewBuffer(nil))
	return logger
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.History.ProcessorCount = 1
	cfg.History.MaxRetries = 2
	cfg.History.RetryDelay = 0
	return cfg
}

func testBatch(n int) []*models.Valuation {
	batch := make([]*models.Valuation, n)
	for i := range batch {
		batch[i] = &models.Valuation{LivingArea: 1500, Prediction: 200000, CreatedAt: time.Now().UTC()}
	}
	return batch
}

func TestProcessBatchSuccess(t *testing.T) {
	db := new(MockDB)
	db.On("Transaction", mock.Anything, mock.Anything).Return(nil).Once()

	p := NewBatchProcessor(db, nil, testConfig(), testLogger())
	err := p.processBatch(testBatch(3))

	require.NoError(t, err)
	db.AssertExpectations(t)
}

func TestProcessBatchRetriesOnFailure(t *testing.T) {
	db := new(MockDB)
	db.On("Transaction", mock.Anything, mock.Anything).Return(errors.New("database is locked")).Once()
	db.On("Transaction", mock.Anything, mock.Anything).Return(nil).Once()

	p := NewBatchProcessor(db, nil, testConfig(), testLogger())
	err := p.processBatch(testBatch(1))

	require.NoError(t, err)
	db.AssertNumberOfCalls(t, "Transaction", 2)
}

func TestProcessBatchExhaustsRetries(t *testing.T) {
	db := new(MockDB)
	db.On("Transaction", mock.Anything, mock.Anything).Return(errors.New("database is locked"))

	p := NewBatchProcessor(db, nil, testConfig(), testLogger())
	err := p.processBatch(testBatch(1))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to persist batch after 2 attempts")
	// One initial attempt plus MaxRetries retries.
	db.AssertNumberOfCalls(t, "Transaction", 3)
}

func TestMultipleWorkersPersistBatchOnce(t *testing.T) {
	db := new(MockDB)
	persisted := make(chan struct{}, 4)
	db.On("Transaction", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		persisted <- struct{}{}
	}).Return(nil)

	cfg := testConfig()
	cfg.History.ProcessorCount = 2

	q := queue.NewValuationQueue(4, 1, time.Minute, testLogger())
	p := NewBatchProcessor(db, q, cfg, testLogger())
	p.Start()
	q.Start()
	defer func() {
		q.Close()
		p.Stop()
	}()

	require.NoError(t, q.Push(&models.Valuation{Prediction: 200000, CreatedAt: time.Now().UTC()}))

	select {
	case <-persisted:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the batch to be persisted")
	}

	// Give a second delivery time to surface before counting.
	time.Sleep(200 * time.Millisecond)
	db.AssertNumberOfCalls(t, "Transaction", 1)
}

func TestBatchPushedRightAfterStartIsPersisted(t *testing.T) {
	db := new(MockDB)
	persisted := make(chan struct{}, 1)
	db.On("Transaction", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		persisted <- struct{}{}
	}).Return(nil)

	q := queue.NewValuationQueue(4, 1, time.Minute, testLogger())
	q.Start()
	p := NewBatchProcessor(db, q, testConfig(), testLogger())
	p.Start()
	defer func() {
		q.Close()
		p.Stop()
	}()

	// The subscription must be live the moment Start returns.
	require.NoError(t, q.Push(&models.Valuation{Prediction: 275000, CreatedAt: time.Now().UTC()}))

	select {
	case <-persisted:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the batch to be persisted")
	}
}

func TestStartSubscribesAndPersists(t *testing.T) {
	db := new(MockDB)
	persisted := make(chan struct{}, 1)
	db.On("Transaction", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		persisted <- struct{}{}
	}).Return(nil)

	q := queue.NewValuationQueue(4, 1, time.Minute, testLogger())
	p := NewBatchProcessor(db, q, testConfig(), testLogger())
	p.Start()
	q.Start()
	defer func() {
		q.Close()
		p.Stop()
	}()

	require.NoError(t, q.Push(&models.Valuation{Prediction: 320000, CreatedAt: time.Now().UTC()}))

	select {
	case <-persisted:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the batch to be persisted")
	}
}
