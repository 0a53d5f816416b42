package processor

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"valorvista/server/config"
	"valorvista/server/internal/database"
	"valorvista/server/internal/models"
	"valorvista/server/internal/queue"
)

// TransactionRunner is the slice of *gorm.DB the processor needs; it keeps
// the persistence path mockable in tests.
type TransactionRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// BatchProcessor persists valuation-history batches drained from the queue.
type BatchProcessor struct {
	db        TransactionRunner
	logger    *logrus.Logger
	config    *config.Config
	queue     *queue.ValuationQueue
	work      chan []*models.Valuation
	waitGroup sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewBatchProcessor creates a new batch processor instance.
func NewBatchProcessor(db TransactionRunner, queue *queue.ValuationQueue, config *config.Config, logger *logrus.Logger) *BatchProcessor {
	ctx, cancel := context.WithCancel(context.Background())
	return &BatchProcessor{
		db:     db,
		queue:  queue,
		config: config,
		logger: logger,
		work:   make(chan []*models.Valuation, 16),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start registers the queue subscription and spawns the persistence workers.
// The subscription is registered exactly once, before any worker runs: inserts
// are plain appends, so a per-worker subscription would persist every batch
// once per worker.
func (p *BatchProcessor) Start() {
	p.queue.Subscribe(p.enqueue)
	for i := 0; i < p.config.History.ProcessorCount; i++ {
		p.waitGroup.Add(1)
		go p.processLoop()
	}
}

// Stop gracefully shuts down the processor.
func (p *BatchProcessor) Stop() {
	p.cancel()
	p.waitGroup.Wait()
}

// enqueue hands a delivered batch to whichever worker is free.
func (p *BatchProcessor) enqueue(batch []*models.Valuation) error {
	select {
	case p.work <- batch:
		return nil
	case <-p.ctx.Done():
		return p.ctx.Err()
	}
}

func (p *BatchProcessor) processLoop() {
	defer p.waitGroup.Done()

	for {
		select {
		case <-p.ctx.Done():
			// Drain whatever was handed over before the stop.
			for {
				select {
				case batch := <-p.work:
					p.processBatch(batch)
				default:
					return
				}
			}
		case batch := <-p.work:
			p.processBatch(batch)
		}
	}
}

// processBatch persists a single batch with transaction and retry logic.
func (p *BatchProcessor) processBatch(batch []*models.Valuation) error {
	var err error
	for attempt := 0; attempt <= p.config.History.MaxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Infof("Retrying valuation batch insert, attempt %d of %d", attempt, p.config.History.MaxRetries)
			time.Sleep(time.Duration(p.config.History.RetryDelay) * time.Second)
		}

		err = p.db.Transaction(func(tx *gorm.DB) error {
			if err := database.InsertValuations(tx, batch); err != nil {
				return fmt.Errorf("failed to insert valuation batch: %w", err)
			}
			return nil
		})

		if err == nil {
			p.logger.Infof("Successfully persisted batch of %d valuations", len(batch))
			return nil
		}

		p.logger.Errorf("Valuation batch insert failed: %v", err)
	}

	return fmt.Errorf("failed to persist batch after %d attempts: %w", p.config.History.MaxRetries, err)
}
