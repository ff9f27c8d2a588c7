// Package notifier delivers pending-approval events to the configured
// webhook endpoint from a small worker pool, off the request path.
package notifier

import (
	"context"
	"runtime"
	"time"

	"bankoffice/internal/app/logger"
	"bankoffice/internal/app/model"
	"bankoffice/pkg/webhook"
)

const (
	maxAttempts = 5
	retryDelay  = time.Second
)

type Job func() error

type Service struct {
	logger logger.Logger
	client *webhook.Client
	jobs   chan Job
	stopCh chan struct{}
}

func New(client *webhook.Client) (*Service, error) {
	s := &Service{
		logger: logger.Global().WithComponent("Notifier.Service"),
		client: client,
		jobs:   make(chan Job),
		stopCh: make(chan struct{}),
	}
	s.Start(runtime.GOMAXPROCS(0))

	return s, nil
}

func (s *Service) Start(numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go func(workerID int, l logger.Logger, jobs chan Job, stop chan struct{}) {
			for {
				select {
				case <-stop:
					return
				case job, ok := <-jobs:
					if !ok {
						return
					}
					ll := l.With().Int("worker_id", workerID).Logger()
					if err := job(); err != nil {
						ll.Debug().Err(err).Msg("Job failed")
						go func() {
							select {
							case <-stop:
							case <-time.After(retryDelay):
								select {
								case <-stop:
								case jobs <- job:
								}
							}
						}()
						continue
					}
				}
			}
		}(i, s.logger, s.jobs, s.stopCh)
	}
}

func (s *Service) Stop() {
	s.logger.Debug().Msg("Service shutdown")
	close(s.stopCh)
}

// Run enqueues a job; blocks until a worker picks it up or the service
// stops.
func (s *Service) Run(job Job) {
	select {
	case <-s.stopCh:
	case s.jobs <- job:
	}
}

// PendingApproval builds a delivery job for a withdrawal that awaits
// manager approval. The job gives up after maxAttempts deliveries.
func (s *Service) PendingApproval(m *model.Transaction) Job {
	timeout := 30 * time.Second
	event := &webhook.Event{
		Kind:          webhook.EventKindPendingApproval,
		TransactionID: m.TransactionID,
		AccountNumber: m.AccountNumber,
		Amount:        m.Amount,
		PerformedBy:   m.PerformedBy,
		CreatedAt:     m.CreatedAt,
	}

	attempt := 0

	return func() error {
		attempt++
		l := s.logger.With().
			Str("transaction_id", event.TransactionID).
			Int("attempt", attempt).
			Logger()

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := s.client.Notify(ctx, event); err != nil {
			if attempt >= maxAttempts {
				l.Error().Err(err).Msg("Delivery abandoned")
				return nil
			}
			return err
		}

		return nil
	}
}
