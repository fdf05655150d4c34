package kafka

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/storefront/internal/state"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/jitter"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

const (
	relayMaxAttempts = 3
	relayBaseDelay   = 100 * time.Millisecond
	relayMaxDelay    = 2 * time.Second
)

// RelayWorker пересылает изменения состояния во внешнюю шину.
// Enqueue не блокирует Dispatch: при переполненной очереди уведомление отбрасывается.
type RelayWorker struct {
	producer usecase.MessageProducer
	logger   logger.Logger
	queue    chan *usecase.WriteMessageReq
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewRelayWorker(producer usecase.MessageProducer, logger logger.Logger, bufferSize int) *RelayWorker {
	if bufferSize < 1 {
		bufferSize = 1
	}

	return &RelayWorker{
		producer: producer,
		logger:   logger,
		queue:    make(chan *usecase.WriteMessageReq, bufferSize),
		stop:     make(chan struct{}),
	}
}

// Enqueue — обработчик подписки на Store.
func (w *RelayWorker) Enqueue(change state.Change) {
	select {
	case w.queue <- usecase.NewWriteMessageReq(change):
	default:
		w.logger.Warnf("relay queue is full, dropping %s change of %s", change.Action, change.Slice)
	}
}

func (w *RelayWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()
}

// Stop останавливает воркер и отправляет накопленные уведомления, пока не истечёт ctx.
func (w *RelayWorker) Stop(ctx context.Context) error {
	w.stopOnce.Do(func() { close(w.stop) })
	w.wg.Wait()

	for {
		select {
		case req := <-w.queue:
			if err := w.processEvent(ctx, req); err != nil {
				w.logger.Warnf("drain failed: %v", err)
			}
		case <-ctx.Done():
			return e.Wrap("relay drain interrupted", ctx.Err())
		default:
			return nil
		}
	}
}

func (w *RelayWorker) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.logger.Infof("Relay worker stopped by context cancellation")
			return
		case <-w.stop:
			return
		case req := <-w.queue:
			if err := w.processEvent(ctx, req); err != nil {
				w.logger.Warnf("relay failed: %v", err)
			}
		}
	}
}

// processEvent повторяет отправку только для временных ошибок брокера.
func (w *RelayWorker) processEvent(ctx context.Context, req *usecase.WriteMessageReq) error {
	var err error
	for attempt := 0; attempt < relayMaxAttempts; attempt++ {
		if err = w.producer.WriteMessage(ctx, req); err == nil {
			return nil
		}

		if !isRetryableError(err) {
			return e.Wrap("Permanent Kafka failure", err)
		}

		select {
		case <-time.After(jitter.ExponentialBackoff(relayBaseDelay, relayMaxDelay, attempt, jitter.DefaultJitter)):
		case <-ctx.Done():
			return e.Wrap("Temporary Kafka failure, cancelled", ctx.Err())
		}
	}

	return e.Wrap("Temporary Kafka failure, retries exhausted", err)
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"i/o timeout",
		"network is unreachable",
		"broker not available",
		"leader not available",
		"connection reset",
		"broken pipe",
		"no such host",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(errStr, phrase) {
			return true
		}
	}
	return false
}
