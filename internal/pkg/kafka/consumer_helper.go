package kafka

import (
	"context"
	log "log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"
)

const (
	batchSize    = 32
	batchTimeout = 1 * time.Second
	maxRetryWait = 5 * time.Second
)

type LogicFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

// pullMessageBatch collects messages into batches flushed on size or timeout.
func pullMessageBatch(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, logic LogicFunc) error {
	batch := make([]*sarama.ConsumerMessage, 0, batchSize)
	ticker := time.NewTicker(batchTimeout)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				processBatch(session, batch, logic)
				return nil
			}
			batch = append(batch, msg)
			if len(batch) >= batchSize {
				if !processBatch(session, batch, logic) {
					return nil
				}
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
				ticker.Reset(batchTimeout)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				if !processBatch(session, batch, logic) {
					return nil
				}
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

// processBatch runs logic for every message concurrently, retrying with
// backoff until it succeeds or the session ends. The batch is committed
// only when every message succeeded; otherwise the next session reads it
// again.
func processBatch(session sarama.ConsumerGroupSession, messages []*sarama.ConsumerMessage, logic LogicFunc) bool {
	if len(messages) == 0 {
		return true
	}

	var wg sync.WaitGroup
	done := make([]bool, len(messages))

	for i, msg := range messages {
		wg.Add(1)

		go func(i int, m *sarama.ConsumerMessage) {
			defer wg.Done()
			retryInterval := 100 * time.Millisecond

			for {
				err := logic(session.Context(), m)
				if err == nil {
					done[i] = true
					return
				}

				log.Error("process message error", "topic", m.Topic, "offset", m.Offset, "err", err)

				select {
				case <-session.Context().Done():
					return
				case <-time.After(retryInterval):
				}

				retryInterval *= 2
				if retryInterval > maxRetryWait {
					retryInterval = maxRetryWait
				}
			}
		}(i, msg)
	}

	wg.Wait()

	for _, ok := range done {
		if !ok {
			return false
		}
	}
	session.MarkMessage(messages[len(messages)-1], "")
	return true
}
