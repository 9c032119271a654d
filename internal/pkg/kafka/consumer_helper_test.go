package kafka

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
)

type fakeSession struct {
	sarama.ConsumerGroupSession
	ctx    context.Context
	marked []*sarama.ConsumerMessage
}

func (s *fakeSession) Context() context.Context { return s.ctx }

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.marked = append(s.marked, msg)
}

func testMessages() []*sarama.ConsumerMessage {
	return []*sarama.ConsumerMessage{
		{Topic: "echo-events", Offset: 1},
		{Topic: "echo-events", Offset: 2},
	}
}

func TestProcessBatch_RetriesThenCommits(t *testing.T) {
	session := &fakeSession{ctx: context.Background()}
	msgs := testMessages()

	var failures atomic.Int32
	ok := processBatch(session, msgs, func(ctx context.Context, m *sarama.ConsumerMessage) error {
		if m.Offset == 1 && failures.Add(1) == 1 {
			return errors.New("db down")
		}
		return nil
	})

	assert.True(t, ok)
	assert.Equal(t, []*sarama.ConsumerMessage{msgs[1]}, session.marked)
	assert.Equal(t, int32(2), failures.Load())
}

func TestProcessBatch_SessionEndsBeforeSuccess(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	session := &fakeSession{ctx: ctx}

	ok := processBatch(session, testMessages(), func(ctx context.Context, m *sarama.ConsumerMessage) error {
		if m.Offset == 1 {
			return errors.New("db down")
		}
		return nil
	})

	assert.False(t, ok)
	assert.Empty(t, session.marked, "failed batch must be read again")
}
