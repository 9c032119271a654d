package kafka

import (
	"time"

	"github.com/IBM/sarama"
)

func newSaramaConfig() *sarama.Config {
	c := sarama.NewConfig()

	c.Consumer.Return.Errors = true
	c.Consumer.Offsets.Initial = sarama.OffsetNewest
	c.Consumer.Group.Session.Timeout = 30 * time.Second
	c.Consumer.Group.Heartbeat.Interval = 3 * time.Second
	c.Consumer.Offsets.AutoCommit.Enable = true
	c.Consumer.MaxProcessingTime = 10 * time.Second

	return c
}
