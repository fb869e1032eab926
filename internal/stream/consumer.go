package stream

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/step2this/social-media-app-sub011/internal/cdc"
)

// Consumer pulls change records off the stream topic in batches and
// commits each batch only after every record in it has been attempted.
type Consumer struct {
	reader    *kafka.Reader
	orch      *Orchestrator
	batchSize int
	batchWait time.Duration
}

func NewConsumer(brokers, groupID, topic string, orch *Orchestrator, batchSize int, batchWait time.Duration) *Consumer {
	if batchSize <= 0 {
		batchSize = 100
	}
	if batchWait <= 0 {
		batchWait = 500 * time.Millisecond
	}
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  strings.Split(brokers, ","),
			GroupID:  groupID,
			Topic:    topic,
			MinBytes: 10e3,
			MaxBytes: 10e6,
			MaxWait:  2 * time.Second,
		}),
		orch:      orch,
		batchSize: batchSize,
		batchWait: batchWait,
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	defer func() {
		_ = c.reader.Close()
	}()

	log.Printf("stream: consumer started group=%s topic=%s", c.reader.Config().GroupID, c.reader.Config().Topic)

	for {
		msgs, err := c.fetchBatch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("stream: consumer shutting down")
				return nil
			}
			log.Printf("stream: fetch error: %v", err)
			time.Sleep(time.Second)
			continue
		}

		records := make([]cdc.RawRecord, 0, len(msgs))
		for _, m := range msgs {
			var rec cdc.RawRecord
			if err := json.Unmarshal(m.Value, &rec); err != nil {
				// Skipped but still committed with the batch; an
				// unparseable payload will not parse on redelivery
				// either.
				log.Printf("stream: bad payload offset=%d: %v", m.Offset, err)
				continue
			}
			records = append(records, rec)
		}

		c.orch.ProcessBatch(ctx, records)

		if err := c.reader.CommitMessages(ctx, msgs...); err != nil {
			log.Printf("stream: commit error: %v", err)
		}
	}
}

// fetchBatch blocks for the first message, then keeps collecting until
// the batch is full or batchWait elapses.
func (c *Consumer) fetchBatch(ctx context.Context) ([]kafka.Message, error) {
	first, err := c.reader.FetchMessage(ctx)
	if err != nil {
		return nil, err
	}
	msgs := []kafka.Message{first}

	bctx, cancel := context.WithTimeout(ctx, c.batchWait)
	defer cancel()
	for len(msgs) < c.batchSize {
		m, err := c.reader.FetchMessage(bctx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				break
			}
			log.Printf("stream: batch fetch error: %v", err)
			break
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}
