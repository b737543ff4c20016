// Package events publishes timer lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/sadopc/taskday/internal/timer"
)

const (
	TypeEntryStarted = "entry.started"
	TypeEntryStopped = "entry.stopped"
)

// EntryEvent is the JSON payload written for each started or stopped entry.
type EntryEvent struct {
	Type            string     `json:"type"`
	Owner           string     `json:"owner,omitempty"`
	TaskID          string     `json:"task_id"`
	EntryID         string     `json:"entry_id"`
	StartAt         time.Time  `json:"start_at"`
	EndAt           *time.Time `json:"end_at,omitempty"`
	DurationSeconds *int64     `json:"duration_seconds,omitempty"`
	BaseSeconds     int64      `json:"base_seconds"`
	TargetSeconds   int64      `json:"target_seconds,omitempty"`
	OccurredAt      time.Time  `json:"occurred_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher is a timer.Observer that forwards started and stopped entries
// to a Kafka topic keyed by task id. The event's owner wins over the
// publisher's default owner.
type Publisher struct {
	writer  messageWriter
	owner   string
	logger  *slog.Logger
	now     func() time.Time
	timeout time.Duration
}

// NewKafkaPublisher creates a publisher writing to topic on brokers.
// Writes are asynchronous; delivery failures are logged.
func NewKafkaPublisher(brokers []string, topic, owner string, logger *slog.Logger) *Publisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        true,
		Completion: func(msgs []kafka.Message, err error) {
			if err != nil {
				logger.Error("publish timer events", "count", len(msgs), "error", err)
			}
		},
	}
	return newPublisher(w, owner, logger)
}

func newPublisher(w messageWriter, owner string, logger *slog.Logger) *Publisher {
	return &Publisher{writer: w, owner: owner, logger: logger, now: time.Now, timeout: 5 * time.Second}
}

// Observe implements timer.Observer. Only created and stopped entries are
// published; resumes and warnings are local concerns.
func (p *Publisher) Observe(ctx context.Context, ev timer.Event) {
	if ev.Entry == nil {
		return
	}
	var typ string
	switch ev.Kind {
	case timer.EventStarted:
		typ = TypeEntryStarted
	case timer.EventStopped:
		typ = TypeEntryStopped
	default:
		return
	}

	owner := ev.Owner
	if owner == "" {
		owner = p.owner
	}
	payload := EntryEvent{
		Type:            typ,
		Owner:           owner,
		TaskID:          ev.Entry.TaskID,
		EntryID:         ev.Entry.ID,
		StartAt:         ev.Entry.StartAt,
		EndAt:           ev.Entry.EndAt,
		DurationSeconds: ev.Entry.DurationSeconds,
		BaseSeconds:     ev.BaseSeconds,
		TargetSeconds:   ev.TargetSeconds,
		OccurredAt:      p.now().UTC(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.ErrorContext(ctx, "encode timer event", "type", typ, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()
	msg := kafka.Message{
		Key:     []byte(payload.TaskID),
		Value:   body,
		Headers: []kafka.Header{{Key: "type", Value: []byte(typ)}},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.ErrorContext(ctx, "publish timer event", "type", typ, "entry_id", payload.EntryID, "error", err)
	}
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
