// Package mq carries the AI-summary round-trip over RabbitMQ: the API
// server publishes requests and consumes responses; the summarizer service
// does the reverse.
package mq

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Queue names shared by the API server and the summarizer.
const (
	SummaryRequestQueue  = "ai-summary-request"
	SummaryResponseQueue = "ai-summary-response"
)

// SummaryRequest asks the summarizer to summarize one note.
type SummaryRequest struct {
	NoteID  string `json:"noteId"`
	Content string `json:"content"`
}

// SummaryResponse carries the generated summary back.
type SummaryResponse struct {
	NoteID  string `json:"noteId"`
	Summary string `json:"summary"`
}

// Connection wraps one AMQP connection plus a channel with the summary
// queues declared.
type Connection struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Dial connects to the broker and declares both summary queues durable.
func Dial(url string) (*Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	for _, q := range []string{SummaryRequestQueue, SummaryResponseQueue} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			ch.Close()
			conn.Close()
			return nil, err
		}
	}
	return &Connection{conn: conn, channel: ch}, nil
}

// Close tears the channel and connection down.
func (c *Connection) Close() error {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Connection) publishJSON(ctx context.Context, queue string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.channel.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// PublishSummaryRequest enqueues a summarization request.
// Satisfies service.SummaryPublisher.
func (c *Connection) PublishSummaryRequest(ctx context.Context, noteID, content string) error {
	return c.publishJSON(ctx, SummaryRequestQueue, SummaryRequest{NoteID: noteID, Content: content})
}

// PublishSummaryResponse enqueues a finished summary.
func (c *Connection) PublishSummaryResponse(ctx context.Context, noteID, summary string) error {
	return c.publishJSON(ctx, SummaryResponseQueue, SummaryResponse{NoteID: noteID, Summary: summary})
}

// ConsumeSummaryRequests runs handle for every queued request and publishes
// the returned summary to the response queue. Used by the summarizer
// service. A failed generation is requeued once, then dropped.
func (c *Connection) ConsumeSummaryRequests(ctx context.Context, handle func(context.Context, SummaryRequest) (string, error), logger *zap.SugaredLogger) error {
	deliveries, err := c.channel.Consume(SummaryRequestQueue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			var req SummaryRequest
			if err := json.Unmarshal(d.Body, &req); err != nil {
				logger.Warnw("summary request: bad payload", "error", err)
				_ = d.Nack(false, false)
				continue
			}
			summary, err := handle(ctx, req)
			if err != nil {
				logger.Errorw("summary generation failed", "note_id", req.NoteID, "error", err)
				_ = d.Nack(false, !d.Redelivered)
				continue
			}
			if err := c.PublishSummaryResponse(ctx, req.NoteID, summary); err != nil {
				logger.Errorw("summary response publish failed", "note_id", req.NoteID, "error", err)
				_ = d.Nack(false, !d.Redelivered)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// SummaryStore persists an arrived summary; implemented by the note
// repository.
type SummaryStore interface {
	SetSummary(ctx context.Context, id, summary string) error
}

// ConsumeSummaryResponses stores arriving summaries until ctx is cancelled.
// Messages are acked after a successful store and requeued once otherwise.
func (c *Connection) ConsumeSummaryResponses(ctx context.Context, store SummaryStore, logger *zap.SugaredLogger) error {
	deliveries, err := c.channel.Consume(SummaryResponseQueue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			var resp SummaryResponse
			if err := json.Unmarshal(d.Body, &resp); err != nil {
				logger.Warnw("summary response: bad payload", "error", err)
				_ = d.Nack(false, false)
				continue
			}
			if err := store.SetSummary(ctx, resp.NoteID, resp.Summary); err != nil {
				logger.Errorw("summary response: store failed", "note_id", resp.NoteID, "error", err)
				_ = d.Nack(false, !d.Redelivered)
				continue
			}
			logger.Infow("summary stored", "note_id", resp.NoteID)
			_ = d.Ack(false)
		}
	}
}
