package summarizer

import (
	"context"
	"fmt"
	"strings"

	"notesapp/internal/mq"

	"go.uber.org/zap"
)

// Worker consumes summary requests from the queue, generates summaries and
// publishes them back.
type Worker struct {
	conn   *mq.Connection
	client *Client
	logger *zap.SugaredLogger
}

// NewWorker wires the worker.
func NewWorker(conn *mq.Connection, client *Client, logger *zap.SugaredLogger) *Worker {
	return &Worker{conn: conn, client: client, logger: logger}
}

// Run blocks until ctx is cancelled or the broker connection drops.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Infow("summarizer worker started")
	return w.conn.ConsumeSummaryRequests(ctx, w.handle, w.logger)
}

func (w *Worker) handle(ctx context.Context, req mq.SummaryRequest) (string, error) {
	if strings.TrimSpace(req.Content) == "" {
		return "", fmt.Errorf("empty content for note %s", req.NoteID)
	}
	summary, err := w.client.Summarize(ctx, req.Content)
	if err != nil {
		return "", err
	}
	w.logger.Infow("summary generated", "note_id", req.NoteID, "chars", len(summary))
	return summary, nil
}
