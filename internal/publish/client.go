package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"squitterlog/internal/report"
)

const (
	// DefaultSubject carries one summary per processed capture file
	DefaultSubject = "squitterlog.summary"
	// StreamName is the JetStream stream backing DefaultSubject
	StreamName = "SQUITTERLOG_SUMMARY"
)

// SummaryMessage is the JSON document published for a processed capture file
type SummaryMessage struct {
	RunID       string       `json:"run_id"`
	File        string       `json:"file"`
	Digest      string       `json:"digest"`
	Total       int          `json:"total"`
	FilteredOut int          `json:"filtered_out"`
	Retained    int          `json:"retained"`
	Rows        []report.Row `json:"rows"`
	PublishedAt time.Time    `json:"published_at"`
}

// Client publishes run summaries to NATS JetStream
type Client struct {
	conn    *nats.Conn
	js      nats.JetStreamContext
	subject string
}

// New connects to url and makes sure the summary stream exists
func New(url, subject string) (*Client, error) {
	if subject == "" {
		subject = DefaultSubject
	}

	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to get JetStream context: %w", err)
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:     StreamName,
		Subjects: []string{subject},
		Storage:  nats.FileStorage,
		MaxAge:   7 * 24 * time.Hour,
	})
	if err != nil && !strings.Contains(err.Error(), "stream name already in use") {
		nc.Close()
		return nil, fmt.Errorf("failed to create stream: %w", err)
	}

	return &Client{
		conn:    nc,
		js:      js,
		subject: subject,
	}, nil
}

// NewSummaryMessage wraps a summary for publication
func NewSummaryMessage(runID, file string, s report.Summary) *SummaryMessage {
	return &SummaryMessage{
		RunID:       runID,
		File:        file,
		Digest:      s.Digest(),
		Total:       s.Total,
		FilteredOut: s.FilteredOut,
		Retained:    s.Retained,
		Rows:        s.Rows,
		PublishedAt: time.Now().UTC(),
	}
}

// PublishSummary publishes the summary of one capture file
func (c *Client) PublishSummary(ctx context.Context, runID, file string, s report.Summary) error {
	data, err := json.Marshal(NewSummaryMessage(runID, file, s))
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	if _, err := c.js.Publish(c.subject, data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("failed to publish summary: %w", err)
	}

	return nil
}

// SubscribeSummaries delivers every published summary to handler
func (c *Client) SubscribeSummaries(handler func(*SummaryMessage)) error {
	_, err := c.js.Subscribe(c.subject, func(msg *nats.Msg) {
		var summary SummaryMessage
		if err := json.Unmarshal(msg.Data, &summary); err != nil {
			return
		}
		handler(&summary)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	return nil
}

// Subject returns the subject summaries are published on
func (c *Client) Subject() string {
	return c.subject
}

// Close closes the NATS connection
func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}
