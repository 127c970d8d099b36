package publish

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	natscontainer "github.com/testcontainers/testcontainers-go/modules/nats"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startNATS runs a JetStream-enabled NATS server and returns its URL
func startNATS(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := natscontainer.Run(ctx, "nats:2.9-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server is ready"),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate NATS container: %v", err)
		}
	})

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	return url
}

func TestPublishSummaryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	url := startNATS(t)

	client, err := New(url, "")
	require.NoError(t, err)
	defer client.Close()
	assert.Equal(t, DefaultSubject, client.Subject())

	received := make(chan *SummaryMessage, 1)
	require.NoError(t, client.SubscribeSummaries(func(msg *SummaryMessage) {
		received <- msg
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s := sampleSummary()
	require.NoError(t, client.PublishSummary(ctx, "run-42", "data/a.t4433", s))

	select {
	case msg := <-received:
		assert.Equal(t, "run-42", msg.RunID)
		assert.Equal(t, "data/a.t4433", msg.File)
		assert.Equal(t, s.Digest(), msg.Digest)
		require.Len(t, msg.Rows, 2)
		assert.Equal(t, "40621D", msg.Rows[0].Address)
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout waiting for summary")
	}
}

func TestNewReusesExistingStream(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	url := startNATS(t)

	first, err := New(url, "")
	require.NoError(t, err)
	defer first.Close()

	second, err := New(url, "")
	require.NoError(t, err)
	defer second.Close()
}
