//go:build integration

package integration_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/tpa-methane-risk/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node broker and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("tpa-risk-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	cc, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer cc.Close()

	require.NoError(t, cc.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// newAssessor builds an assessor over a small fixed history with today frozen
// at 2024-06-15. Yearly totals are 2018=400 and 2019=900.
func newAssessor(t *testing.T) *domain.Assessor {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.June, 15, 9, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })

	series, err := domain.NewWasteSeries([]domain.HistoricalRecord{
		{Year: 2018, Region: domain.CanonicalRegion, Tonnage: 400},
		{Year: 2019, Region: domain.CanonicalRegion, Tonnage: 600},
		{Year: 2019, Region: "Sleman", Tonnage: 300},
	}, "")
	require.NoError(t, err)

	baseline := domain.Baseline{
		Methane:  domain.Stats{Median: 25, Mean: 30, Max: 45, Count: 4},
		Humidity: domain.Stats{Median: 65, Mean: 66, Max: 80, Count: 4},
	}
	return domain.NewAssessor(series, nil, nil, baseline, discardLogger())
}
