package processor

import (
	"context"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/sirupsen/logrus"

	"framewatch/internal/config"
)

// Metrics writes one point per processed frame to InfluxDB. Optional; a nil
// *Metrics is a no-op and write failures are logged only.
type Metrics struct {
	client influxdb2.Client
	write  api.WriteAPIBlocking
	logger *logrus.Entry
}

func NewMetrics(conf *config.InfluxDBConfig, logger *logrus.Entry) *Metrics {
	if !conf.Enabled {
		return nil
	}
	client := influxdb2.NewClient(conf.URL, conf.Token)
	return &Metrics{
		client: client,
		write:  client.WriteAPIBlocking(conf.Org, conf.Bucket),
		logger: logger.WithField("component", "metrics"),
	}
}

func (m *Metrics) RecordFrame(ctx context.Context, labelCount, watchHits int, latency time.Duration) {
	if m == nil {
		return
	}
	p := influxdb2.NewPointWithMeasurement("frames_processed").
		AddField("labels", labelCount).
		AddField("watch_hits", watchHits).
		AddField("latency_ms", float64(latency.Microseconds())/1000).
		SetTime(time.Now())
	if err := m.write.WritePoint(ctx, p); err != nil {
		m.logger.WithError(err).Error("failed to write frame point")
	}
}

func (m *Metrics) Close() {
	if m == nil {
		return
	}
	m.client.Close()
}
