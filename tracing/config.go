package tracing

import (
	"net"
	"time"

	"github.com/spf13/cast"
)

// Exporter and batching limits.
const (
	exportTimeout      = 30 * time.Second
	reconnectPeriod    = 30 * time.Second
	batchTimeout       = 30 * time.Second
	maxQueueSize       = 10000
	maxExportBatchSize = 1024
	shutdownTimeout    = 5 * time.Second
)

// Config selects where spans are exported and how many are kept.
type Config struct {
	// Disable installs a no-op provider; nothing is recorded or exported.
	Disable bool `yaml:"disable" default:"false"`
	// SampleRate is the ratio of sampled root spans. Child spans follow their parent.
	SampleRate float64 `yaml:"sample_rate" default:"1" validate:"gte=0,lte=1"`

	// OTLP/gRPC collector.
	ExporterHost string `yaml:"exporter_host" validate:"required_unless=Disable true"`
	ExporterPort int    `yaml:"exporter_port" validate:"required_unless=Disable true" default:"4317"`

	// Tags become resource attributes of every span.
	Tags map[string]string `yaml:"tags"`
}

func (c Config) endpoint() string {
	return net.JoinHostPort(c.ExporterHost, cast.ToString(c.ExporterPort))
}
