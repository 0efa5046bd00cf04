package pg

import (
	"strconv"
	"strings"
	"time"
)

// Config describes the PostgreSQL server, the pgx pool in front of it and the
// startup readiness probe. Password is masked when the config is printed.
type Config struct {
	Host     string `yaml:"host"     validate:"required"`
	Port     int    `yaml:"port"     validate:"required"`
	User     string `yaml:"user"     validate:"required"`
	Password string `yaml:"password" validate:"required" mask:"true"`
	Database string `yaml:"database" validate:"required"`

	SSLMode        string        `yaml:"sslmode"         default:"disable" validate:"oneof=disable allow prefer require verify-ca verify-full"`
	SearchPath     string        `yaml:"search_path"     default:"public"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" default:"10s"`
	// ApplicationName shows up in pg_stat_activity.
	ApplicationName string `yaml:"application_name" default:"cqsdata"`

	// Pool sizing and connection recycling.
	PoolMaxConns          int32         `yaml:"pool_max_conns"           default:"4"`
	PoolMinConns          int32         `yaml:"pool_min_conns"           default:"1"`
	PoolMaxConnLifetime   time.Duration `yaml:"pool_max_conn_lifetime"   default:"1h"`
	PoolMaxConnIdleTime   time.Duration `yaml:"pool_max_conn_idle_time"  default:"30m"`
	PoolHealthCheckPeriod time.Duration `yaml:"pool_health_check_period" default:"1m"`

	// Debug logs every query; SlowQueryThreshold marks queries logged at warn.
	Debug              bool          `yaml:"debug"                default:"false"`
	SlowQueryThreshold time.Duration `yaml:"slow_query_threshold" default:"100ms"`

	// WaitReady pings up to ReadyAttempts times, backing off from ReadyDelay.
	ReadyAttempts uint          `yaml:"ready_attempts" default:"5"`
	ReadyDelay    time.Duration `yaml:"ready_delay"    default:"1s"`
}

// dsn renders the configuration as a libpq keyword/value connection string.
func (c Config) dsn() string {
	params := []struct{ key, value string }{
		{"host", c.Host},
		{"port", strconv.Itoa(c.Port)},
		{"user", c.User},
		{"password", c.Password},
		{"dbname", c.Database},
		{"sslmode", c.SSLMode},
		{"search_path", c.SearchPath},
		{"connect_timeout", strconv.Itoa(int(c.ConnectTimeout.Seconds()))},
	}

	parts := make([]string, 0, len(params))
	for _, p := range params {
		if p.value == "" {
			continue
		}
		parts = append(parts, p.key+"="+quoteDSNValue(p.value))
	}
	return strings.Join(parts, " ")
}

// quoteDSNValue single-quotes v, escaping backslashes and quotes.
func quoteDSNValue(v string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v) + "'"
}
