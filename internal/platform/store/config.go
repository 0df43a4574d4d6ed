package store

import "time"

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG PGConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// StatementTimeout is applied server side per session, 0 keeps the default
	StatementTimeout time.Duration

	ConnectRetries int           // ping attempts before giving up, default 20
	PingTimeout    time.Duration // per attempt, default 3s
}
