package store

import "time"

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG  PGConfig
	RDS RDSConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	PingTimeout time.Duration // default 3s
}

// RDSConfig configures redis connectivity
type RDSConfig struct {
	Enabled bool
	URL     string
	Addr    string
	DB      int
}
