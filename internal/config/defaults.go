package config

import "time"

// Dataset defaults.
const (
	DefaultDatasetPath           = ""
	DefaultDatasetMaxSize        = "256MB"
	DefaultDatasetValidateSchema = true
	DefaultDatasetCacheEntries   = 1024
)

// Output defaults.
const (
	DefaultOutputFormat = FormatTable
	DefaultOutputColor  = ColorAuto
)

// Server defaults.
const (
	DefaultServerAddr            = ":8080"
	DefaultServerReadTimeout     = 10 * time.Second
	DefaultServerWriteTimeout    = 30 * time.Second
	DefaultServerShutdownTimeout = 5 * time.Second
)

// Observability defaults.
const (
	DefaultObservabilityLogLevel    = "info"
	DefaultObservabilityLogJSON     = false
	DefaultObservabilitySampleRatio = 0.0
)
