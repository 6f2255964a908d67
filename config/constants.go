package config

import "time"

// Defaults applied when the matching environment variable is unset.
const (
	DefaultHTTPAddr          = ":9300"
	DefaultConnectAddr       = ":9301"
	DefaultReadHeaderTimeout = 5 * time.Second
	DefaultMaxBodyBytes      = 1 << 20

	DefaultDBTimeout  = 10 * time.Second
	DefaultDBMaxConns = 10

	DefaultMeiliIndex   = "records"
	DefaultMeiliTimeout = 15 * time.Second

	DefaultIndexInterval      = 5 * time.Minute
	DefaultIndexBatchSize     = 200
	DefaultIndexRetryInterval = 5 * time.Second

	DefaultSnippetLength = 150
	DefaultMarkerTag     = "mark"
	DefaultMarkerClass   = "highlight"

	DefaultRateLimit = 10.0
	DefaultRateBurst = 20

	DefaultLogLevel = "info"

	DefaultOTelSampleRatio = 0.1
)
