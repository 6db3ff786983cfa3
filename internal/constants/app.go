package constants

import (
	"time"
)

// Application identity
const (
	// AppName is the binary name, used in User-Agent strings and config paths
	AppName = "shiplift"

	// UserAgent identifies shiplift to the forge and storage endpoints
	UserAgent = "shiplift-cli"
)

// Storage defaults
const (
	// DefaultRegion is used when no region is supplied via flag, env, or
	// config file.
	DefaultRegion = "us-east-1"
)

// HTTP client tuning
//
// The pool sizes support the sync command's concurrent uploads; deploy and
// fetch use a handful of connections at most.
const (
	// HTTPDialTimeout - timeout for establishing TCP connections
	HTTPDialTimeout = 30 * time.Second

	// HTTPDialKeepAlive - TCP keep-alive interval
	HTTPDialKeepAlive = 30 * time.Second

	// HTTPIdleConnTimeout - how long idle connections stay in the pool
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPTLSHandshakeTimeout - extended for slow networks behind proxies
	HTTPTLSHandshakeTimeout = 30 * time.Second

	// HTTPExpectContinueTimeout - for HTTP 100-continue on uploads
	HTTPExpectContinueTimeout = 5 * time.Second

	// HTTPMaxIdleConns - total idle connections across all hosts
	HTTPMaxIdleConns = 128

	// HTTPMaxConnsPerHost - active + idle connections per host
	// (must be >= idle per host; the forge and one storage endpoint are the
	// only hosts ever contacted)
	HTTPMaxConnsPerHost = 32
)

// Forge API retry tuning (release create / fetch only; deploy is single-shot)
const (
	// ForgeRetryMax - retryablehttp attempts beyond the first
	ForgeRetryMax = 4

	// ForgeRetryWaitMin - minimum backoff between forge API retries
	ForgeRetryWaitMin = 1 * time.Second

	// ForgeRetryWaitMax - maximum backoff between forge API retries
	ForgeRetryWaitMax = 15 * time.Second
)

// Sync command defaults
const (
	// DefaultSyncWorkers - concurrent uploads during directory sync
	DefaultSyncWorkers = 4

	// MaxSyncWorkers - upper bound for the --workers flag
	MaxSyncWorkers = 16
)
