// Package smoke checks a running rankmatrix server end to end and then
// drives concurrent read traffic against it.
package smoke

import (
	"runtime"
	"time"
)

// Defaults used by DefaultConfig.
const (
	DefaultBaseURL  = "http://localhost:5001"
	DefaultTimeout  = 30 * time.Second
	DefaultRequests = 200

	workerMultiplier  = 2 // multiplier for runtime.NumCPU()
	channelMultiplier = 2
)

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL  string        // Base URL of the server
	Timeout  time.Duration // HTTP request timeout
	Workers  int           // Number of concurrent workers in the load phase
	Requests int           // Number of GETs issued in the load phase
	RowRank  string        // Row rank used for the matches check
	ColRank  string        // Column rank used for the matches check
	Verbose  bool          // Log every check and request
}

// DefaultConfig returns a Config for a local server.
func DefaultConfig() Config {
	return Config{
		BaseURL:  DefaultBaseURL,
		Timeout:  DefaultTimeout,
		Workers:  runtime.NumCPU() * workerMultiplier,
		Requests: DefaultRequests,
		RowRank:  "1",
		ColRank:  "2",
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.Requests < 0 {
		c.Requests = 0
	}
	if c.RowRank == "" {
		c.RowRank = d.RowRank
	}
	if c.ColRank == "" {
		c.ColRank = d.ColRank
	}
	return c
}

// Stats holds run statistics.
type Stats struct {
	Checks         int
	ChecksPassed   int
	Failed         []string
	Requests       int
	RequestsOK     int
	RequestsFailed int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}
