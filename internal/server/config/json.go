package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/greetingws/internal/flagx"
	"github.com/dmitrijs2005/greetingws/internal/timex"
)

// JsonConfig is the intermediate DTO used for reading JSON configuration
// files. Interval fields use timex.Duration, which accepts both string
// values such as "30s" and integer nanoseconds. After unmarshalling, its
// fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP   string         `json:"endpoint_addr_http"`
	DatabaseDSN        string         `json:"database_dsn"`
	CORSAllowedOrigin  string         `json:"cors_allowed_origin"`
	CacheCapacity      int            `json:"cache_capacity"`
	CacheTTL           timex.Duration `json:"cache_ttl"`
	BatchInterval      timex.Duration `json:"batch_interval"`
	EmailSendDelay     timex.Duration `json:"email_send_delay"`
	RateLimitPerSecond float64        `json:"rate_limit_per_second"`
	RateLimitBurst     int            `json:"rate_limit_burst"`
	ReadTimeout        timex.Duration `json:"read_timeout"`
	WriteTimeout       timex.Duration `json:"write_timeout"`
	IdleTimeout        timex.Duration `json:"idle_timeout"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config. The file path comes from the -c or -config command-line flags;
// when neither is set, no JSON file is loaded. A file that cannot be read
// or parsed causes a panic, because starting with half a config is worse
// than not starting.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.CORSAllowedOrigin != "" {
		config.CORSAllowedOrigin = c.CORSAllowedOrigin
	}
	if c.CacheCapacity > 0 {
		config.CacheCapacity = c.CacheCapacity
	}
	if c.CacheTTL.Duration > 0 {
		config.CacheTTL = c.CacheTTL.Duration
	}
	if c.BatchInterval.Duration > 0 {
		config.BatchInterval = c.BatchInterval.Duration
	}
	if c.EmailSendDelay.Duration > 0 {
		config.EmailSendDelay = c.EmailSendDelay.Duration
	}
	if c.RateLimitPerSecond > 0 {
		config.RateLimitPerSecond = c.RateLimitPerSecond
	}
	if c.RateLimitBurst > 0 {
		config.RateLimitBurst = c.RateLimitBurst
	}
	if c.ReadTimeout.Duration > 0 {
		config.ReadTimeout = c.ReadTimeout.Duration
	}
	if c.WriteTimeout.Duration > 0 {
		config.WriteTimeout = c.WriteTimeout.Duration
	}
	if c.IdleTimeout.Duration > 0 {
		config.IdleTimeout = c.IdleTimeout.Duration
	}
}
