package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/greetingws/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-o string   CORS allowed origin
//	-n int      cache capacity, entries
//	-t int      cache TTL, minutes
//	-i int      batch report interval, seconds (0 disables the job)
//	-e int      simulated email send delay, seconds
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integers and converted to time.Duration values.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-o", "-n", "-t", "-i", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.CORSAllowedOrigin, "o", config.CORSAllowedOrigin, "CORS allowed origin")
	fs.IntVar(&config.CacheCapacity, "n", config.CacheCapacity, "cache capacity (entries)")

	cacheTTL := fs.Int("t", int(config.CacheTTL.Minutes()), "cache TTL (in minutes)")
	batchInterval := fs.Int("i", int(config.BatchInterval.Seconds()), "batch report interval (in seconds, 0 disables)")
	emailDelay := fs.Int("e", int(config.EmailSendDelay.Seconds()), "email send delay (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.CacheTTL = time.Duration(*cacheTTL) * time.Minute
	config.BatchInterval = time.Duration(*batchInterval) * time.Second
	config.EmailSendDelay = time.Duration(*emailDelay) * time.Second
}
