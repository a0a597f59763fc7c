// Package config loads runtime configuration for the castkeeper client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: CASTKEEPER_* variables, with a .env file in the working
//     directory loaded first when present (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via -c/-config or
//     $CASTKEEPER_CONFIG.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   backend base URL
//	-t int      request timeout (seconds)
//	-s string   session backend: sqlite, redis or memory
//	-d string   SQLite session database path
//	-r string   Redis address for the redis session backend
//	-l string   log format: text or json
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "10s" or
// integer nanoseconds. Absent keys keep the value from earlier sources:
//
//	{
//	  "api_base_url": "http://127.0.0.1:8080",
//	  "request_timeout": "10s",
//	  "session_backend": "sqlite",
//	  "session_db": "castkeeper.db",
//	  "redis_addr": "127.0.0.1:6379",
//	  "session_ttl": "720h",
//	  "log_format": "text",
//	  "log_file": "castkeeper.log"
//	}
package config
