// Package config loads runtime configuration for the eduadmin console.
//
// Sources & precedence (later wins)
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: variables from the process, falling back to a ".env" file
//     and a ".env.<mode>" file in the working directory (the mode file wins
//     over ".env"; the process environment wins over both).
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags.
//
// Environment variables
//
//	EDU_MODE              development | production
//	EDU_API_BASE_URL      explicit REST base URL, overrides the mode default
//	EDU_DATA_DIR          directory for the local database and log file
//	EDU_REQUEST_TIMEOUT   per-request timeout, e.g. "15s"
//	EDU_SEARCH_DEBOUNCE   list filter debounce, e.g. "300ms"
//	EDU_LOG_LEVEL         debug | info | warn | error
//	EDU_LOG_FORMAT        console | json
//	EDU_OTLP_ENDPOINT     OTLP/gRPC collector, tracing disabled when empty
//	EDU_OTLP_INSECURE     true to disable TLS towards the collector
//
// Flags
//
//	-m string        mode
//	-a string        API base URL
//	-d string        data directory
//	-t duration      request timeout
//	-debounce dur    list filter debounce
//	-l string        log level
//	-log-format str  log format
//	-log-stderr      write logs to stderr instead of the log file
//
// # JSON schema
//
//	{
//	  "mode": "production",
//	  "api_base_url": "https://tagayev.uz/api",
//	  "data_dir": "~/.eduadmin",
//	  "request_timeout": "15s",
//	  "search_debounce": "300ms",
//	  "log_level": "info",
//	  "log_format": "console",
//	  "otlp_endpoint": "",
//	  "otlp_insecure": false
//	}
package config
