// Package config loads edgepulse-server configuration from a YAML file.
//
// Config fields:
//   - Server.HTTPPort       : port for the HTTP API (default 8080)
//   - Server.MaxBodyBytes   : request body cap for POST /analytics (default 1 MiB)
//   - Server.ShutdownTimeout: grace period for in-flight requests (default 10s)
//   - Server.CORS           : allowed origins, methods and headers ("*" wildcard)
//   - Dataset.Path          : telemetry dataset file; empty serves the built-in one
//   - Dataset.Watch         : reload Dataset.Path when it changes on disk
//   - Log.Level / Log.Format: slog level (debug|info|warn|error) and json|text
//
// Load(path) applies defaults before unmarshalling, then validates.
// Default() returns the same defaults without reading a file.
package config
