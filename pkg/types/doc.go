// Package types defines the canonical in-memory representations of regional
// telemetry shared by the store, the compute engine and the HTTP API.
package types
