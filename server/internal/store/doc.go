// Package store holds the read-only regional telemetry dataset.
//
// A Dataset maps region names to their ordered samples and is never mutated
// after construction. Store wraps the current Dataset behind a RWMutex so a
// hot reload can swap it wholesale; request handlers take a Snapshot and work
// on that without holding any lock.
//
// Datasets come from the embedded default (Default), or from a YAML file
// (LoadFile / Parse):
//
//	regions:
//	  apac:
//	    - {latency_ms: 170, uptime: 1}
//	    - {latency_ms: 185, uptime: 1}
//
// Watch re-parses a dataset file whenever it changes on disk.
package store
